package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/render"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for stipple. Besides commands and flags,
the scripts complete density models (--model), drawing modes (--mode)
and comma-separated output formats (--format).

  bash:        source <(stipple completion bash)
  zsh:         stipple completion zsh > "${fpath[1]}/_stipple"
  fish:        stipple completion fish > ~/.config/fish/completions/stipple.fish
  powershell:  stipple completion powershell | Out-String | Invoke-Expression`,
		Example: `  stipple completion zsh > "${fpath[1]}/_stipple"
  stipple run portrait.jpg --model <TAB>`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerValueCompletions attaches value completions to the --model,
// --mode and --format flags of every subcommand that defines them.
func registerValueCompletions(root *cobra.Command) {
	modes := make([]string, 0, len(render.ValidModes))
	for m := range render.ValidModes {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("model") != nil {
			_ = cmd.RegisterFlagCompletionFunc("model", prefixCompletion(density.ModelNames()))
		}
		if cmd.Flags().Lookup("mode") != nil {
			_ = cmd.RegisterFlagCompletionFunc("mode", prefixCompletion(modes))
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion(formats))
		}
	}
}

// prefixCompletion offers the values that start with the typed prefix.
func prefixCompletion(values []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// formatCompletion completes the last entry of a comma-separated format
// list, skipping formats already listed.
func formatCompletion(formats []string) cobra.CompletionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		head, last := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			head, last = toComplete[:i+1], toComplete[i+1:]
		}
		done := pipeline.ParseFormats(head)
		var out []string
		for _, f := range formats {
			if strings.HasPrefix(f, last) && !slices.Contains(done, f) {
				out = append(out, head+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

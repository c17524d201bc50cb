package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
)

// runFlags holds the run command's flags that are not pipeline options.
type runFlags struct {
	output     string
	formats    string
	noCache    bool
	noTUI      bool
	frames     string
	frameEvery int
}

// runCommand creates the run command that stipples an image.
func (c *CLI) runCommand() *cobra.Command {
	var (
		flags runFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Stipple an image",
		Long: `Stipple an image.

The image is scaled to the working width, converted to a density field and
covered with points that are relaxed for a fixed number of rounds. The
final points are written as png, svg and/or json next to the input (or to
the path given with -o).

Runs with --seed are reproducible and cached; without a seed every run
differs.`,
		Example: `  stipple run portrait.jpg
  stipple run portrait.jpg -n 8000 -i 120 -f png,svg --mode voronoi
  stipple run portrait.jpg --seed 7 --frames frames/ --frame-every 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			if cmd.Flags().Changed("format") {
				opts.Formats = pipeline.ParseFormats(flags.formats)
			}
			c.Config.applyRun(&opts, cmd.Flags())
			c.Config.applyRender(&opts, cmd.Flags())
			if flags.frameEvery < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--frame-every must be >= 1, got %d", flags.frameEvery)
			}
			return c.runStipple(cmd.Context(), opts, flags)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.Points, "points", "n", 0, fmt.Sprintf("number of points (default %d)", pipeline.DefaultPoints))
	f.IntVarP(&opts.Iterations, "iterations", "i", 0, fmt.Sprintf("relaxation rounds (default %d)", pipeline.DefaultIterations))
	f.IntVar(&opts.Workers, "workers", 0, "parallel assignment workers (default GOMAXPROCS)")
	f.Float64Var(&opts.Gain, "gain", 0, fmt.Sprintf("step gain towards the centroid (default %v)", relax.DefaultGain))
	f.Uint64Var(&opts.Seed, "seed", 0, "random seed; non-zero makes the run reproducible and cacheable")
	f.StringVar(&opts.Model, "model", "", fmt.Sprintf("density model (default %s)", pipeline.DefaultModel))
	f.IntVar(&opts.MinWidth, "min-width", 0, fmt.Sprintf("minimum working width (default %d)", pipeline.DefaultMinWidth))
	f.IntVar(&opts.MaxWidth, "max-width", 0, fmt.Sprintf("maximum working width (default %d)", pipeline.DefaultMaxWidth))
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached points and recompute")

	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	f.StringVarP(&opts.Mode, "mode", "m", "", "drawing mode: dots (default), delaunay, voronoi")
	f.Float64Var(&opts.Radius, "radius", 0, fmt.Sprintf("dot radius (default %v)", pipeline.DefaultRadius))
	f.Float64Var(&opts.LineWidth, "line-width", 0, fmt.Sprintf("edge width (default %v)", pipeline.DefaultLineWidth))
	f.Float64Var(&opts.Scale, "scale", 0, fmt.Sprintf("output scale (default %v)", pipeline.DefaultScale))

	f.StringVarP(&flags.output, "output", "o", "", "output base path")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&flags.noTUI, "no-tui", false, "log progress instead of showing the progress view")
	f.StringVar(&flags.frames, "frames", "", "write intermediate rounds as PNG frames to this directory")
	f.IntVar(&flags.frameEvery, "frame-every", 1, "write every k-th round when --frames is set")

	return cmd
}

// runStipple executes the pipeline and writes the outputs.
func (c *CLI) runStipple(ctx context.Context, opts pipeline.Options, flags runFlags) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var frames *frameWriter
	if flags.frames != "" {
		if frames, err = newFrameWriter(flags.frames, flags.frameEvery, opts); err != nil {
			return err
		}
	}

	var result *pipeline.Result
	if flags.noTUI || !isatty.IsTerminal(os.Stderr.Fd()) {
		result, err = executeLogged(ctx, runner, opts, frames)
	} else {
		result, err = executeTUI(ctx, runner, opts, frames)
	}
	if err != nil {
		return err
	}
	if err := frames.Err(); err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, basePath(flags.output, opts.Input))
	if err != nil {
		return err
	}

	printSuccess("Stippled %s", opts.Input)
	printStats(result.Stats.Points, result.Stats.Rounds, result.Width, result.Height, result.CacheInfo.RelaxHit)
	for _, p := range paths {
		printFile(p)
	}
	if frames != nil {
		printDetail("%d frames in %s", frames.count, flags.frames)
	}
	for _, p := range paths {
		if filepath.Ext(p) == "."+pipeline.FormatJSON {
			printNextStep("Redraw", fmt.Sprintf("%s render %s --mode voronoi -f svg", appName, p))
		}
	}
	return nil
}

// executeLogged runs the pipeline, reporting rounds through the logger.
func executeLogged(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, frames *frameWriter) (*pipeline.Result, error) {
	prog := newProgress(opts.Logger)
	step := max(1, opts.Iterations/10)

	result, err := runner.Execute(ctx, opts, func(s relax.Snapshot) {
		frames.write(s)
		if s.Round%step == 0 || s.Final() {
			opts.Logger.Info("relaxing", "round", s.Round, "of", s.TotalRounds, "moved", fmt.Sprintf("%.3f", s.Moved))
		}
	})
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Stippled %d points", result.Stats.Points))
	return result, nil
}

// executeTUI runs the pipeline behind a bubbletea progress view. Quitting
// the view cancels the run.
func executeTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, frames *frameWriter) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The view owns the terminal; keep pipeline logs out of it.
	opts.Logger = newLogger(io.Discard, LogInfo)

	p := tea.NewProgram(NewRelaxModel(filepath.Base(opts.Input), cancel), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var (
		result *pipeline.Result
		runErr error
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		result, runErr = runner.Execute(ctx, opts, func(s relax.Snapshot) {
			frames.write(s)
			p.Send(newRoundMsg(s))
			if s.Final() {
				p.Send(stageMsg("rendering"))
			}
		})
		p.Send(doneMsg{err: runErr})
	}()

	final, tuiErr := p.Run()
	if tuiErr != nil {
		cancel()
	}
	<-done

	if m, ok := final.(RelaxModel); ok && m.Interrupted {
		return nil, context.Canceled
	}
	if runErr != nil {
		return nil, runErr
	}
	if tuiErr != nil {
		return nil, fmt.Errorf("progress view: %w", tuiErr)
	}
	return result, nil
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/render"
)

// renderCommand creates the render command for redrawing a points document.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [points.json]",
		Short: "Draw a points document produced by 'run -f json'",
		Long: `Draw a points document produced by 'run -f json'.

The document holds the final point positions, so redrawing in another mode
or at another scale does not relax the points again.`,
		Example: `  stipple render portrait.json --mode delaunay -f svg
  stipple render portrait.json --scale 4 --radius 1 -o large.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				opts.Formats = pipeline.ParseFormats(formatsStr)
			}
			c.Config.applyRender(&opts, cmd.Flags())
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "drawing mode: dots (default), delaunay, voronoi")
	cmd.Flags().Float64Var(&opts.Radius, "radius", 0, fmt.Sprintf("dot radius (default %v)", pipeline.DefaultRadius))
	cmd.Flags().Float64Var(&opts.LineWidth, "line-width", 0, fmt.Sprintf("edge width (default %v)", pipeline.DefaultLineWidth))
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, fmt.Sprintf("output scale (default %v)", pipeline.DefaultScale))

	return cmd
}

// runRender loads the document and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := errors.ValidatePath(input); err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "points document %s", input)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	doc, err := render.ReadJSON(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Drawing %d points...", doc.Points))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc.Positions, doc.Width, doc.Height, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.SetMessage("Writing outputs...")
	paths, err := writeArtifacts(artifacts, opts.Formats, basePath(output, input))
	spinner.Stop()
	if err != nil {
		return err
	}
	printSuccess("Rendered %s (%s)", input, opts.Mode)
	printStats(doc.Points, 0, doc.Width, doc.Height, cacheHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

package pipeline

import (
	"fmt"

	"github.com/matzehuels/stipple/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(positions []float64, width, height int, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, err = render.PNG(positions, width, height, opts.RenderOptions()...)
		case FormatSVG:
			data, err = render.SVG(positions, width, height, opts.RenderOptions()...)
		case FormatJSON:
			data, err = render.JSON(positions, width, height)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFrame draws one intermediate snapshot as PNG.
func RenderFrame(positions []float64, width, height int, opts Options) ([]byte, error) {
	opts.SetRenderDefaults()
	return render.PNG(positions, width, height, opts.RenderOptions()...)
}

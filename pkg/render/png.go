package render

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/matzehuels/stipple/pkg/errors"
)

// PNG rasterizes the points in the configured mode.
func PNG(positions []float64, width, height int, opts ...Option) ([]byte, error) {
	r, err := newRenderer(opts...)
	if err != nil {
		return nil, err
	}
	if err := checkFrame(positions, width, height); err != nil {
		return nil, err
	}
	ow, oh := r.outputSize(width, height)
	if err := errors.ValidatePixels(ow, oh, MaxPixels); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "scaled output at %vx", r.scale)
	}
	segs, err := Segments(positions, width, height, r.mode)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(ow, oh)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	dc.Scale(r.scale, r.scale)
	dc.SetRGB(0, 0, 0)

	if r.mode == ModeDots {
		for i := 0; i+1 < len(positions); i += 2 {
			dc.DrawCircle(positions[i], positions[i+1], r.radius)
		}
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill dots: %w", err)
		}
	} else if len(segs) > 0 {
		dc.SetLineWidth(r.lineWidth)
		for _, s := range segs {
			dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke %s: %w", r.mode, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

package render

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Drawing modes.
const (
	ModeDots     = "dots"
	ModeDelaunay = "delaunay"
	ModeVoronoi  = "voronoi"
)

// Defaults.
const (
	DefaultMode      = ModeDots
	DefaultRadius    = 1.5
	DefaultLineWidth = 1.0
	DefaultScale     = 1.0

	// MaxScale bounds the output size multiplier.
	MaxScale = 8.0

	// MaxPixels bounds both the frame and the scaled raster output.
	MaxPixels = 1 << 26
)

// ValidModes lists the accepted drawing modes.
var ValidModes = map[string]bool{
	ModeDots:     true,
	ModeDelaunay: true,
	ModeVoronoi:  true,
}

// ValidateMode returns an INVALID_MODE error for unknown modes.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode, "invalid mode %q (valid: %s)", mode, modeList())
	}
	return nil
}

func modeList() string {
	modes := make([]string, 0, len(ValidModes))
	for m := range ValidModes {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	return strings.Join(modes, ", ")
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	mode      string
	radius    float64
	lineWidth float64
	scale     float64
}

// WithMode selects the drawing mode.
func WithMode(mode string) Option { return func(r *renderer) { r.mode = mode } }

// WithRadius sets the dot radius in frame pixels.
func WithRadius(radius float64) Option { return func(r *renderer) { r.radius = radius } }

// WithLineWidth sets the stroke width for edge modes in frame pixels.
func WithLineWidth(w float64) Option { return func(r *renderer) { r.lineWidth = w } }

// WithScale multiplies the output size.
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) (renderer, error) {
	r := renderer{
		mode:      DefaultMode,
		radius:    DefaultRadius,
		lineWidth: DefaultLineWidth,
		scale:     DefaultScale,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if err := ValidateMode(r.mode); err != nil {
		return r, err
	}
	if !(r.radius > 0) || math.IsInf(r.radius, 0) {
		return r, errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %v", r.radius)
	}
	if !(r.lineWidth > 0) || math.IsInf(r.lineWidth, 0) {
		return r, errors.New(errors.ErrCodeInvalidInput, "line width must be positive, got %v", r.lineWidth)
	}
	if !(r.scale > 0) || r.scale > MaxScale {
		return r, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", MaxScale, r.scale)
	}
	return r, nil
}

// outputSize returns the pixel size of a scaled frame.
func (r renderer) outputSize(width, height int) (int, int) {
	return max(1, int(math.Ceil(float64(width)*r.scale))), max(1, int(math.Ceil(float64(height)*r.scale)))
}

func checkFrame(positions []float64, width, height int) error {
	if err := errors.ValidatePixels(width, height, MaxPixels); err != nil {
		return err
	}
	if len(positions)%2 != 0 {
		return errors.New(errors.ErrCodeInvalidInput, "positions must hold x,y pairs, got %d values", len(positions))
	}
	return nil
}

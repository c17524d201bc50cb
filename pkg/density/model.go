package density

import (
	"image/color"
	"sort"

	"github.com/matzehuels/stipple/pkg/errors"
)

// A Model converts a color to a density in [0, 1].
type Model interface {
	Convert(c color.Color) float64
}

// ModelFunc returns a Model that invokes f to implement the conversion.
// Results are clamped to [0, 1].
func ModelFunc(f func(color.Color) float64) Model {
	return &modelFunc{f}
}

type modelFunc struct {
	f func(color.Color) float64
}

func (m *modelFunc) Convert(c color.Color) float64 {
	return clamp01(m.f(c))
}

// Default models. The Neg* variants invert their channel so dark pixels
// become dense.
var (
	Red     Model = ModelFunc(red)
	Avg     Model = ModelFunc(avg)
	Luma    Model = ModelFunc(luma)
	Alpha   Model = ModelFunc(alpha)
	NegRed  Model = ModelFunc(func(c color.Color) float64 { return 1 - red(c) })
	NegAvg  Model = ModelFunc(func(c color.Color) float64 { return 1 - avg(c) })
	NegLuma Model = ModelFunc(func(c color.Color) float64 { return 1 - luma(c) })
)

// DefaultModel is the model used when none is specified.
const DefaultModel = "negred"

var models = map[string]Model{
	"red":     Red,
	"avg":     Avg,
	"luma":    Luma,
	"alpha":   Alpha,
	"negred":  NegRed,
	"negavg":  NegAvg,
	"negluma": NegLuma,
}

// ModelByName looks up one of the named models.
func ModelByName(name string) (Model, error) {
	if m, ok := models[name]; ok {
		return m, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidModel, "unknown density model: %q (must be one of: %v)", name, ModelNames())
}

// ModelNames returns the sorted names accepted by ModelByName.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for n := range models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func red(c color.Color) float64 {
	r, _, _, _ := c.RGBA()
	return float64(r) / 0xFFFF
}

func avg(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return float64(r+g+b) / (3 * 0xFFFF)
}

func luma(c color.Color) float64 {
	return float64(color.Gray16Model.Convert(c).(color.Gray16).Y) / 0xFFFF
}

func alpha(c color.Color) float64 {
	_, _, _, a := c.RGBA()
	return float64(a) / 0xFFFF
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}

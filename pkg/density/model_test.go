package density

import (
	"image/color"
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
)

func TestModels(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}
	red := color.RGBA{255, 0, 0, 255}

	tests := []struct {
		name  string
		model Model
		c     color.Color
		want  float64
	}{
		{"negred black", NegRed, black, 1},
		{"negred white", NegRed, white, 0},
		{"negred red", NegRed, red, 0},
		{"red red", Red, red, 1},
		{"avg white", Avg, white, 1},
		{"negavg black", NegAvg, black, 1},
		{"luma white", Luma, white, 1},
		{"negluma white", NegLuma, white, 0},
		{"alpha opaque", Alpha, black, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.model.Convert(tt.c)
			if d := got - tt.want; d > 1e-9 || d < -1e-9 {
				t.Errorf("Convert(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestModelFuncClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{2, 1},
		{0.5, 0.5},
	}
	for _, tt := range tests {
		m := ModelFunc(func(color.Color) float64 { return tt.in })
		if got := m.Convert(color.Black); got != tt.want {
			t.Errorf("Convert() with raw %v = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModelByName(t *testing.T) {
	for _, name := range ModelNames() {
		if _, err := ModelByName(name); err != nil {
			t.Errorf("ModelByName(%q) error: %v", name, err)
		}
	}

	if _, err := ModelByName(DefaultModel); err != nil {
		t.Errorf("default model %q not registered: %v", DefaultModel, err)
	}

	_, err := ModelByName("sepia")
	if !errors.Is(err, errors.ErrCodeInvalidModel) {
		t.Errorf("ModelByName(sepia) error = %v, want %v", err, errors.ErrCodeInvalidModel)
	}
}

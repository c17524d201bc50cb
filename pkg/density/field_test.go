package density

import (
	"image/color"
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		values  []float64
		wantErr bool
	}{
		{"valid", 2, 2, []float64{0, 0.25, 0.5, 1}, false},
		{"all zero", 3, 1, []float64{0, 0, 0}, false},
		{"length mismatch", 2, 2, []float64{0, 0, 0}, true},
		{"zero width", 0, 2, nil, true},
		{"negative height", 2, -1, nil, true},
		{"value above one", 1, 1, []float64{1.5}, true},
		{"negative value", 1, 1, []float64{-0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.w, tt.h, tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
				}
				return
			}
			if f.Width() != tt.w || f.Height() != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", f.Width(), f.Height(), tt.w, tt.h)
			}
			if f.Len() != tt.w*tt.h {
				t.Errorf("Len() = %d, want %d", f.Len(), tt.w*tt.h)
			}
		})
	}
}

func TestNewCopiesValues(t *testing.T) {
	values := []float64{0.1, 0.2}
	f, err := New(2, 1, values)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	values[0] = 0.9
	if got := f.Value(0, 0); got != 0.1 {
		t.Errorf("Value(0, 0) = %v after caller mutation, want 0.1", got)
	}

	out := f.Values()
	out[1] = 0.9
	if got := f.Value(1, 0); got != 0.2 {
		t.Errorf("Value(1, 0) = %v after Values() mutation, want 0.2", got)
	}
}

func TestValueAndRow(t *testing.T) {
	f, err := New(3, 2, []float64{
		0, 0.1, 0.2,
		0.3, 0.4, 0.5,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := f.Value(2, 1); got != 0.5 {
		t.Errorf("Value(2, 1) = %v, want 0.5", got)
	}
	if got := f.Value(-1, 0); got != 0 {
		t.Errorf("Value(-1, 0) = %v, want 0", got)
	}
	if got := f.Value(3, 0); got != 0 {
		t.Errorf("Value(3, 0) = %v, want 0", got)
	}

	row := f.Row(1)
	if len(row) != 3 || row[0] != 0.3 || row[2] != 0.5 {
		t.Errorf("Row(1) = %v, want [0.3 0.4 0.5]", row)
	}

	if got := f.Mass(); got < 1.4999 || got > 1.5001 {
		t.Errorf("Mass() = %v, want 1.5", got)
	}
}

func TestFieldIsImage(t *testing.T) {
	f, err := New(2, 1, []float64{0, 1})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if b := f.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("Bounds() = %v, want 2x1", b)
	}
	if got := f.At(1, 0).(color.Gray16).Y; got != 0xFFFF {
		t.Errorf("At(1, 0) = %#x, want 0xffff", got)
	}
	if got := f.At(0, 0).(color.Gray16).Y; got != 0 {
		t.Errorf("At(0, 0) = %#x, want 0", got)
	}
}

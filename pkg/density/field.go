package density

import (
	"image"
	"image/color"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Field is a finite rectangular grid of density values.
type Field struct {
	width, height int
	// values holds the density at (x, y) at values[y*width+x].
	values []float64
	mass   float64
}

// New validates values and returns a Field that owns a copy of them.
// It fails with INVALID_INPUT for non-positive dimensions, a length other
// than width*height, or any value outside [0, 1].
func New(width, height int, values []float64) (*Field, error) {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if err := errors.ValidateUnitValues(values, width*height); err != nil {
		return nil, err
	}
	f := &Field{
		width:  width,
		height: height,
		values: make([]float64, len(values)),
	}
	copy(f.values, values)
	for _, v := range f.values {
		f.mass += v
	}
	return f, nil
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// Len returns Width*Height.
func (f *Field) Len() int { return len(f.values) }

// Value returns the density at (x, y), or zero outside the field.
func (f *Field) Value(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0
	}
	return f.values[y*f.width+x]
}

// Row returns the densities of row y. The slice aliases the field and must
// not be modified.
func (f *Field) Row(y int) []float64 {
	return f.values[y*f.width : (y+1)*f.width]
}

// Values returns a copy of all densities in row-major order.
func (f *Field) Values() []float64 {
	out := make([]float64, len(f.values))
	copy(out, f.values)
	return out
}

// Mass returns the sum of all densities.
func (f *Field) Mass() float64 { return f.mass }

// ColorModel implements image.Image.
func (f *Field) ColorModel() color.Model { return color.Gray16Model }

// Bounds implements image.Image.
func (f *Field) Bounds() image.Rectangle { return image.Rect(0, 0, f.width, f.height) }

// At implements image.Image. Higher density renders brighter.
func (f *Field) At(x, y int) color.Color {
	return color.Gray16{Y: uint16(f.Value(x, y)*0xFFFF + 0.5)}
}

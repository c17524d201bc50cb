package relax

import "math"

// update moves every seed toward its centroid for zero-indexed round k and
// returns the mean distance travelled.
//
// All seeds read the same accumulators. Jitter is drawn for x then y, seeds
// in index order.
func (e *Engine) update(k int) float64 {
	maxX := float64(e.field.Width()) - Epsilon
	maxY := float64(e.field.Height()) - Epsilon
	wiggle := Wiggle(k)
	gain := e.params.Gain

	var moved float64
	for i := range e.acc.s {
		x0, y0 := e.positions[2*i], e.positions[2*i+1]
		x1, y1 := x0, y0
		if s := e.acc.s[i]; s > 0 {
			x1 = e.acc.cx[i] / s
			y1 = e.acc.cy[i] / s
		}

		x := x0 + (x1-x0)*gain + (e.src.Float64()-0.5)*wiggle
		y := y0 + (y1-y0)*gain + (e.src.Float64()-0.5)*wiggle
		x = clamp(x, 0, maxX)
		y = clamp(y, 0, maxY)

		e.positions[2*i] = x
		e.positions[2*i+1] = y
		moved += math.Hypot(x-x0, y-y0)
	}
	return moved / float64(len(e.acc.s))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

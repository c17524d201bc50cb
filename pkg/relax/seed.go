package relax

// seed fills positions with n density-biased samples.
//
// Each seed draws up to MaxSeedAttempts integer cells and keeps the first
// one whose density exceeds a uniform draw. If every draw is rejected the
// last candidate is kept, so sparse fields are over-sampled uniformly
// rather than looping forever.
func (e *Engine) seed() []float64 {
	w, h := e.field.Width(), e.field.Height()
	positions := make([]float64, 2*e.params.Points)
	for i := 0; i < e.params.Points; i++ {
		var x, y int
		for range MaxSeedAttempts {
			x = cellOf(e.src.Float64(), w)
			y = cellOf(e.src.Float64(), h)
			if e.src.Float64() < e.field.Value(x, y) {
				break
			}
		}
		positions[2*i] = float64(x)
		positions[2*i+1] = float64(y)
	}
	return positions
}

// cellOf maps u in [0, 1) to an integer cell in [0, n).
func cellOf(u float64, n int) int {
	c := int(u * float64(n))
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

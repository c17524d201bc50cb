package relax

import (
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stipple/pkg/spatial"
)

// accumulator holds the per-seed weighted sums of one round.
type accumulator struct {
	s  []float64 // total weight
	cx []float64 // weight * x
	cy []float64 // weight * y
}

func newAccumulator(n int) accumulator {
	return accumulator{
		s:  make([]float64, n),
		cx: make([]float64, n),
		cy: make([]float64, n),
	}
}

func (a *accumulator) reset() {
	clear(a.s)
	clear(a.cx)
	clear(a.cy)
}

// add merges b into a.
func (a *accumulator) add(b *accumulator) {
	for i := range a.s {
		a.s[i] += b.s[i]
		a.cx[i] += b.cx[i]
		a.cy[i] += b.cy[i]
	}
}

// assign zeroes the accumulators and sums every dense pixel into its
// nearest seed.
//
// With more than one worker the rows are split into contiguous bands, each
// summed into a private accumulator. Bands are merged in row order, so the
// result is independent of scheduling.
func (e *Engine) assign(idx spatial.Index, bands []accumulator) {
	e.acc.reset()
	h := e.field.Height()

	if len(bands) <= 1 {
		e.assignRows(idx, &e.acc, 0, h)
		return
	}

	var g errgroup.Group
	rows := (h + len(bands) - 1) / len(bands)
	for b := range bands {
		y0 := b * rows
		y1 := min(h, y0+rows)
		acc := &bands[b]
		acc.reset()
		if y0 >= y1 {
			continue
		}
		g.Go(func() error {
			e.assignRows(idx, acc, y0, y1)
			return nil
		})
	}
	_ = g.Wait()

	for b := range bands {
		e.acc.add(&bands[b])
	}
}

// assignRows scans rows [y0, y1) in row-major order.
func (e *Engine) assignRows(idx spatial.Index, acc *accumulator, y0, y1 int) {
	w := e.field.Width()
	hint := -1
	for y := y0; y < y1; y++ {
		row := e.field.Row(y)
		py := float64(y) + 0.5
		for x := 0; x < w; x++ {
			wt := row[x]
			if wt <= 0 {
				continue
			}
			px := float64(x) + 0.5
			hint = idx.Locate(px, py, hint)
			acc.s[hint] += wt
			acc.cx[hint] += wt * px
			acc.cy[hint] += wt * py
		}
	}
}

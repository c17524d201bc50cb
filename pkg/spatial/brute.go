package spatial

import (
	"math"

	"github.com/matzehuels/stipple/pkg/errors"
)

// BruteForce scans every site on each query.
type BruteForce struct {
	positions []float64
}

// NewBruteForce is a Builder for BruteForce.
func NewBruteForce(positions []float64, width, height int) (Index, error) {
	if _, err := checkPositions(positions); err != nil {
		return nil, err
	}
	b := &BruteForce{positions: make([]float64, len(positions))}
	copy(b.positions, positions)
	return b, nil
}

// Locate implements Index.
func (b *BruteForce) Locate(x, y float64, hint int) int {
	best, bestD := -1, math.Inf(1)
	for i := 0; i < len(b.positions)/2; i++ {
		dx := b.positions[2*i] - x
		dy := b.positions[2*i+1] - y
		if d := dx*dx + dy*dy; closer(d, i, bestD, best) {
			best, bestD = i, d
		}
	}
	return best
}

// Rebuild implements Index.
func (b *BruteForce) Rebuild(positions []float64) error {
	if len(positions) != len(b.positions) {
		return errors.New(errors.ErrCodeInternal, "site count changed from %d to %d", len(b.positions)/2, len(positions)/2)
	}
	copy(b.positions, positions)
	return nil
}

// Len implements Index.
func (b *BruteForce) Len() int { return len(b.positions) / 2 }

var _ Index = (*BruteForce)(nil)

// Package spatial answers "which seed is nearest to this point" queries.
//
// The relaxation engine treats the index as a capability: it builds one over
// the current seed positions, issues a point location for every dense pixel,
// and rebuilds it after each round's update. Any structure that returns the
// true nearest site satisfies the contract; this package provides a uniform
// bucket [Grid] for production use and a [BruteForce] scan used as a
// reference in tests.
//
// Positions are always passed as flat slices (x0, y0, x1, y1, ...).
//
// Ties between equidistant sites resolve to the lowest site index, so query
// results never depend on the hint or on query order.
package spatial

import (
	"github.com/matzehuels/stipple/pkg/errors"
)

// Index locates the nearest site to a query point.
//
// Locate must be safe for concurrent use between calls to Rebuild.
type Index interface {
	// Locate returns the index of the site nearest to (x, y). hint is a
	// previous result used to speed up the search; a negative or
	// out-of-range hint is ignored.
	Locate(x, y float64, hint int) int

	// Rebuild refreshes the index after positions changed. The number of
	// sites may not change.
	Rebuild(positions []float64) error

	// Len returns the number of sites.
	Len() int
}

// Builder constructs an index over positions inside a width x height frame.
type Builder func(positions []float64, width, height int) (Index, error)

func checkPositions(positions []float64) (int, error) {
	if len(positions) == 0 {
		return 0, errors.New(errors.ErrCodeInternal, "spatial index needs at least one site")
	}
	if len(positions)%2 != 0 {
		return 0, errors.New(errors.ErrCodeInternal, "positions must hold x,y pairs, got %d values", len(positions))
	}
	return len(positions) / 2, nil
}

// closer reports whether site i at squared distance d beats the current best.
func closer(d float64, i int, bestD float64, best int) bool {
	return d < bestD || (d == bestD && i < best)
}

package spatial

import (
	"math"

	"github.com/matzehuels/stipple/pkg/errors"
)

// sitesPerBucket is the average bucket occupancy the grid is sized for.
const sitesPerBucket = 2

// Grid buckets sites into a uniform grid laid over the frame and answers
// queries with an expanding ring search.
//
// Buckets are stored in compressed form: the sites of bucket b are
// items[start[b]:start[b+1]]. Rebuild reuses these buffers.
type Grid struct {
	positions  []float64
	cols, rows int
	cellW      float64
	cellH      float64
	minCell    float64
	start      []int32
	items      []int32
	bucketOf   []int32
	next       []int32 // fill cursors, one per bucket
}

// NewGrid is a Builder for Grid.
func NewGrid(positions []float64, width, height int) (Index, error) {
	n, err := checkPositions(positions)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "grid frame")
	}

	// Aim for square buckets holding sitesPerBucket sites on average.
	area := float64(width) * float64(height)
	side := math.Sqrt(area * sitesPerBucket / float64(n))
	cols := max(1, min(width, int(math.Ceil(float64(width)/side))))
	rows := max(1, min(height, int(math.Ceil(float64(height)/side))))

	g := &Grid{
		positions: make([]float64, len(positions)),
		cols:      cols,
		rows:      rows,
		cellW:     float64(width) / float64(cols),
		cellH:     float64(height) / float64(rows),
		start:     make([]int32, cols*rows+1),
		items:     make([]int32, n),
		bucketOf:  make([]int32, n),
		next:      make([]int32, cols*rows),
	}
	g.minCell = math.Min(g.cellW, g.cellH)
	copy(g.positions, positions)
	g.fill()
	return g, nil
}

// Rebuild implements Index.
func (g *Grid) Rebuild(positions []float64) error {
	if len(positions) != len(g.positions) {
		return errors.New(errors.ErrCodeInternal, "site count changed from %d to %d", len(g.positions)/2, len(positions)/2)
	}
	copy(g.positions, positions)
	g.fill()
	return nil
}

// Len implements Index.
func (g *Grid) Len() int { return len(g.items) }

// fill counting-sorts the sites into buckets.
func (g *Grid) fill() {
	clear(g.start)
	for i := range g.bucketOf {
		cx, cy := g.cell(g.positions[2*i], g.positions[2*i+1])
		b := int32(cy*g.cols + cx)
		g.bucketOf[i] = b
		g.start[b+1]++
	}
	for b := 1; b < len(g.start); b++ {
		g.start[b] += g.start[b-1]
	}
	copy(g.next, g.start[:len(g.start)-1])
	for i, b := range g.bucketOf {
		g.items[g.next[b]] = int32(i)
		g.next[b]++
	}
}

// cell maps a point to its bucket coordinates, clamping points outside the
// frame onto the border buckets.
func (g *Grid) cell(x, y float64) (int, int) {
	cx := int(x / g.cellW)
	cy := int(y / g.cellH)
	return clampInt(cx, 0, g.cols-1), clampInt(cy, 0, g.rows-1)
}

// Locate implements Index.
func (g *Grid) Locate(x, y float64, hint int) int {
	best, bestD := -1, math.Inf(1)
	if hint >= 0 && hint < len(g.items) {
		best, bestD = hint, g.dist2(hint, x, y)
	}

	cx, cy := g.cell(x, y)
	maxRing := max(g.cols, g.rows)
	for r := 0; r <= maxRing; r++ {
		// Every site in ring r or beyond is at least (r-1)*minCell away.
		if r > 0 {
			if lb := float64(r-1) * g.minCell; lb > 0 && lb*lb > bestD {
				break
			}
		}
		for by := cy - r; by <= cy+r; by++ {
			if by < 0 || by >= g.rows {
				continue
			}
			step := 1
			if by != cy-r && by != cy+r {
				// Interior rows of the ring only touch the two side columns.
				step = 2 * r
			}
			for bx := cx - r; bx <= cx+r; bx += max(step, 1) {
				if bx < 0 || bx >= g.cols {
					continue
				}
				b := by*g.cols + bx
				for _, i := range g.items[g.start[b]:g.start[b+1]] {
					if d := g.dist2(int(i), x, y); closer(d, int(i), bestD, best) {
						best, bestD = int(i), d
					}
				}
			}
		}
	}
	return best
}

func (g *Grid) dist2(i int, x, y float64) float64 {
	dx := g.positions[2*i] - x
	dy := g.positions[2*i+1] - y
	return dx*dx + dy*dy
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ Index = (*Grid)(nil)

package render

import (
	"math"

	"github.com/pzsz/voronoi"
)

// Segment is a line from (X1, Y1) to (X2, Y2).
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// delaunayMargin widens the diagram bounds used to find neighbouring sites,
// so that pairs whose shared cell edge lies outside the frame are kept.
const delaunayMargin = 4

// Segments returns the edges drawn by an edge mode.
//
// For ModeVoronoi these are the cell boundaries clipped to the frame. For
// ModeDelaunay they connect every pair of sites whose cells share an edge
// within a band around the frame four times its size; hull edges whose
// shared boundary lies further out are omitted. ModeDots has no segments.
// Coincident points are treated as one site.
func Segments(positions []float64, width, height int, mode string) ([]Segment, error) {
	if err := ValidateMode(mode); err != nil {
		return nil, err
	}
	if err := checkFrame(positions, width, height); err != nil {
		return nil, err
	}
	if mode == ModeDots {
		return nil, nil
	}

	sites := uniqueSites(positions)
	if len(sites) < 2 {
		return nil, nil
	}

	w, h := float64(width), float64(height)
	if mode == ModeVoronoi {
		diagram := voronoi.ComputeDiagram(sites, voronoi.NewBBox(0, w, 0, h), false)
		segs := make([]Segment, 0, len(diagram.Edges))
		for _, e := range diagram.Edges {
			if e.LeftCell == nil || e.RightCell == nil {
				continue
			}
			s := Segment{e.Va.X, e.Va.Y, e.Vb.X, e.Vb.Y}
			if s.finite() {
				segs = append(segs, s)
			}
		}
		return segs, nil
	}

	m := delaunayMargin * max(w, h)
	diagram := voronoi.ComputeDiagram(sites, voronoi.NewBBox(-m, w+m, -m, h+m), false)
	segs := make([]Segment, 0, len(diagram.Edges))
	for _, e := range diagram.Edges {
		if e.LeftCell == nil || e.RightCell == nil {
			continue
		}
		a, b := e.LeftCell.Site, e.RightCell.Site
		segs = append(segs, Segment{a.X, a.Y, b.X, b.Y})
	}
	return segs, nil
}

func (s Segment) finite() bool {
	for _, v := range [...]float64{s.X1, s.Y1, s.X2, s.Y2} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// uniqueSites converts positions to voronoi sites, dropping duplicates.
func uniqueSites(positions []float64) []voronoi.Vertex {
	seen := make(map[voronoi.Vertex]struct{}, len(positions)/2)
	sites := make([]voronoi.Vertex, 0, len(positions)/2)
	for i := 0; i+1 < len(positions); i += 2 {
		v := voronoi.Vertex{X: positions[i], Y: positions[i+1]}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		sites = append(sites, v)
	}
	return sites
}

// Package render draws stipple point sets.
//
// # Modes
//
// Three drawing modes are supported, all black on white:
//
//   - dots: a filled circle per point (radius 1.5 by default)
//   - delaunay: the edges of the Delaunay triangulation of the points
//   - voronoi: the boundaries of the Voronoi cells, clipped to the frame
//
// Triangulation and cell geometry come from github.com/pzsz/voronoi; see
// [Segments].
//
// # Formats
//
// [PNG] rasterizes through github.com/gogpu/gg, [SVG] writes vector output
// through github.com/ajstarks/svgo, and [JSON] serializes the positions
// themselves so a run can be re-rendered later with [ReadJSON]:
//
//	png, err := render.PNG(positions, w, h, render.WithMode(render.ModeVoronoi))
//	svg, err := render.SVG(positions, w, h, render.WithScale(2))
//
// Positions are always flat slices (x0, y0, x1, y1, ...) in frame pixels.
package render

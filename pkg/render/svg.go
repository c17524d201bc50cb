package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
)

// svgUnits is the number of user units per frame pixel. svgo writes integer
// coordinates, so geometry is scaled up and mapped back with the viewBox.
const svgUnits = 100

// SVG writes the points in the configured mode as an SVG document.
func SVG(positions []float64, width, height int, opts ...Option) ([]byte, error) {
	r, err := newRenderer(opts...)
	if err != nil {
		return nil, err
	}
	if err := checkFrame(positions, width, height); err != nil {
		return nil, err
	}
	segs, err := Segments(positions, width, height, r.mode)
	if err != nil {
		return nil, err
	}

	ow, oh := r.outputSize(width, height)
	vw, vh := width*svgUnits, height*svgUnits

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(ow, oh, 0, 0, vw, vh)
	canvas.Rect(0, 0, vw, vh, "fill:white")

	if r.mode == ModeDots {
		canvas.Gstyle("fill:black")
		rad := units(r.radius)
		for i := 0; i+1 < len(positions); i += 2 {
			canvas.Circle(units(positions[i]), units(positions[i+1]), rad)
		}
		canvas.Gend()
	} else {
		canvas.Gstyle(fmt.Sprintf("stroke:black;stroke-width:%d;fill:none", units(r.lineWidth)))
		for _, s := range segs {
			canvas.Line(units(s.X1), units(s.Y1), units(s.X2), units(s.Y2))
		}
		canvas.Gend()
	}
	canvas.End()
	return buf.Bytes(), nil
}

func units(v float64) int {
	return int(math.Round(v * svgUnits))
}

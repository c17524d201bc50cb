package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
)

var triangle = []float64{10, 10, 30, 10, 20, 30}

func TestValidateMode(t *testing.T) {
	for _, m := range []string{ModeDots, ModeDelaunay, ModeVoronoi} {
		if err := ValidateMode(m); err != nil {
			t.Errorf("ValidateMode(%q) = %v", m, err)
		}
	}
	for _, m := range []string{"", "hex", "DOTS"} {
		if err := ValidateMode(m); !errors.Is(err, errors.ErrCodeInvalidMode) {
			t.Errorf("ValidateMode(%q) = %v, want INVALID_MODE", m, err)
		}
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		code errors.Code
	}{
		{"bad mode", WithMode("hex"), errors.ErrCodeInvalidMode},
		{"zero radius", WithRadius(0), errors.ErrCodeInvalidInput},
		{"NaN radius", WithRadius(math.NaN()), errors.ErrCodeInvalidInput},
		{"negative line width", WithLineWidth(-1), errors.ErrCodeInvalidInput},
		{"zero scale", WithScale(0), errors.ErrCodeInvalidInput},
		{"huge scale", WithScale(100), errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PNG(triangle, 40, 40, tt.opt); !errors.Is(err, tt.code) {
				t.Errorf("PNG() error = %v, want %s", err, tt.code)
			}
			if _, err := SVG(triangle, 40, 40, tt.opt); !errors.Is(err, tt.code) {
				t.Errorf("SVG() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name      string
		positions []float64
		mode      string
		want      int
	}{
		{"dots have none", triangle, ModeDots, 0},
		{"triangle delaunay", triangle, ModeDelaunay, 3},
		{"triangle voronoi", triangle, ModeVoronoi, 3},
		{"pair delaunay", []float64{10, 20, 30, 20}, ModeDelaunay, 1},
		{"pair voronoi", []float64{10, 20, 30, 20}, ModeVoronoi, 1},
		{"duplicates collapse", []float64{10, 20, 10, 20, 30, 20}, ModeDelaunay, 1},
		{"single point", []float64{5, 5}, ModeVoronoi, 0},
		{"empty", nil, ModeDelaunay, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, err := Segments(tt.positions, 40, 40, tt.mode)
			if err != nil {
				t.Fatalf("Segments: %v", err)
			}
			if len(segs) != tt.want {
				t.Errorf("got %d segments, want %d: %+v", len(segs), tt.want, segs)
			}
		})
	}
}

func TestVoronoiSegmentsInsideFrame(t *testing.T) {
	segs, err := Segments(triangle, 40, 40, ModeVoronoi)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	const tol = 1e-9
	for _, s := range segs {
		for _, v := range []float64{s.X1, s.Y1, s.X2, s.Y2} {
			if v < -tol || v > 40+tol {
				t.Errorf("segment %+v leaves the frame", s)
			}
		}
	}
}

func TestSegmentsRejectsBadFrame(t *testing.T) {
	if _, err := Segments(triangle, 0, 40, ModeVoronoi); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero width: got %v, want INVALID_INPUT", err)
	}
	if _, err := Segments([]float64{1, 2, 3}, 40, 40, ModeVoronoi); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("odd positions: got %v, want INVALID_INPUT", err)
	}
}

func TestFrameSizeLimits(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		opts []Option
	}{
		{"huge frame", 3_000_000_000, 3_000_000_000, nil},
		{"frame over limit", 1 << 14, 1<<12 + 1, nil},
		{"scaled over limit", 4096, 4096, []Option{WithScale(MaxScale)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PNG(nil, tt.w, tt.h, tt.opts...); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("PNG(%dx%d) = %v, want INVALID_INPUT", tt.w, tt.h, err)
			}
		})
	}
	if _, err := SVG(nil, 3_000_000_000, 3_000_000_000); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SVG of a huge frame = %v, want INVALID_INPUT", err)
	}
}

func TestPNG(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		scale float64
	}{
		{"dots", ModeDots, 1},
		{"dots scaled", ModeDots, 2},
		{"delaunay", ModeDelaunay, 1},
		{"voronoi", ModeVoronoi, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := PNG(triangle, 40, 40, WithMode(tt.mode), WithScale(tt.scale))
			if err != nil {
				t.Fatalf("PNG: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := int(math.Ceil(40 * tt.scale))
			if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
				t.Errorf("size = %v, want %dx%d", b.Size(), want, want)
			}
			// The corner is far from every point and edge.
			if r, _, _, _ := img.At(0, 0).RGBA(); r < 0xC000 {
				t.Errorf("corner should be white, red = %#x", r)
			}
		})
	}
}

func TestPNGDrawsDots(t *testing.T) {
	data, err := PNG([]float64{20, 20}, 40, 40, WithRadius(4))
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, _ := img.At(20, 20).RGBA(); r > 0x4000 {
		t.Errorf("dot center should be black, red = %#x", r)
	}
	if r, _, _, _ := img.At(30, 30).RGBA(); r < 0xC000 {
		t.Errorf("background should be white, red = %#x", r)
	}
}

func TestSVG(t *testing.T) {
	data, err := SVG(triangle, 40, 30, WithScale(2))
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	doc := string(data)
	if !strings.Contains(doc, `viewBox="0 0 4000 3000"`) {
		t.Errorf("missing scaled viewBox in %s", doc)
	}
	if !strings.Contains(doc, `width="80"`) || !strings.Contains(doc, `height="60"`) {
		t.Error("output size should reflect scale")
	}
	if got := strings.Count(doc, "<circle"); got != 3 {
		t.Errorf("got %d circles, want 3", got)
	}

	data, err = SVG(triangle, 40, 40, WithMode(ModeVoronoi))
	if err != nil {
		t.Fatalf("SVG voronoi: %v", err)
	}
	if got := strings.Count(string(data), "<line"); got != 3 {
		t.Errorf("got %d lines, want 3", got)
	}
}

func TestJSONDocument(t *testing.T) {
	data, err := JSON(triangle, 40, 40)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	doc, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Width != 40 || doc.Height != 40 || doc.Points != 3 || len(doc.Positions) != 6 {
		t.Errorf("unexpected document %+v", doc)
	}

	bad := []string{
		`{not json`,
		`{"width":0,"height":10,"points":0,"positions":[]}`,
		`{"width":10,"height":10,"points":2,"positions":[1,2]}`,
		`{"width":10,"height":10,"points":1,"positions":[1,2,3]}`,
		`{"width":10,"height":10,"points":1,"positions":[11,2]}`,
		`{"width":10,"height":10,"points":1,"positions":[1,-0.5]}`,
		`{"width":3000000000,"height":3000000000,"points":0,"positions":[]}`,
		`{"width":67108865,"height":1,"points":0,"positions":[]}`,
	}
	for _, in := range bad {
		if _, err := ReadJSON([]byte(in)); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ReadJSON(%s) = %v, want INVALID_INPUT", in, err)
		}
	}
}

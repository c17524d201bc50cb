package spatial

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/stipple/pkg/errors"
)

func randomPositions(r *rand.Rand, n, w, h int) []float64 {
	pos := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		pos[2*i] = r.Float64() * float64(w)
		pos[2*i+1] = r.Float64() * float64(h)
	}
	return pos
}

func TestBuildersRejectEmpty(t *testing.T) {
	builders := map[string]Builder{"grid": NewGrid, "brute": NewBruteForce}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			if _, err := build(nil, 10, 10); !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("empty positions: got %v, want INTERNAL_ERROR", err)
			}
			if _, err := build([]float64{1, 2, 3}, 10, 10); !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("odd positions: got %v, want INTERNAL_ERROR", err)
			}
		})
	}
}

func TestRebuildRejectsResize(t *testing.T) {
	builders := map[string]Builder{"grid": NewGrid, "brute": NewBruteForce}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			idx, err := build([]float64{1, 1, 2, 2}, 4, 4)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if err := idx.Rebuild([]float64{1, 1}); !errors.Is(err, errors.ErrCodeInternal) {
				t.Errorf("Rebuild() = %v, want INTERNAL_ERROR", err)
			}
			if idx.Len() != 2 {
				t.Errorf("Len() = %d, want 2", idx.Len())
			}
		})
	}
}

func TestGridMatchesBruteForce(t *testing.T) {
	tests := []struct {
		name string
		n    int
		w, h int
	}{
		{"single site", 1, 20, 20},
		{"few sites", 5, 40, 30},
		{"dense", 400, 64, 64},
		{"wide frame", 50, 300, 10},
		{"tall frame", 50, 10, 300},
		{"more sites than pixels", 200, 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(uint64(tt.n), uint64(tt.w*tt.h)))
			pos := randomPositions(r, tt.n, tt.w, tt.h)

			grid, err := NewGrid(pos, tt.w, tt.h)
			if err != nil {
				t.Fatalf("NewGrid: %v", err)
			}
			brute, _ := NewBruteForce(pos, tt.w, tt.h)

			hint := -1
			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					px, py := float64(x)+0.5, float64(y)+0.5
					want := brute.Locate(px, py, -1)
					got := grid.Locate(px, py, hint)
					if got != want {
						t.Fatalf("Locate(%v, %v) = %d, want %d", px, py, got, want)
					}
					hint = got
				}
			}
		})
	}
}

func TestGridRebuild(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	const w, h, n = 50, 40, 60
	grid, err := NewGrid(randomPositions(r, n, w, h), w, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	for round := 0; round < 3; round++ {
		pos := randomPositions(r, n, w, h)
		if err := grid.Rebuild(pos); err != nil {
			t.Fatalf("Rebuild: %v", err)
		}
		brute, _ := NewBruteForce(pos, w, h)
		for i := 0; i < 200; i++ {
			x, y := r.Float64()*w, r.Float64()*h
			if got, want := grid.Locate(x, y, i%n), brute.Locate(x, y, -1); got != want {
				t.Fatalf("round %d: Locate(%v, %v) = %d, want %d", round, x, y, got, want)
			}
		}
	}
}

func TestGridRebuildDoesNotAllocate(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	const w, h, n = 64, 48, 200
	grid, err := NewGrid(randomPositions(r, n, w, h), w, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	pos := randomPositions(r, n, w, h)
	allocs := testing.AllocsPerRun(20, func() {
		if err := grid.Rebuild(pos); err != nil {
			t.Fatal(err)
		}
	})
	if allocs != 0 {
		t.Errorf("Rebuild allocated %v times per call, want 0", allocs)
	}
}

func TestTieBreakLowestIndex(t *testing.T) {
	// Sites 0 and 2 coincide; site 1 is equidistant from (2,2) to both.
	pos := []float64{1, 2, 3, 2, 1, 2}
	builders := map[string]Builder{"grid": NewGrid, "brute": NewBruteForce}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			idx, err := build(pos, 4, 4)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			for _, hint := range []int{-1, 0, 1, 2, 99} {
				if got := idx.Locate(2, 2, hint); got != 0 {
					t.Errorf("Locate(2, 2, %d) = %d, want 0", hint, got)
				}
			}
			if got := idx.Locate(1.2, 2, 2); got != 0 {
				t.Errorf("duplicate sites: Locate = %d, want 0", got)
			}
		})
	}
}

func BenchmarkGridLocate(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	const w, h, n = 900, 600, 4000
	grid, _ := NewGrid(randomPositions(r, n, w, h), w, h)
	b.ResetTimer()
	hint := -1
	for i := 0; i < b.N; i++ {
		x := float64(i%w) + 0.5
		y := float64((i/w)%h) + 0.5
		hint = grid.Locate(x, y, hint)
	}
}

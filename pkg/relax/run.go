package relax

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/observability"
)

// Snapshot is the seed set after a completed round.
//
// Positions is a private copy laid out as x0, y0, x1, y1, ... and may be
// kept or modified by the receiver.
type Snapshot struct {
	Positions   []float64 `json:"positions"`
	Round       int       `json:"round"`        // 1-indexed
	TotalRounds int       `json:"total_rounds"` // Params.Iterations

	// Width and Height are the field's dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Moved is the mean distance a seed travelled this round.
	Moved float64 `json:"moved"`
}

// Points returns the number of seeds in the snapshot.
func (s Snapshot) Points() int { return len(s.Positions) / 2 }

// Final reports whether s is the last round of its run.
func (s Snapshot) Final() bool { return s.Round == s.TotalRounds }

// Run seeds the field and performs Params.Iterations rounds, calling emit
// after each one. It returns the final positions.
//
// ctx is checked between rounds; once it is done Run returns ctx.Err()
// without emitting further snapshots. A round in flight is completed and
// discarded. A non-nil error from emit aborts the
// run and is returned as is. emit may be nil.
func (e *Engine) Run(ctx context.Context, emit func(Snapshot) error) ([]float64, error) {
	start := time.Now()
	hooks := observability.Relax()
	rounds := e.params.Iterations
	completed := 0

	positions, err := e.run(ctx, func(s Snapshot, moved float64, took time.Duration) error {
		completed = s.Round
		hooks.OnRound(ctx, s.Round, rounds, moved, took)
		e.logger.Debug("relax round",
			"round", s.Round,
			"of", rounds,
			"moved", fmt.Sprintf("%.3f", moved),
			"duration", took)
		if emit == nil {
			return nil
		}
		return emit(s)
	})

	hooks.OnRunComplete(ctx, completed, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("relax complete",
		"points", e.params.Points,
		"rounds", rounds,
		"duration", time.Since(start))
	return positions, nil
}

type roundFunc func(s Snapshot, moved float64, took time.Duration) error

func (e *Engine) run(ctx context.Context, onRound roundFunc) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.positions = e.seed()
	e.acc = newAccumulator(e.params.Points)
	var bands []accumulator
	if e.params.Workers > 1 {
		bands = make([]accumulator, e.params.Workers)
		for i := range bands {
			bands[i] = newAccumulator(e.params.Points)
		}
	}

	idx, err := e.build(e.positions, e.field.Width(), e.field.Height())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build spatial index")
	}
	observability.Relax().OnRunStart(ctx, e.params.Points, e.params.Iterations)

	for k := 0; k < e.params.Iterations; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		roundStart := time.Now()

		e.assign(idx, bands)
		moved := e.update(k)
		if err := idx.Rebuild(e.positions); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "rebuild spatial index after round %d", k+1)
		}

		// A round finishing after cancellation is discarded.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap := Snapshot{
			Positions:   e.snapshot(),
			Round:       k + 1,
			TotalRounds: e.params.Iterations,
			Width:       e.field.Width(),
			Height:      e.field.Height(),
			Moved:       moved,
		}
		if err := onRound(snap, moved, time.Since(roundStart)); err != nil {
			return nil, err
		}
	}
	return e.snapshot(), nil
}

func (e *Engine) snapshot() []float64 {
	out := make([]float64, len(e.positions))
	copy(out, e.positions)
	return out
}

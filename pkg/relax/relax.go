package relax

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/spatial"
)

const (
	// MaxSeedAttempts is the number of rejection-sampling draws per seed
	// before the last candidate is accepted unconditionally.
	MaxSeedAttempts = 30

	// DefaultGain is the over-relaxation factor applied to the centroid pull.
	DefaultGain = 1.8

	// Epsilon keeps clamped seeds strictly inside the frame.
	Epsilon = 1e-6

	wiggleScale    = 10.0
	wiggleExponent = -0.8
)

// Source supplies uniform random numbers in [0, 1).
//
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// Params configures a relaxation run.
type Params struct {
	Points     int     // Number of seeds (>= 1)
	Iterations int     // Number of rounds (>= 1)
	Gain       float64 // Over-relaxation factor (0 = DefaultGain)
	Workers    int     // Parallel assignment bands (<= 1 = sequential)
}

// Engine owns the seed positions of a run.
//
// An Engine may be run many times; every run starts from a fresh seeding.
// It is not safe for concurrent use.
type Engine struct {
	field  *density.Field
	params Params
	src    Source
	logger *log.Logger
	build  spatial.Builder

	positions []float64
	acc       accumulator
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source used for seeding and jitter.
func WithSource(src Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithSeed makes runs reproducible by drawing from a PCG generator seeded
// with seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.src = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger used for per-round debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIndex sets the spatial index implementation. Defaults to spatial.NewGrid.
func WithIndex(b spatial.Builder) Option {
	return func(e *Engine) {
		if b != nil {
			e.build = b
		}
	}
}

// New validates the run parameters and returns an idle engine.
//
// Invalid parameters yield an INVALID_INPUT error; nothing is seeded.
func New(field *density.Field, params Params, opts ...Option) (*Engine, error) {
	if field == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "density field is required")
	}
	if err := errors.ValidateCount("points", params.Points); err != nil {
		return nil, err
	}
	if err := errors.ValidateCount("iterations", params.Iterations); err != nil {
		return nil, err
	}
	if params.Gain < 0 || math.IsNaN(params.Gain) || math.IsInf(params.Gain, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "gain must be a finite non-negative number, got %v", params.Gain)
	}
	if params.Gain == 0 {
		params.Gain = DefaultGain
	}
	params.Workers = max(1, min(params.Workers, field.Height()))

	e := &Engine{
		field:  field,
		params: params,
		logger: log.Default(),
		build:  spatial.NewGrid,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e, nil
}

// Params returns the effective run parameters after defaults were applied.
func (e *Engine) Params() Params { return e.params }

// Field returns the density field the engine relaxes over.
func (e *Engine) Field() *density.Field { return e.field }

// Wiggle returns the jitter magnitude for zero-indexed round k.
func Wiggle(k int) float64 {
	return math.Pow(float64(k+1), wiggleExponent) * wiggleScale
}

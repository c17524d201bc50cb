package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/observability"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/render"
)

// Source is a loaded input image.
type Source struct {
	Field *density.Field

	// Hash is the content hash of the encoded image.
	Hash string

	// Format is the decoder that read the image (png, jpeg, ...).
	Format string

	// Bounds is the size of the image before scaling.
	Bounds image.Rectangle
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → relax → render pipeline with caching.
// onRound, if non-nil, receives every snapshot of a fresh relaxation; it is
// not called when positions come from the cache.
func (r *Runner) Execute(ctx context.Context, opts Options, onRound func(relax.Snapshot)) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: opts.RunID}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}
	logger := opts.Logger.With("run", shortID(result.RunID))

	// Stage 1: Load
	loadStart := time.Now()
	src, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.ImageHash = src.Hash
	result.Width, result.Height = src.Field.Width(), src.Field.Height()
	result.Stats.SourceWidth = src.Bounds.Dx()
	result.Stats.SourceHeight = src.Bounds.Dy()
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded image",
		"format", src.Format,
		"source", fmt.Sprintf("%dx%d", src.Bounds.Dx(), src.Bounds.Dy()),
		"working", fmt.Sprintf("%dx%d", result.Width, result.Height),
		"duration", result.Stats.LoadTime)

	// Stage 2: Relax
	relaxStart := time.Now()
	positions, relaxHit, err := r.RelaxWithCacheInfo(ctx, src, opts, onRound)
	if err != nil {
		return nil, fmt.Errorf("relax: %w", err)
	}
	result.Positions = positions
	result.Stats.Points = len(positions) / 2
	result.Stats.Rounds = opts.Iterations
	result.Stats.RelaxTime = time.Since(relaxStart)
	result.CacheInfo.RelaxHit = relaxHit

	logger.Info("relaxed points",
		"points", result.Stats.Points,
		"rounds", result.Stats.Rounds,
		"cached", relaxHit,
		"duration", result.Stats.RelaxTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, positions, result.Width, result.Height, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"mode", opts.Mode,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes the input image and converts it to a density field at the
// working size.
func (r *Runner) Load(ctx context.Context, opts Options) (*Source, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	name := opts.Input
	if name == "" {
		name = "upload"
	}
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)

	src, err := load(opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, name, src.Field.Width(), src.Field.Height(), time.Since(start), nil)
	return src, nil
}

func load(opts Options) (*Source, error) {
	data := opts.Image
	if opts.Input != "" {
		var err error
		data, err = os.ReadFile(opts.Input)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", opts.Input)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read image %s", opts.Input)
		}
	}

	img, format, err := density.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	model, err := density.ModelByName(opts.Model)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := density.WorkingSize(b.Dx(), b.Dy(), opts.MinWidth, opts.MaxWidth)
	if err := density.ValidateWorkingSize(w, h); err != nil {
		return nil, err
	}
	field := density.FromImage(density.Scale(img, w, h), model)

	return &Source{
		Field:  field,
		Hash:   cache.Hash(data),
		Format: format,
		Bounds: b,
	}, nil
}

// RelaxWithCacheInfo relaxes points over the source's field and reports
// whether they came from the cache. Only seeded runs are cached.
//
// onRound sees every round of a computed run. A cache hit has no
// intermediate rounds, so onRound receives a single final snapshot with
// Round == TotalRounds and Moved == 0.
func (r *Runner) RelaxWithCacheInfo(ctx context.Context, src *Source, opts Options, onRound func(relax.Snapshot)) ([]float64, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRelax(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRelaxStart(ctx, opts.Points, opts.Iterations)

	positions, hit, err := r.relax(ctx, src, opts, onRound)
	n := 0
	if err == nil {
		n = len(positions) / 2
	}
	hooks.OnRelaxComplete(ctx, n, hit, time.Since(start), err)
	return positions, hit, err
}

func (r *Runner) relax(ctx context.Context, src *Source, opts Options, onRound func(relax.Snapshot)) ([]float64, bool, error) {
	var cacheKey string
	if opts.Cacheable() {
		cacheKey = r.Keyer.RunKey(src.Hash, opts.RunKeyOpts())
		if !opts.Refresh {
			if positions, ok := r.cachedRun(ctx, cacheKey, src.Field); ok {
				if onRound != nil {
					onRound(relax.Snapshot{
						Positions:   slices.Clone(positions),
						Round:       opts.Iterations,
						TotalRounds: opts.Iterations,
						Width:       src.Field.Width(),
						Height:      src.Field.Height(),
					})
				}
				return positions, true, nil
			}
		}
	}

	engineOpts := []relax.Option{relax.WithLogger(opts.Logger)}
	if opts.Seed != 0 {
		engineOpts = append(engineOpts, relax.WithSeed(opts.Seed))
	}
	engine, err := relax.New(src.Field, opts.RelaxParams(), engineOpts...)
	if err != nil {
		return nil, false, err
	}

	job := relax.Start(ctx, engine)
	for snap := range job.C {
		if onRound != nil {
			onRound(snap)
		}
	}
	positions, err := job.Result()
	if err != nil {
		return nil, false, err
	}

	if cacheKey != "" {
		if data, err := render.JSON(positions, src.Field.Width(), src.Field.Height()); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRun); err != nil {
				opts.Logger.Warn("cache write failed", "key", "run", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "run", len(data))
			}
		}
	}
	return positions, false, nil
}

// cachedRun returns positions stored under key if they match the field.
func (r *Runner) cachedRun(ctx context.Context, key string, field *density.Field) ([]float64, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", "run", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "run")
		return nil, false
	}
	doc, err := render.ReadJSON(data)
	if err != nil || doc.Width != field.Width() || doc.Height != field.Height() {
		// Stale or corrupt entry - recompute
		observability.Cache().OnCacheMiss(ctx, "run")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "run")
	return doc.Positions, true
}

// Relax is a convenience wrapper that calls RelaxWithCacheInfo and discards the cache hit info.
func (r *Runner) Relax(ctx context.Context, src *Source, opts Options, onRound func(relax.Snapshot)) ([]float64, error) {
	positions, _, err := r.RelaxWithCacheInfo(ctx, src, opts, onRound)
	return positions, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, positions []float64, width, height int, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)

	positionsHash := cache.HashPositions(positions)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(positionsHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			break
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := Render(positions, width, height, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(positionsHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// RenderPositions is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) RenderPositions(ctx context.Context, positions []float64, width, height int, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, positions, width, height, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

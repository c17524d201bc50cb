// Package pipeline provides the stippling pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode an image, scale it to the working width and convert it
//     to a density field
//  2. Relax: place and relax stipple points over the field
//  3. Render: draw the points as PNG or SVG, or export them as JSON
//
// Each stage can be run independently or as part of the complete pipeline.
// Runs with an explicit seed are deterministic and their results are cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "portrait.jpg",
//	    Points:  6000,
//	    Formats: []string{"png", "svg"},
//	}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"math"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stipple/pkg/cache"
	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPoints is the number of stipple points.
	DefaultPoints = 4000

	// DefaultIterations is the number of relaxation rounds.
	DefaultIterations = 80

	// DefaultModel converts pixels to density by inverting the red channel.
	DefaultModel = density.DefaultModel

	// DefaultMinWidth and DefaultMaxWidth bound the working width.
	DefaultMinWidth = density.DefaultMinWidth
	DefaultMaxWidth = density.DefaultMaxWidth

	// MaxWorkingWidth bounds MinWidth and MaxWidth accepted from callers.
	MaxWorkingWidth = density.MaxWorkingWidth

	// DefaultMode is the default drawing mode.
	DefaultMode = render.DefaultMode

	// DefaultRadius is the dot radius in working pixels.
	DefaultRadius = render.DefaultRadius

	// DefaultLineWidth is the stroke width for edge modes.
	DefaultLineWidth = render.DefaultLineWidth

	// DefaultScale is the output size multiplier.
	DefaultScale = render.DefaultScale

	// MaxPoints bounds the point count accepted from callers.
	MaxPoints = 200_000

	// MaxIterations bounds the round count accepted from callers.
	MaxIterations = 10_000
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the stippling pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input    string `json:"-"` // Image path (CLI)
	Image    []byte `json:"-"` // Image bytes (API)
	Model    string `json:"model,omitempty"`
	MinWidth int    `json:"min_width,omitempty"`
	MaxWidth int    `json:"max_width,omitempty"`

	// Relax options
	Points     int     `json:"points,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Workers    int     `json:"workers,omitempty"`
	Gain       float64 `json:"gain,omitempty"`
	Seed       uint64  `json:"seed,omitempty"` // 0 = random, uncached
	Refresh    bool    `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Radius    float64  `json:"radius,omitempty"`
	LineWidth float64  `json:"line_width,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	RunID  string      `json:"-"` // Generated when empty

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// ImageHash is the content hash of the source image.
	ImageHash string

	// Width and Height are the working frame size.
	Width, Height int

	// Positions holds the final points as x0, y0, x1, y1, ...
	Positions []float64

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SourceWidth  int
	SourceHeight int
	Points       int
	Rounds       int
	LoadTime     time.Duration
	RelaxTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RelaxHit  bool // Whether positions came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a drawing mode is valid.
func ValidateMode(mode string) error {
	return render.ValidateMode(mode)
}

// ValidateModel checks that a density model name is valid.
func ValidateModel(model string) error {
	_, err := density.ModelByName(model)
	return err
}

// ParseFormats splits a comma-separated format list, trimming blanks.
func ParseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

func formatList() string {
	formats := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRelax(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the image source and density options.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && len(o.Image) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "an input image is required")
	}
	if o.Input != "" && len(o.Image) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input path and image bytes are mutually exclusive")
	}
	if o.Input != "" {
		if err := errors.ValidatePath(o.Input); err != nil {
			return err
		}
	}
	o.SetLoadDefaults()
	if err := ValidateModel(o.Model); err != nil {
		return err
	}
	if o.MinWidth < 1 || o.MaxWidth < o.MinWidth {
		return errors.New(errors.ErrCodeInvalidInput, "working width bounds must satisfy 1 <= min <= max, got %d..%d", o.MinWidth, o.MaxWidth)
	}
	if o.MaxWidth > MaxWorkingWidth {
		return errors.New(errors.ErrCodeInvalidInput, "max width must be <= %d, got %d", MaxWorkingWidth, o.MaxWidth)
	}
	return nil
}

// SetLoadDefaults sets default values for loading.
func (o *Options) SetLoadDefaults() {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.MinWidth == 0 {
		o.MinWidth = DefaultMinWidth
	}
	if o.MaxWidth == 0 {
		o.MaxWidth = max(DefaultMaxWidth, o.MinWidth)
	}
	o.setLogger()
}

// ValidateForRelax validates and sets defaults for relaxation.
func (o *Options) ValidateForRelax() error {
	o.SetRelaxDefaults()
	if o.Points < 1 || o.Points > MaxPoints {
		return errors.New(errors.ErrCodeInvalidInput, "points must be in [1, %d], got %d", MaxPoints, o.Points)
	}
	if o.Iterations < 1 || o.Iterations > MaxIterations {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must be in [1, %d], got %d", MaxIterations, o.Iterations)
	}
	if o.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must be >= 1, got %d", o.Workers)
	}
	if o.Gain < 0 || math.IsNaN(o.Gain) || math.IsInf(o.Gain, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "gain must be a finite non-negative number, got %v", o.Gain)
	}
	return nil
}

// SetRelaxDefaults sets default values for relaxation.
func (o *Options) SetRelaxDefaults() {
	if o.Points == 0 {
		o.Points = DefaultPoints
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Gain == 0 {
		o.Gain = relax.DefaultGain
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if !(o.Radius > 0) || math.IsInf(o.Radius, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %v", o.Radius)
	}
	if !(o.LineWidth > 0) || math.IsInf(o.LineWidth, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "line width must be positive, got %v", o.LineWidth)
	}
	if !(o.Scale > 0) || o.Scale > render.MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", render.MaxScale, o.Scale)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.LineWidth == 0 {
		o.LineWidth = DefaultLineWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Cacheable reports whether the relaxation result is deterministic and may
// be cached.
func (o *Options) Cacheable() bool {
	return o.Seed != 0
}

// RelaxParams returns the engine parameters.
func (o *Options) RelaxParams() relax.Params {
	return relax.Params{
		Points:     o.Points,
		Iterations: o.Iterations,
		Gain:       o.Gain,
		Workers:    o.Workers,
	}
}

// RenderOptions returns the render options for the configured mode.
func (o *Options) RenderOptions() []render.Option {
	return []render.Option{
		render.WithMode(o.Mode),
		render.WithRadius(o.Radius),
		render.WithLineWidth(o.LineWidth),
		render.WithScale(o.Scale),
	}
}

// RunKeyOpts returns cache key options for relaxation.
func (o *Options) RunKeyOpts() cache.RunKeyOpts {
	return cache.RunKeyOpts{
		Points:     o.Points,
		Iterations: o.Iterations,
		Workers:    o.Workers,
		Gain:       o.Gain,
		Seed:       o.Seed,
		Model:      o.Model,
		MinWidth:   o.MinWidth,
		MaxWidth:   o.MaxWidth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format != FormatJSON {
		opts.Mode = o.Mode
		opts.Radius = o.Radius
		opts.LineWidth = o.LineWidth
		opts.Scale = o.Scale
	}
	return opts
}

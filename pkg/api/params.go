package api

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
)

// streamParams controls what /v1/stipple writes per round.
type streamParams struct {
	every     int  // emit every k-th round; the last round is always sent
	positions bool // include positions in round events
}

// queryParser collects the first parse error.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) intParam(name string, dst *int) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
		return
	}
	*dst = n
}

func (p *queryParser) uintParam(name string, dst *uint64) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
		return
	}
	*dst = n
}

func (p *queryParser) floatParam(name string, dst *float64) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
		return
	}
	*dst = f
}

func (p *queryParser) boolParam(name string, dst *bool) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
		return
	}
	*dst = b
}

// renderOptions reads the drawing parameters shared by both endpoints.
func (p *queryParser) renderOptions(opts *pipeline.Options) {
	opts.Mode = p.q.Get("mode")
	p.floatParam("radius", &opts.Radius)
	p.floatParam("line_width", &opts.LineWidth)
	p.floatParam("scale", &opts.Scale)
}

// parseStippleQuery builds pipeline options from a /v1/stipple query.
func parseStippleQuery(q url.Values) (pipeline.Options, streamParams, error) {
	p := queryParser{q: q}
	opts := pipeline.Options{Model: q.Get("model")}
	stream := streamParams{every: 1, positions: true}

	p.intParam("points", &opts.Points)
	p.intParam("iterations", &opts.Iterations)
	p.intParam("workers", &opts.Workers)
	p.floatParam("gain", &opts.Gain)
	p.uintParam("seed", &opts.Seed)
	p.boolParam("refresh", &opts.Refresh)
	p.intParam("min_width", &opts.MinWidth)
	p.intParam("max_width", &opts.MaxWidth)
	p.intParam("every", &stream.every)
	p.boolParam("positions", &stream.positions)
	p.renderOptions(&opts)
	if f := q.Get("formats"); f != "" {
		opts.Formats = pipeline.ParseFormats(f)
	}
	if p.err != nil {
		return opts, stream, p.err
	}
	if stream.every < 1 {
		return opts, stream, errors.New(errors.ErrCodeInvalidInput, "every must be >= 1, got %d", stream.every)
	}
	return opts, stream, nil
}

// parseRenderQuery builds pipeline options from a /v1/render query.
func parseRenderQuery(q url.Values) (pipeline.Options, error) {
	p := queryParser{q: q}
	var opts pipeline.Options
	p.renderOptions(&opts)
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}
	opts.Formats = []string{format}
	return opts, p.err
}

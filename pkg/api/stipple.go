package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/render"
)

// Event types on the /v1/stipple stream.
const (
	EventStart  = "start"
	EventRound  = "round"
	EventResult = "result"
	EventError  = "error"
)

// Event is one line of the /v1/stipple stream.
type Event struct {
	Type        string            `json:"type"`
	RunID       string            `json:"run_id"`
	Round       int               `json:"round,omitempty"`
	TotalRounds int               `json:"total_rounds,omitempty"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Points      int               `json:"points,omitempty"`
	Positions   []float64         `json:"positions,omitempty"`
	Cached      bool              `json:"cached,omitempty"`
	Artifacts   map[string][]byte `json:"artifacts,omitempty"`
	Error       *ErrorBody        `json:"error,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleStipple(w http.ResponseWriter, r *http.Request) {
	opts, stream, err := parseStippleQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	wantArtifacts := len(opts.Formats) > 0
	opts.Image = body
	opts.Logger = s.logger
	opts.RunID = uuid.NewString()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	src, err := s.runner.Load(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	width, height := src.Field.Width(), src.Field.Height()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Run-ID", opts.RunID)
	w.WriteHeader(http.StatusOK)
	out := newEventWriter(w)
	out.send(Event{
		Type:        EventStart,
		RunID:       opts.RunID,
		Width:       width,
		Height:      height,
		Points:      opts.Points,
		TotalRounds: opts.Iterations,
	})

	positions, hit, err := s.runner.RelaxWithCacheInfo(ctx, src, opts, func(snap relax.Snapshot) {
		if snap.Round%stream.every != 0 && !snap.Final() {
			return
		}
		ev := Event{Type: EventRound, RunID: opts.RunID, Round: snap.Round, TotalRounds: snap.TotalRounds}
		if stream.positions {
			ev.Positions = snap.Positions
		}
		out.send(ev)
	})
	if err != nil {
		s.logger.Warn("stipple run failed", "run", opts.RunID, "error", err)
		out.fail(opts.RunID, err)
		return
	}

	result := Event{
		Type:      EventResult,
		RunID:     opts.RunID,
		Width:     width,
		Height:    height,
		Points:    len(positions) / 2,
		Positions: positions,
		Cached:    hit,
	}
	if wantArtifacts {
		artifacts, err := s.runner.RenderPositions(ctx, positions, width, height, opts)
		if err != nil {
			out.fail(opts.RunID, err)
			return
		}
		result.Artifacts = artifacts
	}
	out.send(result)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRenderQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := render.ReadJSON(body)
	if err != nil {
		writeError(w, err)
		return
	}

	opts.Logger = s.logger
	artifacts, err := s.runner.RenderPositions(r.Context(), doc.Positions, doc.Width, doc.Height, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// eventWriter writes NDJSON events, flushing after each one. After the
// first write error further events are dropped.
type eventWriter struct {
	enc *json.Encoder
	rc  *http.ResponseController
	err error
}

func newEventWriter(w http.ResponseWriter) *eventWriter {
	return &eventWriter{enc: json.NewEncoder(w), rc: http.NewResponseController(w)}
}

func (e *eventWriter) send(ev Event) {
	if e.err != nil {
		return
	}
	if e.err = e.enc.Encode(ev); e.err != nil {
		return
	}
	if err := e.rc.Flush(); err != nil && !stderrors.Is(err, http.ErrNotSupported) {
		e.err = err
	}
}

func (e *eventWriter) fail(runID string, err error) {
	body := newErrorBody(err)
	e.send(Event{Type: EventError, RunID: runID, Error: &body})
}

// Package httpapi exposes the correction pipeline over HTTP.
//
// Routes:
//
//   - POST /v1/correct     — run the full pipeline over a text.
//   - GET  /v1/correct/ws  — same, over a websocket with progress events.
//   - POST /v1/segments    — reconcile a correction list into render segments.
//   - POST /v1/suggest     — spelling suggestions for a single word.
//   - GET  /healthz, /readyz, /metrics — operational endpoints.
//
// All request and response bodies are JSON, UTF-8. Hindi text passes through
// untouched; the API never normalises or transliterates.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shuddhi-ai/shuddhi/internal/health"
	"github.com/shuddhi-ai/shuddhi/internal/observe"
	"github.com/shuddhi-ai/shuddhi/pkg/correction"
	"github.com/shuddhi-ai/shuddhi/pkg/dictionary"
	"github.com/shuddhi-ai/shuddhi/pkg/grammar"
	"github.com/shuddhi-ai/shuddhi/pkg/highlight"
	"github.com/shuddhi-ai/shuddhi/pkg/pipeline"
	"github.com/shuddhi-ai/shuddhi/pkg/suggest"
)

// maxBodyBytes caps request bodies. Correction inputs are interactive-sized
// texts, not documents.
const maxBodyBytes = 1 << 20

// Config holds the dependencies of a [Server].
type Config struct {
	// Dict supplies the substitution table for dictionary passes.
	Dict *dictionary.Provider

	// Provider performs the LLM passes.
	Provider grammar.Provider

	// Passes is the pass list for full runs. Empty means the three-step
	// default.
	Passes []pipeline.Pass

	// Suggester serves /v1/suggest. Nil disables the endpoint (503).
	Suggester *suggest.Service

	// Metrics records request and pipeline instrumentation. Nil means
	// [observe.DefaultMetrics].
	Metrics *observe.Metrics

	// Health serves /healthz and /readyz. Nil means a handler with no
	// checkers.
	Health *health.Handler
}

// Server is the HTTP front-end of the correction service. Safe for concurrent
// use; each request gets its own pipeline run and tracker.
type Server struct {
	dict      *dictionary.Provider
	provider  grammar.Provider
	passes    []pipeline.Pass
	suggester *suggest.Service
	metrics   *observe.Metrics
	health    *health.Handler
}

// NewServer constructs a Server from cfg.
func NewServer(cfg Config) *Server {
	m := cfg.Metrics
	if m == nil {
		m = observe.DefaultMetrics()
	}
	h := cfg.Health
	if h == nil {
		h = health.New()
	}
	return &Server{
		dict:      cfg.Dict,
		provider:  cfg.Provider,
		passes:    cfg.Passes,
		suggester: cfg.Suggester,
		metrics:   m,
		health:    h,
	}
}

// Register adds all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/correct", s.handleCorrect)
	mux.HandleFunc("GET /v1/correct/ws", s.handleCorrectWS)
	mux.HandleFunc("POST /v1/segments", s.handleSegments)
	mux.HandleFunc("POST /v1/suggest", s.handleSuggest)
	mux.Handle("GET /metrics", promhttp.Handler())
	s.health.Register(mux)
}

// Handler returns the full handler chain: routes wrapped in the
// observability middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return observe.Middleware(s.metrics)(mux)
}

// newPipeline builds a per-request pipeline. The progress callback is
// per-run state, so pipelines are never shared across requests. Pass
// durations are recorded against ctx.
func (s *Server) newPipeline(ctx context.Context, progress pipeline.ProgressFunc) *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithPassTiming(func(kind pipeline.PassKind, _ string, elapsed time.Duration) {
			s.metrics.RecordPassDuration(ctx, string(kind), elapsed.Seconds())
		}),
	}
	if len(s.passes) > 0 {
		opts = append(opts, pipeline.WithPasses(s.passes))
	}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}
	return pipeline.New(s.dict, s.provider, opts...)
}

// ─── /v1/correct ─────────────────────────────────────────────────────────────

type correctRequest struct {
	Text string `json:"text"`
}

type correctResponse struct {
	OriginalText  string                  `json:"originalText"`
	CorrectedText string                  `json:"correctedText"`
	Corrections   []correction.Correction `json:"corrections"`
	WordMappings  []pipeline.WordMapping  `json:"wordMappings"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := s.runCorrection(r.Context(), req.Text, nil)
	if err != nil {
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// runCorrection executes a full pipeline run with instrumentation. Shared by
// the plain and websocket endpoints; progress may be nil.
func (s *Server) runCorrection(ctx context.Context, text string, progress pipeline.ProgressFunc) (*correctResponse, error) {
	s.metrics.ActiveRuns.Add(ctx, 1)
	defer s.metrics.ActiveRuns.Add(ctx, -1)

	start := time.Now()
	tr := pipeline.NewTracker()
	res, err := s.newPipeline(ctx, progress).RunTracked(ctx, text, tr)
	s.metrics.PipelineDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	for _, c := range res.Corrections {
		s.metrics.RecordCorrections(ctx, string(c.Source), string(c.Type), 1)
	}

	return &correctResponse{
		OriginalText:  tr.OriginalText(),
		CorrectedText: res.CorrectedText,
		Corrections:   res.Corrections,
		WordMappings:  tr.WordMappings(),
	}, nil
}

// ─── /v1/segments ────────────────────────────────────────────────────────────

type segmentsRequest struct {
	Text        string                  `json:"text"`
	Corrections []correction.Correction `json:"corrections"`
	Side        highlight.Side          `json:"side"`

	// Selected is the correction index to mark highlighted, or null for no
	// selection.
	Selected *int `json:"selected"`
}

type segmentsResponse struct {
	Segments []highlight.Segment `json:"segments"`
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	var req segmentsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Side != highlight.SideOriginal && req.Side != highlight.SideCorrected {
		writeError(w, http.StatusBadRequest, `side must be "original" or "corrected"`)
		return
	}

	h := highlight.New()
	if req.Selected != nil {
		h.ToggleCorrection(*req.Selected)
	}
	writeJSON(w, http.StatusOK, segmentsResponse{
		Segments: h.BuildSegments(req.Text, req.Corrections, req.Side),
	})
}

// ─── /v1/suggest ─────────────────────────────────────────────────────────────

type suggestRequest struct {
	Word string `json:"word"`
	Max  int    `json:"max"`
}

type suggestResponse struct {
	Word        string   `json:"word"`
	Known       bool     `json:"known"`
	Suggestions []string `json:"suggestions"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, "suggestions are not enabled")
		return
	}
	var req suggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Word:        req.Word,
		Known:       s.suggester.Known(req.Word),
		Suggestions: s.suggester.Suggest(req.Word, req.Max),
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type errorResponse struct {
	Error string `json:"error"`
}

// decodeJSON parses the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeRunError maps pipeline failures to HTTP statuses: empty input is the
// client's fault, a pass failure is an upstream problem.
func writeRunError(w http.ResponseWriter, err error) {
	var passErr *pipeline.PassError
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "text is empty")
	case errors.As(err, &passErr):
		slog.Error("correction run failed", "step", passErr.Step, "stage", passErr.Stage, "err", passErr.Err)
		writeError(w, http.StatusBadGateway, passErr.Error())
	default:
		slog.Error("correction run failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

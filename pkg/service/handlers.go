package service

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/errors"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/pipeline"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/store"
)

// =============================================================================
// Request / Response Shapes
// =============================================================================

type runRequest struct {
	Source  string `json:"source"`
	Dialect string `json:"dialect,omitempty"`
	Trace   bool   `json:"trace,omitempty"`
	Format  string `json:"format,omitempty"`
}

type parseResponse struct {
	RequestID string         `json:"request_id"`
	Detected  ir.DiagramType `json:"detected"`
	IR        *ir.Diagram    `json:"ir"`
	Warnings  []string       `json:"warnings"`
}

type createDiagramRequest struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Dialect string `json:"dialect,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Pipeline Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRun(w, r)
	if !ok {
		return
	}

	parsed, err := s.Runner.Parse(r.Context(), req.Source, pipeline.Options{Dialect: req.Dialect})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		RequestID: RequestID(r.Context()),
		Detected:  parsed.IR.Type,
		IR:        parsed.IR,
		Warnings:  parsed.Warnings,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRun(w, r)
	if !ok {
		return
	}

	result, err := s.Runner.Execute(r.Context(), req.Source, pipeline.Options{
		Dialect: req.Dialect,
		Trace:   req.Trace,
		Formats: []string{pipeline.FormatJSON},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// artifactContentTypes maps output formats to their MIME types.
var artifactContentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRun(w, r)
	if !ok {
		return
	}
	format := req.Format
	if format == "" {
		format = pipeline.FormatDOT
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "unsupported format"))
		return
	}

	result, err := s.Runner.Execute(r.Context(), req.Source, pipeline.Options{
		Dialect: req.Dialect,
		Formats: []string{format},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifactContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Diagram Store Handlers
// =============================================================================

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req createDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := apperrors.ValidateDiagramName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.Runner.Execute(r.Context(), req.Source, pipeline.Options{
		Dialect: req.Dialect,
		Formats: []string{pipeline.FormatJSON},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := store.New(req.Name, req.Source, result.Parse.IR)
	doc.Layout = result.Layout
	if err := s.Store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "store diagram"))
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid limit: %q", raw))
			return
		}
		limit = parsed
	}

	docs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "list diagrams"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": docs})
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.Store.Get(r.Context(), id)
	if err == store.ErrNotFound {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeDiagramNotFound, "diagram %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "load diagram"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStore, err, "delete diagram"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) decodeRun(w http.ResponseWriter, r *http.Request) (runRequest, bool) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP status codes and logs
// server-side failures.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidDialect,
		apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeInvalidConfig,
		apperrors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound,
		apperrors.ErrCodeDiagramNotFound:
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"err", err)
	}
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    string(code),
		Message: apperrors.UserMessage(err),
	}})
}

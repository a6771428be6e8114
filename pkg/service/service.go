// Package service exposes the diagram pipeline over an HTTP JSON API.
//
// The API is versioned under /api/v1 and serves three concerns:
//   - one-shot pipeline runs (/parse, /layout, /render)
//   - stored diagram documents (/diagrams CRUD)
//   - liveness (/healthz)
//
// All request and response bodies are JSON except /render, which returns the
// artifact bytes with the matching content type. Errors are returned as
// {"error": {"code", "message"}} envelopes using the pkg/errors codes.
package service

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/pipeline"
	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/store"
)

// Server wires the pipeline runner and the document store into HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// NewServer creates a server. A nil store falls back to in-memory storage;
// a nil runner gets a cache-less default.
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Store: st, Logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(hooksMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleCreateDiagram)
			r.Get("/", s.handleListDiagrams)
			r.Get("/{id}", s.handleGetDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
		})
	})

	return r
}

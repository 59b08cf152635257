// Package http exposes stored saves and the expansion pipeline over HTTP.
//
// Saves travel as YAML documents; listings and errors are JSON.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/savestate/internal/logging"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/savegame"
	"github.com/aretw0/savestate/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// APIVersion is reported by GET /info.
	APIVersion = "0.1.0"

	yamlContentType = "application/yaml"
	maxBodyBytes    = 16 << 20
)

// Engine is the part of the savestate engine the server drives.
type Engine interface {
	Prepare(sg *savegame.SavedGame) error
	StartNextScenario(sg *savegame.SavedGame) error
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Server serves the save API.
type Server struct {
	Engine   Engine
	Sessions *session.Manager

	version  string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the gatherer's metrics at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the application version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates the HTTP handler for the engine and the save sessions.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/saves", func(r chi.Router) {
		r.Get("/", s.ListSaves)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSave)
			r.Put("/", s.PutSave)
			r.Delete("/", s.DeleteSave)
			r.Post("/expand", s.ExpandSave)
			r.Post("/start-save", s.StartSave)
		})
	})
	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "savestate-http",
		"version":     s.version,
		"api_version": APIVersion,
	})
}

// ListSaves handles GET /saves.
func (s *Server) ListSaves(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"saves": ids})
}

// GetSave handles GET /saves/{id}.
func (s *Server) GetSave(w http.ResponseWriter, r *http.Request) {
	sg, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSave(w, http.StatusOK, sg)
}

// PutSave handles PUT /saves/{id}. The body is a YAML save.
func (s *Server) PutSave(w http.ResponseWriter, r *http.Request) {
	doc, err := document.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	sg, err := savegame.FromDocument(doc)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return
	}
	if err := s.Sessions.Save(r.Context(), chi.URLParam(r, "id"), sg); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSave handles DELETE /saves/{id}.
func (s *Server) DeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExpandSave handles POST /saves/{id}/expand: it prepares the save and stores the result.
func (s *Server) ExpandSave(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, s.Engine.Prepare)
}

// StartSave handles POST /saves/{id}/start-save: it turns a snapshot into a start save
// for the next scenario.
func (s *Server) StartSave(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, s.Engine.StartNextScenario)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(*savegame.SavedGame) error) {
	sg, err := s.Sessions.Update(r.Context(), chi.URLParam(r, "id"), fn)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSave(w, http.StatusOK, sg)
}

// SubscribeEvents handles GET /events (SSE). A "catalog" event is sent whenever the game
// content changes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := s.Engine.Watch(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: catalog\ndata: reloaded\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) writeSave(w http.ResponseWriter, status int, sg *savegame.SavedGame) {
	data, err := document.Marshal(sg.ToDocument())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", yamlContentType)
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorBody(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSaveID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotSnapshot):
		return http.StatusConflict
	case errors.Is(err, domain.ErrScenarioNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

// Package server implements the HTTP engraving service. It exposes the
// same pipeline the CLI uses: POST a score document, get back the
// computed layout and rendered artifacts. Results are persisted in a
// document store so layouts can be fetched again by id.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/engrave/pkg/layout"
	"github.com/matzehuels/engrave/pkg/pipeline"
	"github.com/matzehuels/engrave/pkg/store"
)

// maxScoreBytes caps request bodies; score documents are small.
const maxScoreBytes = 1 << 20

// Config holds the server's collaborators. Runner and Store are
// required; Logger defaults to the standard charm logger.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
}

// Server routes HTTP requests onto the engraving pipeline.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New builds the server and mounts its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Get("/layouts", s.handleListLayouts)
		r.Get("/layouts/{id}", s.handleGetLayout)
		r.Delete("/layouts/{id}", s.handleDeleteLayout)
	})
	s.router = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

// renderRequest is the POST /api/render body. Score rides as base64 per
// encoding/json's []byte convention.
type renderRequest struct {
	Score      []byte   `json:"score"`
	Width      float64  `json:"width,omitempty"`
	Height     float64  `json:"height,omitempty"`
	AlignRests bool     `json:"align_rests,omitempty"`
	AutoBeam   bool     `json:"auto_beam,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`
}

// renderResponse mirrors pipeline.Result for the wire, plus the stored
// document id.
type renderResponse struct {
	ID        string             `json:"id"`
	DocHash   string             `json:"doc_hash"`
	Title     string             `json:"title,omitempty"`
	Layout    layout.Layout      `json:"layout"`
	Artifacts map[string][]byte  `json:"artifacts"`
	Stats     renderStats        `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

type renderStats struct {
	StaveCount int    `json:"stave_count"`
	NoteCount  int    `json:"note_count"`
	ParseMs    int64  `json:"parse_ms"`
	LayoutMs   int64  `json:"layout_ms"`
	RenderMs   int64  `json:"render_ms"`
	RequestID  string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	body := http.MaxBytesReader(w, r.Body, maxScoreBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	opts := pipeline.Options{
		Score:      req.Score,
		Width:      req.Width,
		Height:     req.Height,
		AlignRests: req.AlignRests,
		AutoBeam:   req.AutoBeam,
		Formats:    req.Formats,
		Scale:      req.Scale,
		Background: req.Background,
		Refresh:    req.Refresh,
		Logger:     s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	doc := store.NewDocument(result.DocHash, result.Layout)
	if err := s.store.Put(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("persist layout: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		ID:        doc.ID,
		DocHash:   result.DocHash,
		Title:     doc.Title,
		Layout:    result.Layout,
		Artifacts: result.Artifacts,
		Stats: renderStats{
			StaveCount: result.Stats.StaveCount,
			NoteCount:  result.Stats.NoteCount,
			ParseMs:    result.Stats.ParseTime.Milliseconds(),
			LayoutMs:   result.Stats.LayoutTime.Milliseconds(),
			RenderMs:   result.Stats.RenderTime.Milliseconds(),
			RequestID:  middleware.GetReqID(r.Context()),
		},
		Cache: result.CacheInfo,
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context(), store.DefaultListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("layout %s not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the recommendation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

// maxBodyBytes bounds a /recommend request body.
const maxBodyBytes = 1 << 20

// Recommender is the pipeline capability the transport needs.
type Recommender interface {
	Recommend(ctx context.Context, prefs types.Preferences) types.Response
}

// Server serves the recommendation API.
type Server struct {
	cfg    types.ServerConfig
	rec    Recommender
	router chi.Router
}

// New builds the router for rec.
func New(cfg types.ServerConfig, rec Recommender) *Server {
	s := &Server{cfg: cfg, rec: rec}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog)
	r.Use(corsHandler(cfg.CORSOrigins))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.With(rateLimit(cfg.RateLimit)).Post("/recommend", s.handleRecommend)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8000"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logging.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "healthy",
		"message":   "Movie Recommendation API",
		"endpoints": []string{"POST /recommend", "GET /health", "GET /metrics"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "movie-recommendation-api",
	})
}

// handleRecommend decodes and validates a preference set, runs the pipeline
// and returns its response. Pipeline failures are reported in the body with
// status 200; only malformed requests get a 4xx.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, "Request body too large.")
		return
	}

	var prefs types.Preferences
	if len(body) > 0 {
		if err := json.Unmarshal(body, &prefs); err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
	}
	if err := Validator().Struct(prefs); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	writeJSON(w, r, http.StatusOK, s.rec.Recommend(ctx, prefs))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, types.ErrorResponse(types.OutcomeInternal, msg))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("encoding response")
		http.Error(w, `{"error":"internal error","recommended_movies":[]}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("writing response")
	}
}

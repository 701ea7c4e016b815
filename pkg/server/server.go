// Package server exposes schedule creation and token lookup over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/schedule"
)

const maxBodyBytes = 1 << 20

// Server routes HTTP requests to a schedule.Service.
type Server struct {
	svc      *schedule.Service
	baseURL  string
	logger   zerolog.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New builds the router. baseURL prefixes share links; an empty baseURL
// leaves share_url out of responses. gatherer backs /metrics and may be nil.
func New(svc *schedule.Service, baseURL string, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	s := &Server{
		svc:      svc,
		baseURL:  baseURL,
		logger:   logger,
		gatherer: gatherer,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/api/schedules", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{token}", s.handleReconstruct)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// CreateRequest is the body of POST /api/schedules.
type CreateRequest struct {
	Participants []string          `json:"participants"`
	Options      model.GameOptions `json:"options"`
	Surprise     bool              `json:"surprise"`
}

// ScheduleResponse is returned by both schedule endpoints.
type ScheduleResponse struct {
	*model.Schedule
	ShareURL string `json:"share_url,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}

	participants := make([]model.Participant, len(req.Participants))
	for i, name := range req.Participants {
		participants[i] = model.Participant{Name: name}
	}

	sched, err := s.svc.CreateSchedule(participants, req.Options, req.Surprise)
	switch {
	case errors.Is(err, model.ErrInvalidConfiguration):
		writeError(w, http.StatusBadRequest, "invalid_configuration")
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("create schedule")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusCreated, s.response(sched))
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	sched, err := s.svc.ReconstructSchedule(chi.URLParam(r, "token"))
	switch {
	case errors.Is(err, model.ErrMalformedToken):
		writeError(w, http.StatusNotFound, "malformed_token")
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("reconstruct schedule")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusOK, s.response(sched))
}

func (s *Server) response(sched *model.Schedule) ScheduleResponse {
	resp := ScheduleResponse{Schedule: sched}
	if s.baseURL != "" {
		resp.ShareURL = ShareURL(s.baseURL, sched.Token)
	}
	return resp
}

// ShareURL carries the token in the URL fragment.
func ShareURL(baseURL, token string) string {
	return baseURL + "#" + token
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

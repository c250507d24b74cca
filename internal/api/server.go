// Package api serves stored runs over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"creutz/internal/sims/creutz"
	"creutz/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RunReader is the read side of the run store.
type RunReader interface {
	ListRuns(ctx context.Context) ([]store.Run, error)
	GetRun(ctx context.Context, id string) (store.Run, error)
	Points(ctx context.Context, runID string) ([]store.PointRecord, error)
	Histogram(ctx context.Context, runID string, initialEnergy int) ([]creutz.Bin, error)
}

// Server handles HTTP requests.
type Server struct {
	runs      RunReader
	log       logrus.FieldLogger
	startTime time.Time
}

// NewServer creates a server over runs.
func NewServer(runs RunReader, log logrus.FieldLogger) *Server {
	return &Server{runs: runs, log: log, startTime: time.Now()}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", s.handleListRuns)
		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Get("/points", s.handlePoints)
			r.Get("/histogram/{energy}", s.handleHistogram)
		})
	})
	return r
}

// pointResponse carries NaN temperatures and magnetizations as null.
type pointResponse struct {
	Index         int      `json:"index"`
	InitialEnergy int      `json:"initial_energy"`
	StartEnergy   int      `json:"start_energy"`
	Temperature   *float64 `json:"temperature"`
	Magnetization *float64 `json:"magnetization"`
	Slope         float64  `json:"slope"`
	Intercept     float64  `json:"intercept"`
	FittedBins    int      `json:"fitted_bins"`
	Equilibration int      `json:"equilibration"`
	Acceptance    float64  `json:"acceptance"`
	FinalEnergy   int      `json:"final_energy"`
}

type histogramResponse struct {
	RunID         string        `json:"run_id"`
	InitialEnergy int           `json:"initial_energy"`
	Bins          []binResponse `json:"bins"`
}

type binResponse struct {
	Energy   int     `json:"energy"`
	Count    int64   `json:"count"`
	LogCount float64 `json:"ln_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.ListRuns(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	points, err := s.runs.Points(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]pointResponse, 0, len(points))
	for _, p := range points {
		stats := creutz.DemonStats{Accepted: p.Accepted, Rejected: p.Rejected}
		out = append(out, pointResponse{
			Index:         p.Index,
			InitialEnergy: p.Point.InitialEnergy,
			StartEnergy:   p.StartEnergy,
			Temperature:   finite(p.Point.Temperature),
			Magnetization: finite(p.Point.Magnetization),
			Slope:         p.Point.Slope,
			Intercept:     p.Intercept,
			FittedBins:    p.FittedBins,
			Equilibration: p.Equilibration,
			Acceptance:    stats.AcceptanceRatio(),
			FinalEnergy:   p.FinalEnergy,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	energy, err := strconv.Atoi(chi.URLParam(r, "energy"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "energy must be an integer"})
		return
	}
	bins, err := s.runs.Histogram(r.Context(), id, energy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := histogramResponse{RunID: id, InitialEnergy: energy, Bins: make([]binResponse, 0, len(bins))}
	for _, b := range bins {
		resp.Bins = append(resp.Bins, binResponse{Energy: b.Energy, Count: b.Count, LogCount: b.LogCount()})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("encode response")
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

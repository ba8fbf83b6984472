// Package server exposes the monitor's cached analyses as a read-only JSON
// API plus the Prometheus metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/dm/esadvisor/internal/model"
	"github.com/dm/esadvisor/internal/monitor"
)

// Backend is the subset of *monitor.Monitor the API reads from.
type Backend interface {
	Clusters() []monitor.ClusterStatus
	Latest(name string) (monitor.Result, error)
	History(name string) ([]model.Sample, error)
	Averages(name string) (monitor.Averages, error)
	PollCluster(ctx context.Context, name string) (monitor.Result, error)
	ProblemNodes(name string, cpu, heap float64) ([]model.NodeAverage, error)
	Recovery(name string) ([]model.Recovery, error)
	HotThreads(ctx context.Context, name string) (string, error)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HistoryResponse is the body of the history endpoint.
type HistoryResponse struct {
	Samples  []model.Sample   `json:"samples"`
	Averages monitor.Averages `json:"averages"`
}

// ProblemsResponse is the body of the problem-nodes endpoint.
type ProblemsResponse struct {
	CPUThreshold  float64             `json:"cpuThreshold"`
	HeapThreshold float64             `json:"heapThreshold"`
	Nodes         []model.NodeAverage `json:"nodes"`
}

// Server is the HTTP API.
type Server struct {
	backend Backend
	metrics http.Handler
	http    *http.Server
}

// New builds a Server listening on addr. metrics may be nil to disable
// /metrics.
func New(addr string, backend Backend, metrics http.Handler) *Server {
	s := &Server{backend: backend, metrics: metrics}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes returns the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logrus.StandardLogger(), NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/api/clusters", func(r chi.Router) {
		r.Get("/", s.listClusters)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/analysis", s.analysis)
			r.Get("/recommendations", s.recommendations)
			r.Get("/summary", s.summary)
			r.Get("/history", s.history)
			r.Get("/indices", s.indices)
			r.Get("/problems", s.problems)
			r.Get("/recovery", s.recovery)
			r.Get("/hot-threads", s.hotThreads)
			r.Post("/refresh", s.refresh)
		})
	})
	return r
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logrus.WithField("listen", s.http.Addr).Info("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) listClusters(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.backend.Clusters())
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) (monitor.Result, bool) {
	res, err := s.backend.Latest(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return monitor.Result{}, false
	}
	return res, true
}

func (s *Server) analysis(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.latest(w, r); ok {
		render.JSON(w, r, res)
	}
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.latest(w, r); ok {
		render.JSON(w, r, res.Report.Recommendations)
	}
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.latest(w, r); ok {
		render.JSON(w, r, res.Report.Summary)
	}
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	samples, err := s.backend.History(name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	avg, err := s.backend.Averages(name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, HistoryResponse{Samples: samples, Averages: avg})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	res, err := s.backend.PollCluster(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (s *Server) indices(w http.ResponseWriter, r *http.Request) {
	limit := model.DefaultIndexLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, r, fmt.Errorf("limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}
	if res, ok := s.latest(w, r); ok {
		render.JSON(w, r, model.RankIndices(res.Report.IndexMetrics, limit))
	}
}

func (s *Server) problems(w http.ResponseWriter, r *http.Request) {
	cpu, err := queryPercent(r, "cpuThreshold", model.DefaultProblemCPUPercent)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	heap, err := queryPercent(r, "heapThreshold", model.DefaultProblemHeapPercent)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	nodes, err := s.backend.ProblemNodes(chi.URLParam(r, "name"), cpu, heap)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ProblemsResponse{CPUThreshold: cpu, HeapThreshold: heap, Nodes: nodes})
}

func (s *Server) recovery(w http.ResponseWriter, r *http.Request) {
	recs, err := s.backend.Recovery(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, recs)
}

func (s *Server) hotThreads(w http.ResponseWriter, r *http.Request) {
	out, err := s.backend.HotThreads(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.PlainText(w, r, out)
}

// queryPercent reads a 0-100 query parameter, returning def when absent.
func queryPercent(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 100 {
		return 0, fmt.Errorf("%s must be a number between 0 and 100, got %q", key, v)
	}
	return f, nil
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, monitor.ErrUnknownCluster):
		render.Status(r, http.StatusNotFound)
	case errors.Is(err, monitor.ErrNoReport):
		render.Status(r, http.StatusServiceUnavailable)
	default:
		render.Status(r, http.StatusBadGateway)
	}
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// jobMetrics tracks the state of the currently running (or most recently
// finished) quantify job, for the status endpoint and Prometheus gauges.
// The pattern counters are reported by /status, but the quantify command
// never calls setPatternsTotal or incPatternsDone, so they stay at 0.
type jobMetrics struct {
	mu        sync.RWMutex
	state     string // "running", "done", "failed"
	startedAt time.Time
	input     string

	patternsTotal int64
	patternsDone  int64

	consensusGauge prometheus.Gauge
	featuresGauge  prometheus.Gauge
	durationGauge  prometheus.Gauge
}

func newJobMetrics(reg prometheus.Registerer) *jobMetrics {
	jm := &jobMetrics{
		consensusGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multiplex_consensus_features",
			Help: "Number of consensus features produced by the last completed run.",
		}),
		featuresGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multiplex_feature_rows",
			Help: "Number of per-peptide feature rows produced by the last completed run.",
		}),
		durationGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "multiplex_run_duration_seconds",
			Help: "Wall-clock duration of the last completed run.",
		}),
	}
	reg.MustRegister(jm.consensusGauge, jm.featuresGauge, jm.durationGauge)
	return jm
}

func (jm *jobMetrics) start(input string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.state = "running"
	jm.startedAt = time.Now()
	jm.input = input
	atomic.StoreInt64(&jm.patternsTotal, 0)
	atomic.StoreInt64(&jm.patternsDone, 0)
}

func (jm *jobMetrics) setPatternsTotal(n int) {
	atomic.StoreInt64(&jm.patternsTotal, int64(n))
}

func (jm *jobMetrics) incPatternsDone() {
	atomic.AddInt64(&jm.patternsDone, 1)
}

func (jm *jobMetrics) finish(consensusN, featureN int, err error) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	if err != nil {
		jm.state = "failed"
		return
	}
	jm.state = "done"
	jm.consensusGauge.Set(float64(consensusN))
	jm.featuresGauge.Set(float64(featureN))
	jm.durationGauge.Set(time.Since(jm.startedAt).Seconds())
}

type statusResponse struct {
	State         string `json:"state"`
	Input         string `json:"input,omitempty"`
	PatternsTotal int64  `json:"patterns_total"`
	PatternsDone  int64  `json:"patterns_done"`
	ElapsedSec    float64 `json:"elapsed_seconds"`
}

func (jm *jobMetrics) handleStatus(w http.ResponseWriter, r *http.Request) {
	jm.mu.RLock()
	resp := statusResponse{
		State:         jm.state,
		Input:         jm.input,
		PatternsTotal: atomic.LoadInt64(&jm.patternsTotal),
		PatternsDone:  atomic.LoadInt64(&jm.patternsDone),
	}
	if !jm.startedAt.IsZero() {
		resp.ElapsedSec = time.Since(jm.startedAt).Seconds()
	}
	jm.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// newStatusServer builds the optional HTTP server exposing /status and
// /metrics for long-running batch jobs.
func newStatusServer(addr string, jm *jobMetrics) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/status", jm.handleStatus)
	r.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// serveStatusInBackground starts the status server and returns a shutdown
// func. Bind failures are logged but never fail the quantify run: the
// status endpoint is an operational aid, not a correctness dependency.
func serveStatusInBackground(ctx context.Context, addr string, jm *jobMetrics, onErr func(error)) func() {
	if addr == "" {
		return func() {}
	}
	srv := newStatusServer(addr, jm)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			onErr(fmt.Errorf("status server: %w", err))
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_extract"

// Outcome status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics are the batch runner's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	Parses      *prometheus.CounterVec
	Coverage    *prometheus.HistogramVec
	Duration    *prometheus.HistogramVec
	Unreadable  prometheus.Counter
	LastRunTime prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Document and profile pairs processed, by profile and status.",
		}, []string{"profile", "status"}),
		Coverage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "coverage_percentage",
			Help:      "Coverage percentage of successful parses.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		}, []string{"profile"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent extracting, normalizing and verifying one document with one profile.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"profile"}),
		Unreadable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unreadable_documents_total",
			Help:      "Documents whose text could not be extracted.",
		}),
		LastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last batch run finished.",
		}),
	}

	for _, c := range []prometheus.Collector{m.Parses, m.Coverage, m.Duration, m.Unreadable, m.LastRunTime} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// ObserveParse records one document and profile pair
func (m *Metrics) ObserveParse(profile string, coverage float64, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Parses.WithLabelValues(profile, StatusFailure).Inc()
		return
	}
	m.Parses.WithLabelValues(profile, StatusSuccess).Inc()
	m.Coverage.WithLabelValues(profile).Observe(coverage)
	m.Duration.WithLabelValues(profile).Observe(elapsed.Seconds())
}

// ObserveUnreadable counts a document that could not be read
func (m *Metrics) ObserveUnreadable() {
	if m == nil {
		return
	}
	m.Unreadable.Inc()
}

// ObserveRunFinished stamps the end of a batch run
func (m *Metrics) ObserveRunFinished(at time.Time) {
	if m == nil {
		return
	}
	m.LastRunTime.Set(float64(at.Unix()))
}

// ServeMetrics serves the gatherer's metrics on addr under /metrics until ctx is done
func ServeMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

// Package metrics exposes Prometheus counters for moderation activity.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for MessagesChecked.
const (
	OutcomeKept    = "kept"
	OutcomeDeleted = "deleted"
	OutcomeAdmin   = "admin"
)

// Metrics holds the bot's collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	MessagesChecked *prometheus.CounterVec
	DeleteFailures  *prometheus.CounterVec
	Toggles         prometheus.Counter
	Enabled         prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		MessagesChecked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkguard_messages_checked_total",
			Help: "Messages carrying links that were checked, by outcome.",
		}, []string{"outcome"}),
		DeleteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkguard_delete_failures_total",
			Help: "Failed delete-message calls, by reason.",
		}, []string{"reason"}),
		Toggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linkguard_toggles_total",
			Help: "Moderation toggles issued by admins.",
		}),
		Enabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "linkguard_enabled",
			Help: "1 when link deletion is active.",
		}),
	}

	reg.MustRegister(
		m.MessagesChecked,
		m.DeleteFailures,
		m.Toggles,
		m.Enabled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SetEnabled records the moderation flag.
func (m *Metrics) SetEnabled(enabled bool) {
	if m == nil {
		return
	}
	if enabled {
		m.Enabled.Set(1)
	} else {
		m.Enabled.Set(0)
	}
}

// Checked counts a checked message.
func (m *Metrics) Checked(outcome string) {
	if m == nil {
		return
	}
	m.MessagesChecked.WithLabelValues(outcome).Inc()
}

// DeleteFailed counts a failed deletion.
func (m *Metrics) DeleteFailed(reason string) {
	if m == nil {
		return
	}
	m.DeleteFailures.WithLabelValues(reason).Inc()
}

// Toggled counts an admin toggle and records the new state.
func (m *Metrics) Toggled(enabled bool) {
	if m == nil {
		return
	}
	m.Toggles.Inc()
	m.SetEnabled(enabled)
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve runs the metrics listener on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, m *Metrics, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Metrics listener started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics listener failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics listener shutdown failed", "error", err)
		}
		logger.Info("Metrics listener stopped")
		return nil
	}
}

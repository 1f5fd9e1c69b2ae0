// Package metrics exposes clock face activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/engine"
)

// Recorder implements engine.Observer on its own registry, so several
// recorders can coexist in one process (tests, multiple windows).
type Recorder struct {
	registry *prometheus.Registry

	refreshes     *prometheus.CounterVec
	scheduled     prometheus.Counter
	cancelled     prometheus.Counter
	tickDelay     prometheus.Histogram
	attached      prometheus.Gauge
	snapshotBytes prometheus.Gauge
}

// NewRecorder creates and registers the clock metrics.
func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricRefreshes,
			Help:      config.MetricRefreshesHelp,
		}, []string{config.MetricLabelTrigger}),
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricTicksScheduled,
			Help:      config.MetricTicksSchedHelp,
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricTicksCancelled,
			Help:      config.MetricTicksCancelHelp,
		}),
		tickDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricTickDelay,
			Help:      config.MetricTickDelayHelp,
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		attached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricAttached,
			Help:      config.MetricAttachedHelp,
		}),
		snapshotBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Name:      config.MetricSnapshotBytes,
			Help:      config.MetricSnapshotHelp,
		}),
	}

	for _, c := range []prometheus.Collector{
		r.refreshes, r.scheduled, r.cancelled, r.tickDelay, r.attached, r.snapshotBytes,
	} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrMetricsRegister, err)
		}
	}
	return r, nil
}

func (r *Recorder) Refreshed(trigger engine.Trigger) {
	r.refreshes.WithLabelValues(string(trigger)).Inc()
}

func (r *Recorder) TickScheduled(delay time.Duration) {
	r.scheduled.Inc()
	r.tickDelay.Observe(delay.Seconds())
}

func (r *Recorder) TickCancelled() {
	r.cancelled.Inc()
}

func (r *Recorder) Attached(attached bool) {
	if attached {
		r.attached.Set(1)
		return
	}
	r.attached.Set(0)
}

// SnapshotEncoded records the size of the latest published PNG.
func (r *Recorder) SnapshotEncoded(size int) {
	r.snapshotBytes.Set(float64(size))
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Package metrics exposes Prometheus metrics for the live server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every metric the server records
type Registry struct {
	registry *prometheus.Registry

	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	EventsTotal    *prometheus.CounterVec
	FramesTotal    prometheus.Counter
	RenderDuration prometheus.Histogram
	ExportsTotal   *prometheus.CounterVec
	ConfigReloads  *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)
	return &Registry{
		registry: reg,
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "polynet_sessions_active",
			Help: "Number of connected live sessions",
		}),
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "polynet_sessions_total",
			Help: "Total number of live sessions opened",
		}),
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polynet_events_total",
			Help: "Input events received, by kind",
		}, []string{"kind"}),
		FramesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "polynet_frames_rendered_total",
			Help: "Total number of frames rendered",
		}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "polynet_render_duration_seconds",
			Help:    "Time to compose and serialize one frame",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		ExportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polynet_exports_total",
			Help: "Frame exports, by status",
		}, []string{"status"}),
		ConfigReloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polynet_config_reloads_total",
			Help: "Config file reloads, by status",
		}, []string{"status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Prometheus returns the underlying registry
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

func (r *Registry) SessionOpened() {
	r.SessionsActive.Inc()
	r.SessionsTotal.Inc()
}

func (r *Registry) SessionClosed() {
	r.SessionsActive.Dec()
}

func (r *Registry) EventReceived(kind string) {
	r.EventsTotal.WithLabelValues(kind).Inc()
}

// FrameRendered records one rendered frame and how long it took.
func (r *Registry) FrameRendered(d time.Duration) {
	r.FramesTotal.Inc()
	r.RenderDuration.Observe(d.Seconds())
}

func (r *Registry) Exported(ok bool) {
	r.ExportsTotal.WithLabelValues(status(ok)).Inc()
}

// ConfigReloaded records a config reload attempt
func (r *Registry) ConfigReloaded(ok bool) {
	r.ConfigReloads.WithLabelValues(status(ok)).Inc()
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

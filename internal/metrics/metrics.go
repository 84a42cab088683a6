// Package metrics regroupe les collecteurs Prometheus du serveur.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Guilhem-Bonnet/yt-channel-viewer/internal/ports"
)

// Metrics est nil-safe : un *Metrics nil ne mesure rien.
type Metrics struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	UpstreamCalls    *prometheus.CounterVec
	OpenViews        prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytv_api_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by route, method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ytv_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		UpstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytv_upstream_calls_total",
				Help: "YouTube Data API calls, by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		OpenViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ytv_open_views",
			Help: "Channel views currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RequestDuration, m.RequestsInFlight, m.UpstreamCalls, m.OpenViews)
	}
	return m
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) InFlight(delta float64) {
	if m == nil {
		return
	}
	m.RequestsInFlight.Add(delta)
}

// ObserveUpstream classe l'appel : ok, not_configured, not_found, error.
func (m *Metrics) ObserveUpstream(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrNotConfigured):
		outcome = "not_configured"
	case errors.Is(err, ports.ErrChannelNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	m.UpstreamCalls.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) SetOpenViews(n int) {
	if m == nil {
		return
	}
	m.OpenViews.Set(float64(n))
}

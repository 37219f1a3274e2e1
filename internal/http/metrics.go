package http

import (
	"errors"
	"net/http"

	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// transportMetrics observes every attempt that reaches the network.
type transportMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func newTransportMetrics(registerer prometheus.Registerer) *transportMetrics {
	metrics := &transportMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "HTTP attempts sent to the API, by status code and method.",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP attempts sent to the API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "transport",
			Name:      "requests_in_flight",
			Help:      "HTTP attempts currently waiting for a response.",
		}),
	}

	metrics.requests = registerOrReuse(registerer, metrics.requests)
	metrics.duration = registerOrReuse(registerer, metrics.duration)
	metrics.inFlight = registerOrReuse(registerer, metrics.inFlight)

	return metrics
}

// registerOrReuse registers collector, or returns the one already registered
// under the same name so several clients can share a registry.
func registerOrReuse[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}

	return collector
}

func (m *transportMetrics) instrument(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(m.inFlight,
		promhttp.InstrumentRoundTripperCounter(m.requests,
			promhttp.InstrumentRoundTripperDuration(m.duration, next),
		),
	)
}

package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devrpc",
			Subsystem: "dispatch",
			Name:      "requests_total",
			Help:      "Total dispatched requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "devrpc",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Time spent on the dispatch path per request.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "outcome"},
	)
	wireErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devrpc",
			Subsystem: "dispatch",
			Name:      "wire_errors_total",
			Help:      "Protocol-level error frames sent, by error kind.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(dispatchTotal, dispatchDuration, wireErrors)
	})
}

// RecordDispatch counts one dispatch call. endpoint is the endpoint path, or
// "unknown" when the routing key matched nothing.
func RecordDispatch(endpoint, outcome string, duration time.Duration) {
	RegisterMetrics()
	dispatchTotal.WithLabelValues(endpoint, outcome).Inc()
	dispatchDuration.WithLabelValues(endpoint, outcome).Observe(duration.Seconds())
}

// RecordWireError counts one outbound error frame by kind.
func RecordWireError(kind string) {
	RegisterMetrics()
	wireErrors.WithLabelValues(kind).Inc()
}

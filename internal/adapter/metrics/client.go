package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pscheid92/vsware/vsware"
)

// ClientMetrics records one sample per portal operation. It implements vsware.RequestObserver.
type ClientMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// NewClientMetrics creates and registers client metrics on the given registry.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of portal requests by operation and HTTP status.",
		}, []string{"operation", "method", "status_code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of portal requests in seconds, including body decoding.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "method"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_errors_total",
			Help:      "Total number of failed portal operations by error kind.",
		}, []string{"operation", "kind"}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.ErrorsTotal)
	return m
}

// ObserveRequest implements vsware.RequestObserver. Operations that never reached the server
// are counted as errors only.
func (m *ClientMetrics) ObserveRequest(operation, method string, statusCode int, duration time.Duration, err error) {
	if statusCode != 0 {
		m.RequestsTotal.WithLabelValues(operation, method, strconv.Itoa(statusCode)).Inc()
		m.RequestDuration.WithLabelValues(operation, method).Observe(duration.Seconds())
	}
	if err != nil {
		m.ErrorsTotal.WithLabelValues(operation, errorKind(err)).Inc()
	}
}

func errorKind(err error) string {
	var e *vsware.Error
	if errors.As(err, &e) {
		return string(e.Kind)
	}
	return "unknown"
}

package core

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder publishes operation latency and outcome counts.
type PrometheusRecorder struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

// NewPrometheusRecorder registers the service collectors on reg. A nil reg
// uses the default registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusRecorder{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ohsurveil",
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Duration of registry service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ohsurveil",
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Registry service operations by outcome.",
		}, []string{"op", "success"}),
	}
	for _, c := range []prometheus.Collector{r.duration, r.results} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	r.duration.WithLabelValues(op).Observe(duration.Seconds())
	r.results.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

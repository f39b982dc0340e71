package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Plan generation
var (
	PlansGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePlansGenerated,
			Help: HelpTextPlansGenerated,
		},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGenerationFailures,
			Help: HelpTextGenerationFailures,
		},
		[]string{LabelKind},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameGenerationDuration,
			Help:    HelpTextGenerationDuration,
			Buckets: GenerationBuckets,
		},
	)
)

// Tasks and uploads
var (
	TaskTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTaskTransitions,
			Help: HelpTextTaskTransitions,
		},
		[]string{LabelStatus, LabelResult},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUploads,
			Help: HelpTextUploads,
		},
		[]string{LabelResult},
	)
)

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelCode},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func ObserveUpload(err error) {
	Uploads.WithLabelValues(result(err)).Inc()
}

func ObserveTransition(status string, err error) {
	TaskTransitions.WithLabelValues(status, result(err)).Inc()
}

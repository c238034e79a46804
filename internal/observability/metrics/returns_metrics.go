package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReturnsMetrics counts eligibility evaluations and return request submissions.
type ReturnsMetrics struct {
	evaluations         *prometheus.CounterVec
	aggregations        *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	partialFailures     prometheus.Counter
	requestsSubmitted   *prometheus.CounterVec
}

var (
	returnsMetricsOnce sync.Once
	returnsMetrics     *ReturnsMetrics
)

// Returns provides the process-wide returns metrics.
func Returns() *ReturnsMetrics {
	return ReturnsWithConfig(Config{})
}

// ReturnsWithConfig provides the process-wide returns metrics with labels.
func ReturnsWithConfig(cfg Config) *ReturnsMetrics {
	returnsMetricsOnce.Do(func() {
		returnsMetrics = newReturnsMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return returnsMetrics
}

// ResetReturnsMetricsForTest clears the singleton between tests.
func ResetReturnsMetricsForTest() {
	returnsMetricsOnce = sync.Once{}
	returnsMetrics = nil
}

func newReturnsMetrics(registerer prometheus.Registerer, cfg Config) *ReturnsMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "returnly"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	evaluations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "returnly_eligibility_evaluations_total",
			Help:        "Total per-item eligibility evaluations by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // eligible | ineligible | error
	)

	aggregations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "returnly_order_aggregations_total",
			Help:        "Total eligible-order aggregation runs by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // ok | partial | error
	)

	aggregationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "returnly_order_aggregation_duration_seconds",
			Help:        "Wall time for a full eligible-order aggregation run.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
	)

	partialFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "returnly_aggregation_partial_failures_total",
			Help:        "Total per-unit fetch failures recorded during aggregation.",
			ConstLabels: constLabels,
		},
	)

	requestsSubmitted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "returnly_return_requests_submitted_total",
			Help:        "Total return request submissions by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // ok | partial | rejected | error
	)

	collectors := []prometheus.Collector{
		evaluations,
		aggregations,
		aggregationDuration,
		partialFailures,
		requestsSubmitted,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
		}
	}

	return &ReturnsMetrics{
		evaluations:         evaluations,
		aggregations:        aggregations,
		aggregationDuration: aggregationDuration,
		partialFailures:     partialFailures,
		requestsSubmitted:   requestsSubmitted,
	}
}

// ObserveEvaluation counts one per-item evaluation.
func (m *ReturnsMetrics) ObserveEvaluation(result string) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(result).Inc()
}

// ObserveAggregation counts one aggregation run and its duration.
func (m *ReturnsMetrics) ObserveAggregation(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(result).Inc()
	m.aggregationDuration.Observe(duration.Seconds())
}

// ObservePartialFailure counts one recorded fetch failure.
func (m *ReturnsMetrics) ObservePartialFailure() {
	if m == nil {
		return
	}
	m.partialFailures.Inc()
}

// ObserveSubmission counts one return request submission.
func (m *ReturnsMetrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.requestsSubmitted.WithLabelValues(result).Inc()
}

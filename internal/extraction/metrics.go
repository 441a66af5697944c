package extraction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Extraction outcomes recorded by Metrics.
const (
	OutcomeSuccess         = "success"
	OutcomeEmpty           = "empty"
	OutcomeUpstreamFailure = "upstream_failure"
	OutcomePromptFailure   = "prompt_failure"
)

// Metrics holds Prometheus metrics for the extractor.
//
// Metrics:
//   - formsiq_extractions_total{outcome} - Count of extractions by outcome
//   - formsiq_llm_request_duration_seconds - Histogram of LLM completion latency
//   - formsiq_field_confidence - Histogram of confidence scores assigned to fields
type Metrics struct {
	ExtractionsTotal *prometheus.CounterVec
	LLMDuration      prometheus.Histogram
	FieldConfidence  prometheus.Histogram
}

// NewMetrics creates the extractor metrics and registers them with reg.
// A nil reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsiq_extractions_total",
				Help: "Total number of transcript extractions",
			},
			[]string{"outcome"},
		),
		LLMDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "formsiq_llm_request_duration_seconds",
				Help:    "Duration of LLM completion calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
		FieldConfidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "formsiq_field_confidence",
				Help:    "Confidence scores assigned to extracted fields",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}
}

func (m *Metrics) outcome(outcome string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) llmDuration(seconds float64) {
	if m == nil {
		return
	}
	m.LLMDuration.Observe(seconds)
}

func (m *Metrics) confidence(score float64) {
	if m == nil {
		return
	}
	m.FieldConfidence.Observe(score)
}

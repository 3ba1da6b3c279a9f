package models

import "time"

// MetricSample is one observation of a model-quality metric.
type MetricSample struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// MetricTrend is the direction of a metric's raw value. Whether a direction
// is favorable depends on the metric (rising latency is bad, rising
// satisfaction is good).
type MetricTrend string

const (
	MetricIncreasing MetricTrend = "increasing"
	MetricDecreasing MetricTrend = "decreasing"
	MetricStable     MetricTrend = "stable"
)

// PerformanceReport summarizes the monitor's view of the generation model.
// A nil trend means not enough samples to call a direction.
type PerformanceReport struct {
	AvgLatencyMS    float64 `json:"avg_latency_ms"`
	AvgAccuracy     float64 `json:"avg_accuracy"`     // percent, 0-100
	AvgSatisfaction float64 `json:"avg_satisfaction"` // 1-5

	LatencySamples      int `json:"latency_samples"`
	AccuracySamples     int `json:"accuracy_samples"`
	SatisfactionSamples int `json:"satisfaction_samples"`

	LatencyTrend      *MetricTrend `json:"latency_trend"`
	AccuracyTrend     *MetricTrend `json:"accuracy_trend"`
	SatisfactionTrend *MetricTrend `json:"satisfaction_trend"`

	ShouldRetrain bool      `json:"should_retrain"`
	GeneratedAt   time.Time `json:"generated_at"`
}

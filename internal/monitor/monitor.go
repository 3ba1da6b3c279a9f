// Package monitor tracks the review-generation model's health: response
// latency, issue-detection accuracy and user satisfaction. Samples live in
// fixed-size in-memory rings; history is intentionally lost on restart.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/review"
)

const (
	// RingCapacity is kept per metric; older samples are evicted.
	RingCapacity = 100

	// trendWindow is how many recent samples form the newest half of the
	// trend comparison.
	trendWindow = 10

	// trendBand is the relative change below which a metric counts
	// as stable.
	trendBand = 0.05
)

// Thresholds are the retrain trip-wires.
type Thresholds struct {
	MaxLatencyMS    float64 // retrain above this average latency
	MinAccuracyPct  float64 // retrain below this average accuracy
	MinSatisfaction float64 // retrain below this average rating
}

// Monitor collects model-quality samples and decides when the generation
// model needs retraining. All methods are safe for concurrent use.
type Monitor struct {
	mu           sync.Mutex
	latency      []models.MetricSample
	accuracy     []models.MetricSample
	satisfaction []models.MetricSample

	thresholds Thresholds
	now        func() time.Time
}

// New creates a Monitor with the given retrain thresholds.
func New(thresholds Thresholds) *Monitor {
	return NewWithClock(thresholds, time.Now)
}

// NewWithClock creates a Monitor with an injected clock.
func NewWithClock(thresholds Thresholds, now func() time.Time) *Monitor {
	return &Monitor{thresholds: thresholds, now: now}
}

// TrackResponseTime records one generation round-trip and returns the
// recorded milliseconds. Negative intervals are dropped.
func (m *Monitor) TrackResponseTime(start, end time.Time) float64 {
	ms := float64(end.Sub(start)) / float64(time.Millisecond)
	if ms < 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = push(m.latency, models.MetricSample{Value: ms, Timestamp: m.now()})
	return ms
}

// TrackAccuracy scores the user's found issues against the exercise's
// canonical set, records the result and returns it as a percentage.
func (m *Monitor) TrackAccuracy(found, canonical []review.Issue) float64 {
	_, accuracy := review.Score(found, canonical)
	pct := accuracy * 100
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accuracy = push(m.accuracy, models.MetricSample{Value: pct, Timestamp: m.now()})
	return pct
}

// TrackUserSatisfaction records one 1-5 rating and reports whether it was
// accepted. Out-of-range ratings are dropped.
func (m *Monitor) TrackUserSatisfaction(rating int) bool {
	if rating < 1 || rating > 5 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.satisfaction = push(m.satisfaction, models.MetricSample{Value: float64(rating), Timestamp: m.now()})
	return true
}

// Report snapshots the rings into averages, trends and the retrain decision.
func (m *Monitor) Report(ctx context.Context) models.PerformanceReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := models.PerformanceReport{
		AvgLatencyMS:    mean(m.latency),
		AvgAccuracy:     mean(m.accuracy),
		AvgSatisfaction: mean(m.satisfaction),

		LatencySamples:      len(m.latency),
		AccuracySamples:     len(m.accuracy),
		SatisfactionSamples: len(m.satisfaction),

		LatencyTrend:      trend(m.latency),
		AccuracyTrend:     trend(m.accuracy),
		SatisfactionTrend: trend(m.satisfaction),

		GeneratedAt: m.now(),
	}
	report.ShouldRetrain = m.shouldRetrain(report)

	if report.ShouldRetrain {
		logger.FromContext(ctx).WithPrefix("monitor").
			Warn("retrain recommended: latency=%.0fms accuracy=%.1f%% satisfaction=%.2f",
				report.AvgLatencyMS, report.AvgAccuracy, report.AvgSatisfaction)
	}
	return report
}

// ShouldRetrain is the boolean view of Report for the polling endpoint.
func (m *Monitor) ShouldRetrain(ctx context.Context) bool {
	return m.Report(ctx).ShouldRetrain
}

// shouldRetrain trips on any breached average or any unfavorable trend.
// Metrics with no samples and nil trends never contribute.
func (m *Monitor) shouldRetrain(r models.PerformanceReport) bool {
	if r.LatencySamples > 0 && r.AvgLatencyMS > m.thresholds.MaxLatencyMS {
		return true
	}
	if r.AccuracySamples > 0 && r.AvgAccuracy < m.thresholds.MinAccuracyPct {
		return true
	}
	if r.SatisfactionSamples > 0 && r.AvgSatisfaction < m.thresholds.MinSatisfaction {
		return true
	}
	if r.LatencyTrend != nil && *r.LatencyTrend == models.MetricIncreasing {
		return true
	}
	if r.AccuracyTrend != nil && *r.AccuracyTrend == models.MetricDecreasing {
		return true
	}
	if r.SatisfactionTrend != nil && *r.SatisfactionTrend == models.MetricDecreasing {
		return true
	}
	return false
}

func push(ring []models.MetricSample, s models.MetricSample) []models.MetricSample {
	ring = append(ring, s)
	if len(ring) > RingCapacity {
		ring = ring[len(ring)-RingCapacity:]
	}
	return ring
}

func mean(samples []models.MetricSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.Value
	}
	return sum / float64(len(samples))
}

// trend compares the mean of the newest trendWindow samples against the mean
// of up to trendWindow samples before them. Returns nil until there is at
// least one sample on each side of the split.
func trend(samples []models.MetricSample) *models.MetricTrend {
	if len(samples) <= trendWindow {
		return nil
	}

	recent := samples[len(samples)-trendWindow:]
	prior := samples[:len(samples)-trendWindow]
	if len(prior) > trendWindow {
		prior = prior[len(prior)-trendWindow:]
	}

	recentMean := mean(recent)
	priorMean := mean(prior)

	t := models.MetricStable
	switch {
	case priorMean == 0:
		if recentMean > 0 {
			t = models.MetricIncreasing
		}
	case (recentMean-priorMean)/priorMean > trendBand:
		t = models.MetricIncreasing
	case (recentMean-priorMean)/priorMean < -trendBand:
		t = models.MetricDecreasing
	}
	return &t
}

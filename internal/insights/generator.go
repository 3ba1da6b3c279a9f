// Package insights turns a statistics snapshot and a daily-accuracy series
// into a qualitative report: strengths, weaknesses, trend and next steps.
package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
)

const (
	expertAccuracy       = 0.85
	advancedAccuracy     = 0.70
	intermediateAccuracy = 0.50

	strengthMinAccuracy = 0.75
	strengthMinCount    = 3
	weaknessMaxAccuracy = 0.60
	weaknessMinCount    = 2
	topCategories       = 3

	trendDelta      = 0.10
	trendMinPoints  = 3
	recentWindowLen = 7 // days 0-6 recent, 7-13 prior

	slowAvgTimeSeconds = 300

	maxRecommendations = 4
	maxNextSteps       = 3
)

// Generator produces insight reports.
type Generator interface {
	Generate(ctx context.Context, userID string, snapshot *models.UserStatsSnapshot, daily []models.DailyAccuracy) *models.InsightReport
}

type generator struct {
	now func() time.Time
}

// NewGenerator creates a new insight Generator.
func NewGenerator() Generator {
	return NewGeneratorWithClock(time.Now)
}

// NewGeneratorWithClock creates a Generator with an injected clock.
func NewGeneratorWithClock(now func() time.Time) Generator {
	return &generator{now: now}
}

func (g *generator) Generate(ctx context.Context, userID string, snapshot *models.UserStatsSnapshot, daily []models.DailyAccuracy) *models.InsightReport {
	log := logger.FromContext(ctx).WithPrefix("insights")
	now := g.now()

	report := &models.InsightReport{
		UserID:      userID,
		GeneratedAt: now,
	}

	if snapshot == nil || snapshot.TotalExercises == 0 {
		report.Level = models.LevelBeginner
		report.Summary = "You're just getting started - complete a few exercises to unlock personalized insights."
		report.Trend = models.TrendNewUser
		report.NextSteps = []string{"Complete your first review exercise to establish a baseline."}
		return report
	}

	report.Level = classifyLevel(snapshot.AvgAccuracy)
	report.Summary = fmt.Sprintf("You're performing at %s level with %.0f%% average accuracy across %d exercises.",
		report.Level, snapshot.AvgAccuracy*100, snapshot.TotalExercises)

	report.Strengths = selectStrengths(snapshot.PerCategory)
	report.Weaknesses = selectWeaknesses(snapshot.PerCategory)
	report.Trend = classifyTrend(daily, now)
	report.Recommendations = buildRecommendations(snapshot, report.Weaknesses, report.Trend)
	report.NextSteps = buildNextSteps(report.Level, report.Weaknesses)

	log.Debug("generated insights: user_id=%s, level=%s, trend=%s", userID, report.Level, report.Trend)
	return report
}

func classifyLevel(avgAccuracy float64) models.SkillLevel {
	switch {
	case avgAccuracy >= expertAccuracy:
		return models.LevelExpert
	case avgAccuracy >= advancedAccuracy:
		return models.LevelAdvanced
	case avgAccuracy >= intermediateAccuracy:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

// selectStrengths picks categories with high accuracy and enough volume,
// best first, capped at three.
func selectStrengths(perCategory map[string]models.CategoryStats) []models.CategoryStats {
	var out []models.CategoryStats
	for _, cs := range perCategory {
		if cs.AvgAccuracy >= strengthMinAccuracy && cs.Count >= strengthMinCount {
			out = append(out, cs)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgAccuracy != out[j].AvgAccuracy {
			return out[i].AvgAccuracy > out[j].AvgAccuracy
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > topCategories {
		out = out[:topCategories]
	}
	return out
}

// selectWeaknesses picks categories with low accuracy or too little practice,
// worst first, capped at three.
func selectWeaknesses(perCategory map[string]models.CategoryStats) []models.CategoryStats {
	var out []models.CategoryStats
	for _, cs := range perCategory {
		if cs.AvgAccuracy < weaknessMaxAccuracy || cs.Count < weaknessMinCount {
			out = append(out, cs)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgAccuracy != out[j].AvgAccuracy {
			return out[i].AvgAccuracy < out[j].AvgAccuracy
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > topCategories {
		out = out[:topCategories]
	}
	return out
}

// classifyTrend splits the last 14 days of daily accuracy into a recent
// window (days 0-6) and a prior window (days 7-13) and compares the means.
func classifyTrend(daily []models.DailyAccuracy, now time.Time) models.Trend {
	if len(daily) < trendMinPoints {
		return models.TrendInsufficientData
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var recentSum, olderSum float64
	var recentN, olderN int
	for _, d := range daily {
		age := daysBetween(d.Date.In(loc), today)
		switch {
		case age < 0:
			continue
		case age < recentWindowLen:
			recentSum += d.AvgAccuracy
			recentN++
		case age < 2*recentWindowLen:
			olderSum += d.AvgAccuracy
			olderN++
		}
	}

	if olderN == 0 {
		return models.TrendNewUser
	}
	if recentN == 0 {
		return models.TrendStable
	}

	delta := recentSum/float64(recentN) - olderSum/float64(olderN)
	switch {
	case delta > trendDelta:
		return models.TrendImproving
	case delta < -trendDelta:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// daysBetween counts whole days from a (midnight) to b (midnight). Both
// arguments are expected to be day-bucket boundaries in the same location;
// rounding absorbs DST-shortened days.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

func buildRecommendations(snapshot *models.UserStatsSnapshot, weaknesses []models.CategoryStats, trend models.Trend) []models.Recommendation {
	var recs []models.Recommendation

	for _, w := range weaknesses {
		recs = append(recs, models.Recommendation{
			Message:  fmt.Sprintf("Focus on %s exercises to close your largest gap.", w.Category),
			Priority: models.PriorityHigh,
			Category: w.Category,
		})
		break // one high-priority focus area is enough
	}

	if trend == models.TrendImproving {
		recs = append(recs, models.Recommendation{
			Message:  "You're on an upswing - attempt a harder difficulty.",
			Priority: models.PriorityMedium,
		})
	}

	if snapshot.AvgTime > slowAvgTimeSeconds {
		recs = append(recs, models.Recommendation{
			Message:  "Reviews are taking a while - practice under a timer to build speed.",
			Priority: models.PriorityMedium,
		})
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

var nextStepLadders = map[models.SkillLevel][]string{
	models.LevelBeginner: {
		"Work through easy exercises until the common issue types feel familiar.",
		"Use hints freely - they teach the patterns you haven't seen yet.",
	},
	models.LevelIntermediate: {
		"Mix in medium-difficulty exercises across several categories.",
		"Try finishing reviews without hints to test your recall.",
	},
	models.LevelAdvanced: {
		"Take on hard exercises and aim for consistent 85%+ accuracy.",
		"Review unfamiliar languages to broaden your range.",
	},
	models.LevelExpert: {
		"Chase perfect scores on hard exercises.",
		"Keep your streak alive - consistency is what separates experts.",
	},
}

func buildNextSteps(level models.SkillLevel, weaknesses []models.CategoryStats) []string {
	steps := make([]string, 0, maxNextSteps)
	steps = append(steps, nextStepLadders[level]...)
	if len(weaknesses) > 0 {
		steps = append(steps, fmt.Sprintf("Schedule extra practice in %s this week.", weaknesses[0].Category))
	}
	if len(steps) > maxNextSteps {
		steps = steps[:maxNextSteps]
	}
	return steps
}

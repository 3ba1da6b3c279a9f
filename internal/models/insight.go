package models

import "time"

// SkillLevel buckets a user's 30-day average accuracy.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

// Trend classifies the recent-vs-prior accuracy comparison.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
	TrendNewUser          Trend = "new_user"
)

// RecommendationPriority orders recommendations for display.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// Recommendation is one actionable suggestion.
type Recommendation struct {
	Message  string                 `json:"message"`
	Priority RecommendationPriority `json:"priority"`
	Category string                 `json:"category,omitempty"`
}

// InsightReport is the qualitative view over a snapshot: strengths,
// weaknesses, trend and suggested next steps.
type InsightReport struct {
	UserID          string           `json:"user_id"`
	Summary         string           `json:"summary"`
	Level           SkillLevel       `json:"level"`
	Strengths       []CategoryStats  `json:"strengths"`
	Weaknesses      []CategoryStats  `json:"weaknesses"`
	Trend           Trend            `json:"trend"`
	Recommendations []Recommendation `json:"recommendations"`
	NextSteps       []string         `json:"next_steps"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

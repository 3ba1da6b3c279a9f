package models

import "time"

// CategoryStats is the per-category slice of a snapshot.
type CategoryStats struct {
	Category    string  `json:"category"`
	Count       int     `json:"count"`
	AvgAccuracy float64 `json:"avg_accuracy"`
}

// DailyAccuracy is one day's average accuracy, used for trend detection.
type DailyAccuracy struct {
	Date        time.Time `json:"date"` // midnight, local day bucket
	Count       int       `json:"count"`
	AvgAccuracy float64   `json:"avg_accuracy"`
}

// UserStatsSnapshot is the derived statistics for one user. It is recomputed
// on every request and never persisted. A user with zero events gets a zero
// snapshot, not an error.
type UserStatsSnapshot struct {
	UserID         string  `json:"user_id"`
	TotalExercises int     `json:"total_exercises"`
	AvgAccuracy    float64 `json:"avg_accuracy"`
	AvgTime        float64 `json:"avg_time_seconds"`
	BestAccuracy   float64 `json:"best_accuracy"`
	FastestTime    float64 `json:"fastest_time_seconds"`

	PerCategory   map[string]CategoryStats `json:"per_category"`
	LanguageCount int                      `json:"language_count"`

	// CurrentStreak counts consecutive days with at least one event, walking
	// backward from today. ConsecutiveHighAccuracy scans the most recent 10
	// raw events newest-first and stops at the first accuracy below 0.9.
	CurrentStreak           int `json:"current_streak"`
	ConsecutiveHighAccuracy int `json:"consecutive_high_accuracy"`

	NightExerciseCount   int  `json:"night_exercise_count"`
	MorningExerciseCount int  `json:"morning_exercise_count"`
	HasPerfectScore      bool `json:"has_perfect_score"`

	// CompletionTimes holds the 30-day window's completion times sorted
	// ascending, so rule predicates can count fast solves without touching
	// raw events.
	CompletionTimes []float64 `json:"completion_times,omitempty"`

	// Daily is the last 14 days of daily average accuracy, oldest first.
	Daily []DailyAccuracy `json:"daily,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

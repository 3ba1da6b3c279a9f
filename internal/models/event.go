package models

import "time"

// CompletionEvent is one completed review exercise. Events are written by the
// submission handler and are immutable once stored; everything in this engine
// is derived from them.
type CompletionEvent struct {
	ID                    int64     `json:"id"`
	UserID                string    `json:"user_id"`
	ExerciseID            string    `json:"exercise_id"`
	Language              string    `json:"language"`
	Category              string    `json:"category"`
	Difficulty            string    `json:"difficulty"`
	TimeToCompleteSeconds float64   `json:"time_to_complete_seconds"`
	IssuesFound           int       `json:"issues_found"`
	IssuesCorrect         int       `json:"issues_correct"`
	HintsUsed             int       `json:"hints_used"`
	UserFeedbackRating    *int      `json:"user_feedback_rating,omitempty"` // 1-5, optional
	Accuracy              float64   `json:"accuracy"`                       // computed upstream, 0.0-1.0
	CreatedAt             time.Time `json:"created_at"`
}

// Valid reports whether the event passes basic sanity checks. Invalid events
// are skipped during aggregation, never fatal.
func (e CompletionEvent) Valid() bool {
	if e.UserID == "" {
		return false
	}
	if e.TimeToCompleteSeconds < 0 {
		return false
	}
	if e.Accuracy < 0 || e.Accuracy > 1 {
		return false
	}
	if e.IssuesCorrect < 0 || e.IssuesFound < 0 {
		return false
	}
	return true
}

// SubmissionResult is what a completed exercise submission hands back: the
// stored event ID, the refreshed snapshot, any achievements this submission
// unlocked, and the regenerated insight report.
type SubmissionResult struct {
	EventID  int64                   `json:"event_id"`
	Snapshot *UserStatsSnapshot      `json:"snapshot"`
	Unlocked []AchievementDefinition `json:"unlocked"`
	Insights *InsightReport          `json:"insights"`
}

// EventFilter narrows event store queries.
type EventFilter struct {
	UserID   string
	Since    *time.Time
	Category string
	Limit    int
}

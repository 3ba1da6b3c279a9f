package repository

import (
	"context"
	"time"

	"github.com/devflow/devflow-analytics/internal/models"
)

// EventRepository is the typed read surface over the completion-event log.
// Events are written by the submission handler; Insert exists so that seam
// (and tests) can populate the store.
type EventRepository interface {
	Insert(ctx context.Context, event models.CompletionEvent) (int64, error)
	// ListEvents returns one user's events created at or after since,
	// ordered oldest first.
	ListEvents(ctx context.Context, userID string, since time.Time) ([]models.CompletionEvent, error)
	// ListRecentEvents returns the user's most recent events regardless of
	// age, newest first, capped at limit.
	ListRecentEvents(ctx context.Context, userID string, limit int) ([]models.CompletionEvent, error)
	// ListAllEvents returns every user's events created at or after since,
	// for leaderboard computation.
	ListAllEvents(ctx context.Context, since time.Time) ([]models.CompletionEvent, error)
}

// AchievementRepository persists earned-achievement records.
type AchievementRepository interface {
	// InsertIfAbsent records the achievement for the user and reports
	// whether this call actually created the record. A false return is the
	// expected outcome for the loser of a concurrent double-award race, not
	// an error.
	InsertIfAbsent(ctx context.Context, userID, achievementID string, earnedAt time.Time) (bool, error)
	// ListEarned returns the user's records, most recent first.
	ListEarned(ctx context.Context, userID string) ([]models.AchievementRecord, error)
	// EarnedIDs returns the set of achievement IDs the user already holds.
	EarnedIDs(ctx context.Context, userID string) (map[string]bool, error)
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const eventColumns = "id, user_id, exercise_id, language, category, difficulty, " +
	"time_to_complete_seconds, issues_found, issues_correct, hints_used, " +
	"user_feedback_rating, accuracy, created_at"

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository implementation
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Insert(ctx context.Context, event models.CompletionEvent) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("inserting completion event: user_id=%s, exercise_id=%s", event.UserID, event.ExerciseID)

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args, err := sqlBuilder.
		Insert("completion_events").
		Columns("user_id", "exercise_id", "language", "category", "difficulty",
			"time_to_complete_seconds", "issues_found", "issues_correct", "hints_used",
			"user_feedback_rating", "accuracy", "created_at").
		Values(event.UserID, event.ExerciseID, event.Language, event.Category, event.Difficulty,
			event.TimeToCompleteSeconds, event.IssuesFound, event.IssuesCorrect, event.HintsUsed,
			event.UserFeedbackRating, event.Accuracy, createdAt).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert completion event: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *eventRepository) ListEvents(ctx context.Context, userID string, since time.Time) ([]models.CompletionEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("listing events: user_id=%s, since=%s", userID, since.Format(time.RFC3339))

	query, args, err := sqlBuilder.
		Select(eventColumns).
		From("completion_events").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) ListRecentEvents(ctx context.Context, userID string, limit int) ([]models.CompletionEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("listing recent events: user_id=%s, limit=%d", userID, limit)

	query, args, err := sqlBuilder.
		Select(eventColumns).
		From("completion_events").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) ListAllEvents(ctx context.Context, since time.Time) ([]models.CompletionEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")
	log.Debug("listing all events since %s", since.Format(time.RFC3339))

	query, args, err := sqlBuilder.
		Select(eventColumns).
		From("completion_events").
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]models.CompletionEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("event_repo")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.CompletionEvent
	for rows.Next() {
		var e models.CompletionEvent
		var rating sql.NullInt64
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExerciseID, &e.Language, &e.Category, &e.Difficulty,
			&e.TimeToCompleteSeconds, &e.IssuesFound, &e.IssuesCorrect, &e.HintsUsed,
			&rating, &e.Accuracy, &e.CreatedAt); err != nil {
			log.Error("failed to scan event row: %v", err)
			return nil, err
		}
		if rating.Valid {
			v := int(rating.Int64)
			e.UserFeedbackRating = &v
		}
		events = append(events, e)
	}
	log.Debug("found %d events", len(events))
	return events, rows.Err()
}

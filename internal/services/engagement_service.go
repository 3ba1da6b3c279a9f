package services

import (
	"context"

	"github.com/devflow/devflow-analytics/internal/achievements"
	apperrors "github.com/devflow/devflow-analytics/internal/errors"
	"github.com/devflow/devflow-analytics/internal/insights"
	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/repository"
	"github.com/devflow/devflow-analytics/internal/stats"
)

// EngagementService handles the submission flow and the read views derived
// from it: store the event, refresh the snapshot, run the achievement check,
// project badges and insights.
type EngagementService interface {
	SubmitEvent(ctx context.Context, event models.CompletionEvent) (*models.SubmissionResult, error)
	GetStats(ctx context.Context, userID string) (*models.UserStatsSnapshot, error)
	GetBadges(ctx context.Context, userID string) ([]models.Badge, error)
	GetInsights(ctx context.Context, userID string) (*models.InsightReport, error)
}

type engagementService struct {
	events     repository.EventRepository
	aggregator stats.Service
	engine     achievements.Engine
	generator  insights.Generator
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(events repository.EventRepository, aggregator stats.Service, engine achievements.Engine, generator insights.Generator) EngagementService {
	return &engagementService{
		events:     events,
		aggregator: aggregator,
		engine:     engine,
		generator:  generator,
	}
}

func (s *engagementService) SubmitEvent(ctx context.Context, event models.CompletionEvent) (*models.SubmissionResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting completion event: user_id=%s, exercise_id=%s", event.UserID, event.ExerciseID)

	if !event.Valid() {
		return nil, apperrors.NewValidationError("event", "user_id required, accuracy in [0,1], non-negative counts and time")
	}

	id, err := s.events.Insert(ctx, event)
	if err != nil {
		log.Error("failed to store event: %v", err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	event.ID = id

	// Aggregate never fails hard; a storage hiccup yields a zero snapshot
	// and the achievement check simply finds nothing new.
	snapshot, err := s.aggregator.Aggregate(ctx, event.UserID)
	if err != nil {
		log.Error("failed to aggregate after submission: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	unlocked, err := s.engine.Check(ctx, event.UserID, snapshot, &event)
	if err != nil {
		// The event is stored and the snapshot is valid; a failed award
		// pass must not fail the submission.
		log.Warn("achievement check failed after submission: %v", err)
		unlocked = nil
	}

	return &models.SubmissionResult{
		EventID:  id,
		Snapshot: snapshot,
		Unlocked: unlocked,
		Insights: s.generator.Generate(ctx, event.UserID, snapshot, snapshot.Daily),
	}, nil
}

func (s *engagementService) GetStats(ctx context.Context, userID string) (*models.UserStatsSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting stats: user_id=%s", userID)

	snapshot, err := s.aggregator.Aggregate(ctx, userID)
	if err != nil {
		log.Error("failed to aggregate stats: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return snapshot, nil
}

func (s *engagementService) GetBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting badges: user_id=%s", userID)

	badges, err := s.engine.UserBadges(ctx, userID)
	if err != nil {
		log.Error("failed to list badges: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return badges, nil
}

func (s *engagementService) GetInsights(ctx context.Context, userID string) (*models.InsightReport, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting insights: user_id=%s", userID)

	snapshot, err := s.aggregator.Aggregate(ctx, userID)
	if err != nil {
		log.Error("failed to aggregate for insights: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return s.generator.Generate(ctx, userID, snapshot, snapshot.Daily), nil
}

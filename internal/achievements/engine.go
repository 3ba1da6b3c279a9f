package achievements

import (
	"context"
	"time"

	apperrors "github.com/devflow/devflow-analytics/internal/errors"
	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/repository"
)

// Engine checks the catalog against snapshots and awards new achievements.
type Engine interface {
	// Check evaluates every not-yet-earned catalog entry and returns only
	// the achievements this call actually awarded. A concurrent duplicate
	// call loses the insert race and omits the achievement from its own
	// result; no error is surfaced for that.
	Check(ctx context.Context, userID string, snapshot *models.UserStatsSnapshot, current *models.CompletionEvent) ([]models.AchievementDefinition, error)
	// UserBadges returns the user's earned achievements as display badges.
	UserBadges(ctx context.Context, userID string) ([]models.Badge, error)
}

type engine struct {
	records repository.AchievementRepository
	now     func() time.Time
}

// NewEngine creates a new achievement Engine.
func NewEngine(records repository.AchievementRepository) Engine {
	return NewEngineWithClock(records, time.Now)
}

// NewEngineWithClock creates an Engine with an injected clock.
func NewEngineWithClock(records repository.AchievementRepository, now func() time.Time) Engine {
	return &engine{records: records, now: now}
}

func (e *engine) Check(ctx context.Context, userID string, snapshot *models.UserStatsSnapshot, current *models.CompletionEvent) ([]models.AchievementDefinition, error) {
	log := logger.FromContext(ctx).WithPrefix("achievements")

	earned, err := e.records.EarnedIDs(ctx, userID)
	if err != nil {
		// Advisory path: better to skip this round than to fail the
		// triggering submission.
		log.Warn("could not load earned achievements, skipping check: user_id=%s: %v", userID, err)
		return nil, nil
	}

	var unlocked []models.AchievementDefinition
	for _, def := range Catalog {
		if earned[def.ID] {
			continue
		}
		if !Satisfied(def, snapshot, current) {
			continue
		}

		inserted, err := e.records.InsertIfAbsent(ctx, userID, def.ID, e.now())
		if err != nil {
			log.Warn("award insert failed: user_id=%s, achievement_id=%s: %v", userID, def.ID, err)
			continue
		}
		if !inserted {
			// Lost a concurrent race; the winner reports it.
			log.Debug("lost award race: user_id=%s, achievement_id=%s", userID, def.ID)
			continue
		}

		log.Info("achievement unlocked: user_id=%s, achievement_id=%s", userID, def.ID)
		unlocked = append(unlocked, def)
	}
	return unlocked, nil
}

func (e *engine) UserBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	log := logger.FromContext(ctx).WithPrefix("achievements")

	records, err := e.records.ListEarned(ctx, userID)
	if err != nil {
		log.Error("failed to list earned achievements: user_id=%s: %v", userID, err)
		return nil, apperrors.NewStorageUnavailableError(err)
	}

	badges := make([]models.Badge, 0, len(records))
	for _, rec := range records {
		def, ok := CatalogByID(rec.AchievementID)
		if !ok {
			// Record for a definition no longer in the catalog; skip it
			// rather than render a hole.
			log.Warn("earned achievement missing from catalog: %s", rec.AchievementID)
			continue
		}
		badges = append(badges, models.Badge{
			AchievementID: def.ID,
			Name:          def.Name,
			Description:   def.Description,
			Type:          def.Type,
			Points:        def.Points,
			Rarity:        def.Rarity,
			EarnedAt:      rec.EarnedAt,
		})
	}
	return badges, nil
}

// Satisfied evaluates one definition's predicate against derived facts. Rules
// read the snapshot (and the triggering event for single-review speed rules),
// never raw event history.
func Satisfied(def models.AchievementDefinition, snapshot *models.UserStatsSnapshot, current *models.CompletionEvent) bool {
	if snapshot == nil {
		return false
	}
	req := def.Requirement

	switch def.Type {
	case models.AchievementMilestone:
		return snapshot.TotalExercises >= req.ExercisesCompleted

	case models.AchievementSkill:
		if req.RequirePerfect {
			return snapshot.HasPerfectScore
		}
		return snapshot.ConsecutiveHighAccuracy >= req.ConsecutiveHigh

	case models.AchievementSpeed:
		if req.MaxSeconds > 0 {
			return current != nil && current.TimeToCompleteSeconds <= req.MaxSeconds
		}
		return countUnder(snapshot.CompletionTimes, req.UnderSeconds) >= req.Count

	case models.AchievementCategory:
		cat, ok := snapshot.PerCategory[req.Category]
		if !ok {
			return false
		}
		return cat.Count >= req.Exercises && cat.AvgAccuracy >= req.Accuracy

	case models.AchievementStreak:
		return snapshot.CurrentStreak >= req.Days

	case models.AchievementSpecial:
		switch {
		case req.NightCount > 0:
			return snapshot.NightExerciseCount >= req.NightCount
		case req.MorningCount > 0:
			return snapshot.MorningExerciseCount >= req.MorningCount
		case req.LanguageCount > 0:
			return snapshot.LanguageCount >= req.LanguageCount
		}
		return false

	default:
		return false
	}
}

// countUnder counts completion times at or under the threshold. The slice is
// sorted ascending, so the scan stops at the first miss.
func countUnder(times []float64, threshold float64) int {
	n := 0
	for _, t := range times {
		if t > threshold {
			break
		}
		n++
	}
	return n
}

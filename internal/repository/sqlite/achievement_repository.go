package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/repository"
)

type achievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new AchievementRepository implementation
func NewAchievementRepository(db *sql.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

// InsertIfAbsent is the single idempotent award operation. The ON CONFLICT
// DO NOTHING form means the losing side of a concurrent race sees zero rows
// affected instead of an error.
func (r *achievementRepository) InsertIfAbsent(ctx context.Context, userID, achievementID string, earnedAt time.Time) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("awarding achievement: user_id=%s, achievement_id=%s", userID, achievementID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO achievements (user_id, achievement_id, earned_at)
VALUES (?, ?, ?)
ON CONFLICT(user_id, achievement_id) DO NOTHING
`, userID, achievementID, earnedAt)
	if err != nil {
		log.Error("failed to insert achievement record: %v", err)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		log.Debug("achievement already recorded: user_id=%s, achievement_id=%s", userID, achievementID)
		return false, nil
	}
	return true, nil
}

func (r *achievementRepository) ListEarned(ctx context.Context, userID string) ([]models.AchievementRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("listing earned achievements: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, achievement_id, earned_at
FROM achievements
WHERE user_id = ?
ORDER BY earned_at DESC, achievement_id ASC
`, userID)
	if err != nil {
		log.Error("failed to query achievement records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.AchievementRecord
	for rows.Next() {
		var rec models.AchievementRecord
		if err := rows.Scan(&rec.UserID, &rec.AchievementID, &rec.EarnedAt); err != nil {
			log.Error("failed to scan achievement row: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	log.Debug("found %d achievement records", len(records))
	return records, rows.Err()
}

func (r *achievementRepository) EarnedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT achievement_id FROM achievements WHERE user_id = ?
`, userID)
	if err != nil {
		log.Error("failed to query earned achievement ids: %v", err)
		return nil, err
	}
	defer rows.Close()

	earned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

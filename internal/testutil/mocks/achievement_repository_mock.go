package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/devflow/devflow-analytics/internal/models"
)

// MockAchievementRepository is a mock implementation of repository.AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) InsertIfAbsent(ctx context.Context, userID, achievementID string, earnedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, achievementID, earnedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) ListEarned(ctx context.Context, userID string) ([]models.AchievementRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AchievementRecord), args.Error(1)
}

func (m *MockAchievementRepository) EarnedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/devflow/devflow-analytics/internal/models"
)

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Insert(ctx context.Context, event models.CompletionEvent) (int64, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context, userID string, since time.Time) ([]models.CompletionEvent, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompletionEvent), args.Error(1)
}

func (m *MockEventRepository) ListRecentEvents(ctx context.Context, userID string, limit int) ([]models.CompletionEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompletionEvent), args.Error(1)
}

func (m *MockEventRepository) ListAllEvents(ctx context.Context, since time.Time) ([]models.CompletionEvent, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CompletionEvent), args.Error(1)
}

package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/testutil/mocks"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func testService(events []models.CompletionEvent, err error) Service {
	repo := new(mocks.MockEventRepository)
	repo.On("ListAllEvents", mock.Anything, mock.Anything).Return(events, err)
	return NewServiceWithClock(repo, Options{DefaultLimit: 10, MaxLimit: 100}, func() time.Time { return testNow })
}

func userEvents(userID string, n int, accuracy, seconds float64, category string) []models.CompletionEvent {
	events := make([]models.CompletionEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.CompletionEvent{
			UserID:                userID,
			ExerciseID:            fmt.Sprintf("ex-%d", i),
			Category:              category,
			Accuracy:              accuracy,
			TimeToCompleteSeconds: seconds,
			CreatedAt:             testNow.AddDate(0, 0, -1),
		})
	}
	return events
}

func TestOverallRanksByVolumeTimesAccuracy(t *testing.T) {
	var events []models.CompletionEvent
	events = append(events, userEvents("alice", 10, 0.80, 100, "security")...) // score 8.0
	events = append(events, userEvents("bob", 20, 0.50, 100, "security")...)   // score 10.0
	events = append(events, userEvents("carol", 5, 0.90, 100, "security")...)  // score 4.5

	entries, err := testService(events, nil).Top(context.Background(), models.ModeOverall, "", 0)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "bob", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.InDelta(t, 10.0, entries[0].Score, 1e-9)
	assert.Equal(t, "alice", entries[1].UserID)
	assert.Equal(t, "carol", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestOverallTieBrokenByUserID(t *testing.T) {
	var events []models.CompletionEvent
	events = append(events, userEvents("zoe", 10, 0.80, 100, "style")...)
	events = append(events, userEvents("amy", 10, 0.80, 100, "style")...)

	entries, err := testService(events, nil).Top(context.Background(), models.ModeOverall, "", 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "amy", entries[0].UserID)
	assert.Equal(t, "zoe", entries[1].UserID)
}

func TestSpeedRequiresMinimumSamples(t *testing.T) {
	var events []models.CompletionEvent
	events = append(events, userEvents("sprinter", 3, 0.90, 30, "style")...) // fast but only 3 events
	events = append(events, userEvents("steady", 5, 0.80, 90, "style")...)   // exactly at threshold
	events = append(events, userEvents("slow", 8, 0.70, 200, "style")...)

	entries, err := testService(events, nil).Top(context.Background(), models.ModeSpeed, "", 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "steady", entries[0].UserID)
	assert.InDelta(t, 90, entries[0].AvgTime, 1e-9)
	assert.Equal(t, "slow", entries[1].UserID)
}

func TestCategoryRanksByAccuracyThenCount(t *testing.T) {
	var events []models.CompletionEvent
	events = append(events, userEvents("alice", 4, 0.90, 100, "security")...)
	events = append(events, userEvents("bob", 8, 0.90, 100, "security")...) // same accuracy, more volume
	events = append(events, userEvents("carol", 6, 0.95, 100, "security")...)
	events = append(events, userEvents("dave", 10, 0.99, 100, "performance")...) // other category

	entries, err := testService(events, nil).Top(context.Background(), models.ModeCategory, "security", 0)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "carol", entries[0].UserID)
	assert.Equal(t, "bob", entries[1].UserID)
	assert.Equal(t, "alice", entries[2].UserID)
}

func TestCategoryModeRequiresCategory(t *testing.T) {
	_, err := testService(nil, nil).Top(context.Background(), models.ModeCategory, "", 0)
	assert.Error(t, err)
}

func TestUnknownModeRejected(t *testing.T) {
	_, err := testService(nil, nil).Top(context.Background(), models.LeaderboardMode("bogus"), "", 0)
	assert.Error(t, err)
}

func TestLimitDefaultsAndClamps(t *testing.T) {
	var events []models.CompletionEvent
	for i := 0; i < 15; i++ {
		events = append(events, userEvents(fmt.Sprintf("user-%02d", i), 2, 0.80, 100, "style")...)
	}
	svc := testService(events, nil)

	entries, err := svc.Top(context.Background(), models.ModeOverall, "", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 10, "zero limit falls back to default")

	entries, err = svc.Top(context.Background(), models.ModeOverall, "", 1000)
	require.NoError(t, err)
	assert.Len(t, entries, 15, "clamped limit still returns all qualifying users")
}

func TestStorageFailureDegradesToEmptyBoard(t *testing.T) {
	entries, err := testService(nil, sql.ErrConnDone).Top(context.Background(), models.ModeOverall, "", 0)

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMalformedEventsSkipped(t *testing.T) {
	events := userEvents("alice", 5, 0.80, 100, "style")
	events = append(events, models.CompletionEvent{UserID: "", Accuracy: 0.9, CreatedAt: testNow})
	events = append(events, models.CompletionEvent{UserID: "mallory", Accuracy: 7.5, CreatedAt: testNow})

	entries, err := testService(events, nil).Top(context.Background(), models.ModeOverall, "", 0)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].UserID)
}

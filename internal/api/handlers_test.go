package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/devflow/devflow-analytics/internal/achievements"
	"github.com/devflow/devflow-analytics/internal/insights"
	"github.com/devflow/devflow-analytics/internal/leaderboard"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/monitor"
	"github.com/devflow/devflow-analytics/internal/repository/sqlite"
	"github.com/devflow/devflow-analytics/internal/services"
	"github.com/devflow/devflow-analytics/internal/stats"
	"github.com/devflow/devflow-analytics/internal/testutil"
)

type HandlersSuite struct {
	suite.Suite
	server *httptest.Server
}

func (s *HandlersSuite) SetupTest() {
	db := testutil.NewTestDB(s.T())
	events := sqlite.NewEventRepository(db)
	records := sqlite.NewAchievementRepository(db)

	aggregator := stats.NewService(events)
	engine := achievements.NewEngine(records)
	generator := insights.NewGenerator()

	srv := &Server{
		Engagement:  services.NewEngagementService(events, aggregator, engine, generator),
		Leaderboard: leaderboard.NewService(events, leaderboard.Options{DefaultLimit: 10, MaxLimit: 100}),
		Monitor:     monitor.New(monitor.Thresholds{MaxLatencyMS: 5000, MinAccuracyPct: 70, MinSatisfaction: 3.5}),
		DB:          db,
	}
	s.server = httptest.NewServer(srv.Routes())
	s.T().Cleanup(func() {
		s.server.Close()
		testutil.MustClose(s.T(), db)
	})
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) postJSON(path string, body any) *http.Response {
	buf, err := json.Marshal(body)
	require.NoError(s.T(), err)
	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(s.T(), err)
	return resp
}

func (s *HandlersSuite) getJSON(path string, out any) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	require.NoError(s.T(), err)
	if out != nil {
		require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(out))
	}
	resp.Body.Close()
	return resp
}

func checkinBody(accuracy, seconds float64) map[string]any {
	return map[string]any{
		"exercise_id":              "ex-1",
		"language":                 "go",
		"category":                 "security",
		"difficulty":               "medium",
		"time_to_complete_seconds": seconds,
		"issues_found":             3,
		"issues_correct":           3,
		"accuracy":                 accuracy,
		"created_at":               time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *HandlersSuite) TestCheckinReturnsSnapshotAndUnlocks() {
	resp := s.postJSON("/api/events/alice/checkin", checkinBody(0.9, 120))
	defer resp.Body.Close()

	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var result models.SubmissionResult
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&result))
	require.NotNil(s.T(), result.Snapshot)
	assert.Equal(s.T(), 1, result.Snapshot.TotalExercises)

	// the very first completion unlocks the first milestone
	ids := make([]string, 0, len(result.Unlocked))
	for _, def := range result.Unlocked {
		ids = append(ids, def.ID)
	}
	assert.Contains(s.T(), ids, "first_steps")

	require.NotNil(s.T(), result.Insights)
	assert.Equal(s.T(), "alice", result.Insights.UserID)
}

func (s *HandlersSuite) TestCheckinRejectsBadBody() {
	resp, err := http.Post(s.server.URL+"/api/events/alice/checkin", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersSuite) TestCheckinRejectsInvalidEvent() {
	resp := s.postJSON("/api/events/alice/checkin", checkinBody(4.2, 120))
	defer resp.Body.Close()

	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(s.T(), "VALIDATION_ERROR", body["error"]["code"])
}

func (s *HandlersSuite) TestUserStatsForUnknownUserIsZeroSnapshot() {
	var snapshot models.UserStatsSnapshot
	resp := s.getJSON("/api/users/nobody/stats", &snapshot)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), "nobody", snapshot.UserID)
	assert.Zero(s.T(), snapshot.TotalExercises)
}

func (s *HandlersSuite) TestUserAchievementsEmptyList() {
	var body struct {
		UserID string         `json:"user_id"`
		Badges []models.Badge `json:"badges"`
	}
	resp := s.getJSON("/api/users/nobody/achievements", &body)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.NotNil(s.T(), body.Badges)
	assert.Empty(s.T(), body.Badges)
}

func (s *HandlersSuite) TestUserAchievementsAfterCheckin() {
	s.postJSON("/api/events/alice/checkin", checkinBody(0.9, 120)).Body.Close()

	var body struct {
		Badges []models.Badge `json:"badges"`
	}
	resp := s.getJSON("/api/users/alice/achievements", &body)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	require.NotEmpty(s.T(), body.Badges)
}

func (s *HandlersSuite) TestUserInsights() {
	s.postJSON("/api/events/alice/checkin", checkinBody(0.95, 100)).Body.Close()

	var report models.InsightReport
	resp := s.getJSON("/api/users/alice/insights", &report)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), "alice", report.UserID)
	assert.Equal(s.T(), models.LevelExpert, report.Level)
}

func (s *HandlersSuite) TestLeaderboardDefaultsToOverall() {
	for i := 0; i < 3; i++ {
		s.postJSON("/api/events/alice/checkin", checkinBody(0.9, 100)).Body.Close()
	}
	s.postJSON("/api/events/bob/checkin", checkinBody(0.5, 100)).Body.Close()

	var body struct {
		Mode    models.LeaderboardMode    `json:"mode"`
		Entries []models.LeaderboardEntry `json:"entries"`
	}
	resp := s.getJSON("/api/leaderboard", &body)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), models.ModeOverall, body.Mode)
	require.Len(s.T(), body.Entries, 2)
	assert.Equal(s.T(), "alice", body.Entries[0].UserID)
}

func (s *HandlersSuite) TestLeaderboardRejectsBadLimit() {
	resp := s.getJSON("/api/leaderboard?limit=abc", nil)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersSuite) TestLeaderboardCategoryModeNeedsCategory() {
	resp := s.getJSON("/api/leaderboard?mode=category", nil)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersSuite) TestMetricsRoundTrip() {
	start := time.Now().Add(-2 * time.Second)
	resp := s.postJSON("/api/metrics/latency", map[string]any{
		"started_at":   start.Format(time.RFC3339Nano),
		"completed_at": start.Add(1200 * time.Millisecond).Format(time.RFC3339Nano),
	})
	resp.Body.Close()
	require.Equal(s.T(), http.StatusNoContent, resp.StatusCode)

	resp = s.postJSON("/api/metrics/satisfaction", map[string]any{"rating": 5})
	resp.Body.Close()
	require.Equal(s.T(), http.StatusNoContent, resp.StatusCode)

	resp = s.postJSON("/api/metrics/accuracy", map[string]any{
		"found":    []map[string]any{{"line": 10, "type": "bug"}},
		"expected": []map[string]any{{"line": 11, "type": "bug"}},
	})
	resp.Body.Close()
	require.Equal(s.T(), http.StatusNoContent, resp.StatusCode)

	var report models.PerformanceReport
	getResp := s.getJSON("/api/metrics/report", &report)
	assert.Equal(s.T(), http.StatusOK, getResp.StatusCode)
	assert.Equal(s.T(), 1, report.LatencySamples)
	assert.InDelta(s.T(), 1200, report.AvgLatencyMS, 50)
	assert.InDelta(s.T(), 100, report.AvgAccuracy, 1e-9)
	assert.False(s.T(), report.ShouldRetrain)
}

func (s *HandlersSuite) TestSatisfactionRejectsOutOfRange() {
	resp := s.postJSON("/api/metrics/satisfaction", map[string]any{"rating": 9})
	resp.Body.Close()
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersSuite) TestShouldRetrainEndpoint() {
	start := time.Now()
	resp := s.postJSON("/api/metrics/latency", map[string]any{
		"started_at":   start.Format(time.RFC3339Nano),
		"completed_at": start.Add(9 * time.Second).Format(time.RFC3339Nano),
	})
	resp.Body.Close()

	var body map[string]bool
	getResp := s.getJSON("/api/metrics/should-retrain", &body)
	assert.Equal(s.T(), http.StatusOK, getResp.StatusCode)
	assert.True(s.T(), body["should_retrain"])
}

func (s *HandlersSuite) TestHealthAndReady() {
	resp := s.getJSON("/healthz", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.getJSON("/readyz", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
}

func (s *HandlersSuite) TestRequestIDHeader() {
	resp := s.getJSON("/healthz", nil)
	assert.NotEmpty(s.T(), resp.Header.Get("X-Request-ID"))
}

func (s *HandlersSuite) TestCheckinBodyUserIgnoredInFavorOfPath() {
	body := checkinBody(0.9, 100)
	body["user_id"] = "mallory"
	resp := s.postJSON("/api/events/alice/checkin", body)
	defer resp.Body.Close()

	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var result models.SubmissionResult
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(s.T(), "alice", result.Snapshot.UserID)
}

func (s *HandlersSuite) TestLeaderboardSpeedExcludesThinUsers() {
	for i := 0; i < 5; i++ {
		s.postJSON("/api/events/fast/checkin", checkinBody(0.8, 60)).Body.Close()
	}
	s.postJSON("/api/events/lucky/checkin", checkinBody(0.8, 10)).Body.Close()

	var body struct {
		Entries []models.LeaderboardEntry `json:"entries"`
	}
	resp := s.getJSON("/api/leaderboard?mode=speed", &body)

	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	require.Len(s.T(), body.Entries, 1)
	assert.Equal(s.T(), "fast", body.Entries[0].UserID)
}

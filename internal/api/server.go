package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/devflow/devflow-analytics/internal/leaderboard"
	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/monitor"
	"github.com/devflow/devflow-analytics/internal/services"
)

// Server holds the HTTP surface's dependencies.
type Server struct {
	Engagement  services.EngagementService
	Leaderboard leaderboard.Service
	Monitor     *monitor.Monitor

	// DB is only used by the readiness probe.
	DB *sql.DB
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

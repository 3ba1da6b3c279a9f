package api

import (
	"net/http"
	"strconv"

	"github.com/devflow/devflow-analytics/internal/errors"
	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	mode := models.LeaderboardMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = models.ModeOverall
	}
	category := r.URL.Query().Get("category")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	log.Debug("leaderboard query: mode=%s, category=%s, limit=%d", mode, category, limit)

	entries, err := s.Leaderboard.Top(r.Context(), mode, category, limit)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"mode":    mode,
		"entries": entries,
	})
}

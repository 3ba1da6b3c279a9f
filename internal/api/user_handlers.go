package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devflow/devflow-analytics/internal/errors"
	"github.com/devflow/devflow-analytics/internal/models"
)

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		handleError(w, r, errors.NewValidationError("userID", "required"))
		return
	}

	snapshot, err := s.Engagement.GetStats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, snapshot)
}

func (s *Server) handleUserAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		handleError(w, r, errors.NewValidationError("userID", "required"))
		return
	}

	badges, err := s.Engagement.GetBadges(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"user_id": userID,
		"badges":  badges,
	})
}

func (s *Server) handleUserInsights(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		handleError(w, r, errors.NewValidationError("userID", "required"))
		return
	}

	report, err := s.Engagement.GetInsights(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

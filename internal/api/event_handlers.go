package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devflow/devflow-analytics/internal/errors"
	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
)

// handleCheckin records a completed exercise and returns the refreshed
// snapshot plus any achievements the submission unlocked.
func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		handleError(w, r, errors.NewValidationError("userID", "required"))
		return
	}

	var event models.CompletionEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Warn("invalid checkin body: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	// The path wins over whatever the body claims.
	event.UserID = userID

	result, err := s.Engagement.SubmitEvent(r.Context(), event)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("checkin recorded: user_id=%s, event_id=%d, unlocked=%d", userID, result.EventID, len(result.Unlocked))
	s.writeJSON(w, r, http.StatusCreated, result)
}

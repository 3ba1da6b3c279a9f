package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/devflow/devflow-analytics/internal/errors"
	"github.com/devflow/devflow-analytics/internal/review"
)

type latencyRequest struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

func (s *Server) handleTrackLatency(w http.ResponseWriter, r *http.Request) {
	var req latencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.StartedAt.IsZero() || req.CompletedAt.IsZero() {
		handleError(w, r, errors.NewValidationError("started_at/completed_at", "both timestamps required"))
		return
	}
	if req.CompletedAt.Before(req.StartedAt) {
		handleError(w, r, errors.NewValidationError("completed_at", "must not precede started_at"))
		return
	}

	s.Monitor.TrackResponseTime(req.StartedAt, req.CompletedAt)
	w.WriteHeader(http.StatusNoContent)
}

type accuracyRequest struct {
	Found    []review.Issue `json:"found"`
	Expected []review.Issue `json:"expected"`
}

func (s *Server) handleTrackAccuracy(w http.ResponseWriter, r *http.Request) {
	var req accuracyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	s.Monitor.TrackAccuracy(req.Found, req.Expected)
	w.WriteHeader(http.StatusNoContent)
}

type satisfactionRequest struct {
	Rating int `json:"rating"`
}

func (s *Server) handleTrackSatisfaction(w http.ResponseWriter, r *http.Request) {
	var req satisfactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		handleError(w, r, errors.NewValidationError("rating", "must be between 1 and 5"))
		return
	}

	s.Monitor.TrackUserSatisfaction(req.Rating)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMetricsReport(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.Monitor.Report(r.Context()))
}

func (s *Server) handleShouldRetrain(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]bool{
		"should_retrain": s.Monitor.ShouldRetrain(r.Context()),
	})
}

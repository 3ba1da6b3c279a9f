package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/events/{userID}/checkin", s.handleCheckin)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/stats", s.handleUserStats)
			r.Get("/achievements", s.handleUserAchievements)
			r.Get("/insights", s.handleUserInsights)
		})

		r.Get("/leaderboard", s.handleLeaderboard)

		r.Route("/metrics", func(r chi.Router) {
			r.Post("/latency", s.handleTrackLatency)
			r.Post("/accuracy", s.handleTrackAccuracy)
			r.Post("/satisfaction", s.handleTrackSatisfaction)
			r.Get("/report", s.handleMetricsReport)
			r.Get("/should-retrain", s.handleShouldRetrain)
		})
	})

	return r
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devflow/devflow-analytics/internal/achievements"
	"github.com/devflow/devflow-analytics/internal/api"
	"github.com/devflow/devflow-analytics/internal/config"
	"github.com/devflow/devflow-analytics/internal/db"
	"github.com/devflow/devflow-analytics/internal/insights"
	"github.com/devflow/devflow-analytics/internal/leaderboard"
	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/monitor"
	"github.com/devflow/devflow-analytics/internal/repository/sqlite"
	"github.com/devflow/devflow-analytics/internal/services"
	"github.com/devflow/devflow-analytics/internal/stats"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("DevFlow Analytics Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("leaderboard_default_limit=%d", cfg.LeaderboardDefaultLimit)
	log.Debug("leaderboard_max_limit=%d", cfg.LeaderboardMaxLimit)
	log.Debug("retrain_max_latency_ms=%.0f", cfg.RetrainMaxLatencyMS)
	log.Debug("retrain_min_accuracy_pct=%.0f", cfg.RetrainMinAccuracyPct)
	log.Debug("retrain_min_satisfaction=%.1f", cfg.RetrainMinSatisfaction)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Wire repositories and services
	events := sqlite.NewEventRepository(database.DB)
	records := sqlite.NewAchievementRepository(database.DB)

	aggregator := stats.NewService(events)
	engine := achievements.NewEngine(records)
	generator := insights.NewGenerator()
	engagement := services.NewEngagementService(events, aggregator, engine, generator)

	boards := leaderboard.NewService(events, leaderboard.Options{
		DefaultLimit: cfg.LeaderboardDefaultLimit,
		MaxLimit:     cfg.LeaderboardMaxLimit,
	})

	perfMonitor := monitor.New(monitor.Thresholds{
		MaxLatencyMS:    cfg.RetrainMaxLatencyMS,
		MinAccuracyPct:  cfg.RetrainMinAccuracyPct,
		MinSatisfaction: cfg.RetrainMinSatisfaction,
	})

	srv := &api.Server{
		Engagement:  engagement,
		Leaderboard: boards,
		Monitor:     perfMonitor,
		DB:          database.DB,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("DevFlow Analytics Server Stopped")
	log.Info("===========================================")
}

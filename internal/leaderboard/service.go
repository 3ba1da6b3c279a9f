// Package leaderboard ranks users over the rolling 30-day event window.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/repository"
)

const (
	// WindowDays is the rolling window leaderboards are computed over.
	WindowDays = 30

	// SpeedMinSamples is the minimum event count before a user appears on
	// the speed board. A single lucky fast solve is not a ranking.
	SpeedMinSamples = 5
)

// Options bound the size of a leaderboard query.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// Service computes leaderboards on demand. Rankings are never persisted.
type Service interface {
	Top(ctx context.Context, mode models.LeaderboardMode, category string, limit int) ([]models.LeaderboardEntry, error)
}

type service struct {
	events repository.EventRepository
	opts   Options
	now    func() time.Time
}

// NewService creates a leaderboard Service.
func NewService(events repository.EventRepository, opts Options) Service {
	return NewServiceWithClock(events, opts, time.Now)
}

// NewServiceWithClock creates a Service with an injected clock.
func NewServiceWithClock(events repository.EventRepository, opts Options, now func() time.Time) Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	return &service{events: events, opts: opts, now: now}
}

// userAgg is one user's accumulated window stats.
type userAgg struct {
	userID    string
	count     int
	sumAcc    float64
	sumTime   float64
	catCount  int
	catSumAcc float64
}

func (s *service) Top(ctx context.Context, mode models.LeaderboardMode, category string, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")

	switch mode {
	case models.ModeOverall, models.ModeSpeed:
	case models.ModeCategory:
		if category == "" {
			return nil, fmt.Errorf("category mode requires a category")
		}
	default:
		return nil, fmt.Errorf("unknown leaderboard mode %q", mode)
	}

	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}

	since := s.now().AddDate(0, 0, -WindowDays)
	events, err := s.events.ListAllEvents(ctx, since)
	if err != nil {
		log.Error("listing window events: %v", err)
		// Degrade to an empty board rather than failing the request.
		return []models.LeaderboardEntry{}, nil
	}

	aggs := map[string]*userAgg{}
	for _, ev := range events {
		if !ev.Valid() {
			log.Warn("skipping malformed event id=%d user=%q", ev.ID, ev.UserID)
			continue
		}
		a := aggs[ev.UserID]
		if a == nil {
			a = &userAgg{userID: ev.UserID}
			aggs[ev.UserID] = a
		}
		a.count++
		a.sumAcc += ev.Accuracy
		a.sumTime += ev.TimeToCompleteSeconds
		if ev.Category == category {
			a.catCount++
			a.catSumAcc += ev.Accuracy
		}
	}

	entries := rank(mode, aggs)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func rank(mode models.LeaderboardMode, aggs map[string]*userAgg) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(aggs))
	for _, a := range aggs {
		e, ok := entry(mode, a)
		if ok {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		ei, ej := entries[i], entries[j]
		switch mode {
		case models.ModeSpeed:
			if ei.AvgTime != ej.AvgTime {
				return ei.AvgTime < ej.AvgTime
			}
		case models.ModeCategory:
			if ei.AvgAccuracy != ej.AvgAccuracy {
				return ei.AvgAccuracy > ej.AvgAccuracy
			}
			if ei.SampleCount != ej.SampleCount {
				return ei.SampleCount > ej.SampleCount
			}
		default:
			if ei.Score != ej.Score {
				return ei.Score > ej.Score
			}
		}
		return ei.UserID < ej.UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// entry projects one user's aggregate into a board entry, or reports that the
// user does not qualify for the mode.
func entry(mode models.LeaderboardMode, a *userAgg) (models.LeaderboardEntry, bool) {
	switch mode {
	case models.ModeSpeed:
		if a.count < SpeedMinSamples {
			return models.LeaderboardEntry{}, false
		}
		return models.LeaderboardEntry{
			UserID:      a.userID,
			AvgTime:     a.sumTime / float64(a.count),
			AvgAccuracy: a.sumAcc / float64(a.count),
			SampleCount: a.count,
		}, true
	case models.ModeCategory:
		if a.catCount == 0 {
			return models.LeaderboardEntry{}, false
		}
		return models.LeaderboardEntry{
			UserID:      a.userID,
			AvgAccuracy: a.catSumAcc / float64(a.catCount),
			AvgTime:     a.sumTime / float64(a.count),
			SampleCount: a.catCount,
		}, true
	default: // overall: volume weighted by quality
		avgAcc := a.sumAcc / float64(a.count)
		return models.LeaderboardEntry{
			UserID:      a.userID,
			Score:       float64(a.count) * avgAcc,
			AvgAccuracy: avgAcc,
			AvgTime:     a.sumTime / float64(a.count),
			SampleCount: a.count,
		}, true
	}
}

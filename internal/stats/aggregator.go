// Package stats turns a user's completion-event history into a derived
// statistics snapshot. Snapshots are recomputed per call and never persisted.
package stats

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devflow/devflow-analytics/internal/logger"
	"github.com/devflow/devflow-analytics/internal/models"
	"github.com/devflow/devflow-analytics/internal/repository"
)

const (
	// WindowDays is the trailing window used by the category, language and
	// basic-average facets.
	WindowDays = 30
	// TrendDays is the span of the daily-accuracy series handed to the
	// insight generator.
	TrendDays = 14
	// RecentEventLimit caps the consecutive-high-accuracy scan; that facet
	// deliberately ignores dates and looks only at the latest raw events.
	RecentEventLimit = 10
	// HighAccuracyThreshold is the per-event accuracy a review needs to
	// extend the consecutive-high-accuracy run.
	HighAccuracyThreshold = 0.9

	nightStartHour = 22
	nightEndHour   = 6
	morningStart   = 5
	morningEnd     = 9
)

// Service computes user statistics snapshots.
type Service interface {
	Aggregate(ctx context.Context, userID string) (*models.UserStatsSnapshot, error)
}

type service struct {
	events repository.EventRepository
	now    func() time.Time
}

// NewService creates a new aggregation Service.
func NewService(events repository.EventRepository) Service {
	return NewServiceWithClock(events, time.Now)
}

// NewServiceWithClock creates a Service with an injected clock, so streak and
// window behavior is deterministic in tests.
func NewServiceWithClock(events repository.EventRepository, now func() time.Time) Service {
	return &service{events: events, now: now}
}

// Aggregate reads the user's history and computes every snapshot facet. The
// four windowed facet computations are independent and run concurrently; the
// merge is associative, so completion order does not matter. A user with no
// events gets a zeroed snapshot, and a storage failure degrades to the same
// zeroed snapshot rather than propagating.
func (s *service) Aggregate(ctx context.Context, userID string) (*models.UserStatsSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("stats")
	now := s.now()

	snapshot := &models.UserStatsSnapshot{
		UserID:      userID,
		PerCategory: map[string]models.CategoryStats{},
		GeneratedAt: now,
	}

	since := now.AddDate(0, 0, -WindowDays)
	windowed, err := s.events.ListEvents(ctx, userID, since)
	if err != nil {
		log.Warn("event store unavailable, returning zeroed snapshot: user_id=%s: %v", userID, err)
		return snapshot, nil
	}
	windowed = dropMalformed(log, windowed)

	recent, err := s.events.ListRecentEvents(ctx, userID, RecentEventLimit)
	if err != nil {
		log.Warn("recent-event read failed, skipping high-accuracy facet: user_id=%s: %v", userID, err)
		recent = nil
	}
	recent = dropMalformed(log, recent)

	var (
		basic   basicFacet
		byCat   map[string]models.CategoryStats
		langs   int
		recency recencyFacet
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		basic = computeBasic(windowed)
		return nil
	})
	g.Go(func() error {
		byCat = computeCategories(windowed)
		return nil
	})
	g.Go(func() error {
		langs = computeLanguageCount(windowed)
		return nil
	})
	g.Go(func() error {
		recency = computeRecency(windowed, now)
		return nil
	})
	// The facet funcs never fail; Wait only synchronizes the merge.
	_ = g.Wait()

	snapshot.TotalExercises = basic.total
	snapshot.AvgAccuracy = basic.avgAccuracy
	snapshot.AvgTime = basic.avgTime
	snapshot.BestAccuracy = basic.bestAccuracy
	snapshot.FastestTime = basic.fastestTime
	snapshot.HasPerfectScore = basic.hasPerfect
	snapshot.CompletionTimes = basic.completionTimes
	snapshot.PerCategory = byCat
	snapshot.LanguageCount = langs
	snapshot.CurrentStreak = recency.streak
	snapshot.NightExerciseCount = recency.nightCount
	snapshot.MorningExerciseCount = recency.morningCount
	snapshot.Daily = recency.daily
	snapshot.ConsecutiveHighAccuracy = consecutiveHighAccuracy(recent)

	log.Debug("aggregated snapshot: user_id=%s, total=%d, streak=%d",
		userID, snapshot.TotalExercises, snapshot.CurrentStreak)
	return snapshot, nil
}

func dropMalformed(log *logger.Logger, events []models.CompletionEvent) []models.CompletionEvent {
	valid := events[:0]
	for _, e := range events {
		if !e.Valid() {
			log.Warn("skipping malformed event: id=%d, user_id=%q", e.ID, e.UserID)
			continue
		}
		valid = append(valid, e)
	}
	return valid
}

type basicFacet struct {
	total           int
	avgAccuracy     float64
	avgTime         float64
	bestAccuracy    float64
	fastestTime     float64
	hasPerfect      bool
	completionTimes []float64
}

func computeBasic(events []models.CompletionEvent) basicFacet {
	var f basicFacet
	if len(events) == 0 {
		return f
	}

	var sumAccuracy, sumTime float64
	f.fastestTime = events[0].TimeToCompleteSeconds
	f.completionTimes = make([]float64, 0, len(events))
	for _, e := range events {
		sumAccuracy += e.Accuracy
		sumTime += e.TimeToCompleteSeconds
		if e.Accuracy > f.bestAccuracy {
			f.bestAccuracy = e.Accuracy
		}
		if e.TimeToCompleteSeconds < f.fastestTime {
			f.fastestTime = e.TimeToCompleteSeconds
		}
		f.completionTimes = append(f.completionTimes, e.TimeToCompleteSeconds)
	}
	f.total = len(events)
	f.avgAccuracy = sumAccuracy / float64(len(events))
	f.avgTime = sumTime / float64(len(events))
	f.hasPerfect = f.bestAccuracy == 1.0
	sort.Float64s(f.completionTimes)
	return f
}

func computeCategories(events []models.CompletionEvent) map[string]models.CategoryStats {
	type acc struct {
		count int
		sum   float64
	}
	byCat := map[string]acc{}
	for _, e := range events {
		if e.Category == "" {
			continue
		}
		a := byCat[e.Category]
		a.count++
		a.sum += e.Accuracy
		byCat[e.Category] = a
	}

	out := make(map[string]models.CategoryStats, len(byCat))
	for cat, a := range byCat {
		out[cat] = models.CategoryStats{
			Category:    cat,
			Count:       a.count,
			AvgAccuracy: a.sum / float64(a.count),
		}
	}
	return out
}

func computeLanguageCount(events []models.CompletionEvent) int {
	langs := map[string]struct{}{}
	for _, e := range events {
		if e.Language == "" {
			continue
		}
		langs[e.Language] = struct{}{}
	}
	return len(langs)
}

type recencyFacet struct {
	streak       int
	nightCount   int
	morningCount int
	daily        []models.DailyAccuracy
}

// computeRecency buckets the windowed events by local day. The streak walks
// backward from today and stops at the first empty day, including today.
func computeRecency(events []models.CompletionEvent, now time.Time) recencyFacet {
	type bucket struct {
		count int
		sum   float64
	}

	loc := now.Location()
	days := map[time.Time]*bucket{}
	var f recencyFacet

	for _, e := range events {
		created := e.CreatedAt.In(loc)
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, loc)
		b := days[day]
		if b == nil {
			b = &bucket{}
			days[day] = b
		}
		b.count++
		b.sum += e.Accuracy

		hour := created.Hour()
		if hour >= nightStartHour || hour <= nightEndHour {
			f.nightCount++
		}
		if hour >= morningStart && hour <= morningEnd {
			f.morningCount++
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	for i := 0; ; i++ {
		if _, ok := days[today.AddDate(0, 0, -i)]; !ok {
			break
		}
		f.streak++
	}

	for i := TrendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		b, ok := days[day]
		if !ok {
			continue
		}
		f.daily = append(f.daily, models.DailyAccuracy{
			Date:        day,
			Count:       b.count,
			AvgAccuracy: b.sum / float64(b.count),
		})
	}
	return f
}

// consecutiveHighAccuracy counts the run of >= HighAccuracyThreshold events
// scanning newest first, stopping at the first miss. The most recent event
// failing the threshold makes the whole run zero.
func consecutiveHighAccuracy(recent []models.CompletionEvent) int {
	run := 0
	for _, e := range recent {
		if e.Accuracy < HighAccuracyThreshold {
			break
		}
		run++
	}
	return run
}

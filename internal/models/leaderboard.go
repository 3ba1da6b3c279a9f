package models

// LeaderboardMode selects the ranking strategy.
type LeaderboardMode string

const (
	ModeOverall  LeaderboardMode = "overall"
	ModeSpeed    LeaderboardMode = "speed"
	ModeCategory LeaderboardMode = "category"
)

// LeaderboardEntry is one ranked row, computed fresh per query and never
// persisted.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	Score       float64 `json:"score,omitempty"`        // overall: count * avg accuracy
	AvgTime     float64 `json:"avg_time,omitempty"`     // speed mode, seconds
	AvgAccuracy float64 `json:"avg_accuracy,omitempty"` // category mode
	SampleCount int     `json:"sample_count"`
}

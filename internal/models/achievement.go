package models

import "time"

// AchievementType is the category of predicate an achievement uses.
type AchievementType string

const (
	AchievementMilestone AchievementType = "milestone"
	AchievementSkill     AchievementType = "skill"
	AchievementSpeed     AchievementType = "speed"
	AchievementCategory  AchievementType = "category"
	AchievementStreak    AchievementType = "streak"
	AchievementSpecial   AchievementType = "special"
)

// Rarity of an achievement, for display weighting.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Requirement is the typed parameter set of an achievement rule. Only the
// fields relevant to the definition's type are set; the rule set stays plain
// data so it can be exercised by table-driven tests.
type Requirement struct {
	// milestone
	ExercisesCompleted int `json:"exercises_completed,omitempty"`

	// skill: either a run of consecutive high-accuracy reviews or any
	// perfect score qualifies.
	ConsecutiveHigh int  `json:"consecutive_high,omitempty"`
	RequirePerfect  bool `json:"require_perfect,omitempty"`

	// speed: MaxSeconds checks the triggering event, UnderSeconds/Count
	// checks the historical time distribution.
	MaxSeconds   float64 `json:"max_seconds,omitempty"`
	UnderSeconds float64 `json:"under_seconds,omitempty"`
	Count        int     `json:"count,omitempty"`

	// category
	Category  string  `json:"category,omitempty"`
	Exercises int     `json:"exercises,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`

	// streak
	Days int `json:"days,omitempty"`

	// special
	NightCount    int `json:"night_count,omitempty"`
	MorningCount  int `json:"morning_count,omitempty"`
	LanguageCount int `json:"language_count,omitempty"`
}

// AchievementDefinition is one entry of the static catalog. The catalog is
// loaded once at startup and never mutated.
type AchievementDefinition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        AchievementType `json:"type"`
	Requirement Requirement     `json:"requirement"`
	Points      int             `json:"points"`
	Rarity      Rarity          `json:"rarity"`
}

// AchievementRecord is the persisted fact that a user earned an achievement.
// (user_id, achievement_id) is unique; records are created once and never
// updated or deleted.
type AchievementRecord struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// Badge is the denormalized display projection of an earned achievement.
type Badge struct {
	AchievementID string          `json:"achievement_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Type          AchievementType `json:"type"`
	Points        int             `json:"points"`
	Rarity        Rarity          `json:"rarity"`
	EarnedAt      time.Time       `json:"earned_at"`
}

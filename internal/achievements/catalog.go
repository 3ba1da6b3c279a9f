// Package achievements evaluates the static achievement catalog against a
// user's statistics snapshot and awards idempotently.
package achievements

import "github.com/devflow/devflow-analytics/internal/models"

// Catalog is the process-wide achievement table. It is built once at package
// load and must never be mutated at runtime; every rule is plain data so the
// whole set stays table-testable.
var Catalog = []models.AchievementDefinition{
	// Milestones
	{
		ID:          "first_steps",
		Name:        "First Steps",
		Description: "Complete your first review exercise",
		Type:        models.AchievementMilestone,
		Requirement: models.Requirement{ExercisesCompleted: 1},
		Points:      10,
		Rarity:      models.RarityCommon,
	},
	{
		ID:          "getting_serious",
		Name:        "Getting Serious",
		Description: "Complete 10 review exercises",
		Type:        models.AchievementMilestone,
		Requirement: models.Requirement{ExercisesCompleted: 10},
		Points:      25,
		Rarity:      models.RarityCommon,
	},
	{
		ID:          "half_century",
		Name:        "Half Century",
		Description: "Complete 50 review exercises",
		Type:        models.AchievementMilestone,
		Requirement: models.Requirement{ExercisesCompleted: 50},
		Points:      100,
		Rarity:      models.RarityUncommon,
	},
	{
		ID:          "centurion",
		Name:        "Centurion",
		Description: "Complete 100 review exercises",
		Type:        models.AchievementMilestone,
		Requirement: models.Requirement{ExercisesCompleted: 100},
		Points:      250,
		Rarity:      models.RarityRare,
	},

	// Skill
	{
		ID:          "sharp_eye",
		Name:        "Sharp Eye",
		Description: "Score 90%+ on five reviews in a row",
		Type:        models.AchievementSkill,
		Requirement: models.Requirement{ConsecutiveHigh: 5},
		Points:      75,
		Rarity:      models.RarityUncommon,
	},
	{
		ID:          "flawless",
		Name:        "Flawless",
		Description: "Find every issue in an exercise",
		Type:        models.AchievementSkill,
		Requirement: models.Requirement{RequirePerfect: true},
		Points:      50,
		Rarity:      models.RarityUncommon,
	},

	// Speed
	{
		ID:          "quick_draw",
		Name:        "Quick Draw",
		Description: "Finish a review in under a minute",
		Type:        models.AchievementSpeed,
		Requirement: models.Requirement{MaxSeconds: 60},
		Points:      50,
		Rarity:      models.RarityUncommon,
	},
	{
		ID:          "rapid_reviewer",
		Name:        "Rapid Reviewer",
		Description: "Finish 10 reviews in under two minutes each",
		Type:        models.AchievementSpeed,
		Requirement: models.Requirement{UnderSeconds: 120, Count: 10},
		Points:      100,
		Rarity:      models.RarityRare,
	},

	// Category
	{
		ID:          "security_specialist",
		Name:        "Security Specialist",
		Description: "Average 80%+ over 10 security reviews",
		Type:        models.AchievementCategory,
		Requirement: models.Requirement{Category: "security", Exercises: 10, Accuracy: 0.8},
		Points:      150,
		Rarity:      models.RarityRare,
	},
	{
		ID:          "performance_tuner",
		Name:        "Performance Tuner",
		Description: "Average 80%+ over 10 performance reviews",
		Type:        models.AchievementCategory,
		Requirement: models.Requirement{Category: "performance", Exercises: 10, Accuracy: 0.8},
		Points:      150,
		Rarity:      models.RarityRare,
	},

	// Streaks
	{
		ID:          "warming_up",
		Name:        "Warming Up",
		Description: "Practice 3 days in a row",
		Type:        models.AchievementStreak,
		Requirement: models.Requirement{Days: 3},
		Points:      25,
		Rarity:      models.RarityCommon,
	},
	{
		ID:          "week_warrior",
		Name:        "Week Warrior",
		Description: "Practice 7 days in a row",
		Type:        models.AchievementStreak,
		Requirement: models.Requirement{Days: 7},
		Points:      75,
		Rarity:      models.RarityUncommon,
	},
	{
		ID:          "monthly_master",
		Name:        "Monthly Master",
		Description: "Practice 30 days in a row",
		Type:        models.AchievementStreak,
		Requirement: models.Requirement{Days: 30},
		Points:      300,
		Rarity:      models.RarityLegendary,
	},

	// Special
	{
		ID:          "night_owl",
		Name:        "Night Owl",
		Description: "Complete 10 reviews late at night",
		Type:        models.AchievementSpecial,
		Requirement: models.Requirement{NightCount: 10},
		Points:      50,
		Rarity:      models.RarityUncommon,
	},
	{
		ID:          "early_bird",
		Name:        "Early Bird",
		Description: "Complete 10 reviews in the early morning",
		Type:        models.AchievementSpecial,
		Requirement: models.Requirement{MorningCount: 10},
		Points:      50,
		Rarity:      models.RarityUncommon,
	},
	{
		ID:          "polyglot",
		Name:        "Polyglot",
		Description: "Review code in 3 different languages",
		Type:        models.AchievementSpecial,
		Requirement: models.Requirement{LanguageCount: 3},
		Points:      100,
		Rarity:      models.RarityRare,
	},
}

// CatalogByID returns the definition for an achievement ID.
func CatalogByID(id string) (models.AchievementDefinition, bool) {
	for _, def := range Catalog {
		if def.ID == id {
			return def, true
		}
	}
	return models.AchievementDefinition{}, false
}

package models

import (
	"github.com/shopspring/decimal"
)

// AchievementType selects the unlock condition of an achievement
type AchievementType string

// Achievement types
const (
	TypeFirstDeposit     AchievementType = "first_deposit"
	TypeSavingsMilestone AchievementType = "savings_milestone"
	TypeGoalCompletion   AchievementType = "goal_completion"
	TypeConsistency      AchievementType = "consistency"
	TypeLevelUp          AchievementType = "level_up"
)

// Requirement holds the type specific threshold of an achievement.
// Amount is used by savings milestones, Level by level-up achievements.
type Requirement struct {
	Amount decimal.Decimal `json:"amount"`
	Level  int             `json:"level,omitempty"`
}

// Achievement is a catalog entry
type Achievement struct {
	ID           string          `json:"achievement_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	PointsReward int             `json:"points_reward"`
	Type         AchievementType `json:"achievement_type"`
	Requirement  Requirement     `json:"requirements"`
}

// Catalog is the fixed, read-only list of achievements
type Catalog struct {
	achievements []Achievement
}

var defaultCatalog = &Catalog{achievements: []Achievement{
	{
		ID:           "first_deposit",
		Title:        "First Step",
		Description:  "Make your first deposit",
		PointsReward: 50,
		Type:         TypeFirstDeposit,
	},
	{
		ID:           "saver_100",
		Title:        "Century Saver",
		Description:  "Save $100",
		PointsReward: 100,
		Type:         TypeSavingsMilestone,
		Requirement:  Requirement{Amount: decimal.NewFromInt(100)},
	},
	{
		ID:           "saver_500",
		Title:        "Half Grand",
		Description:  "Save $500",
		PointsReward: 250,
		Type:         TypeSavingsMilestone,
		Requirement:  Requirement{Amount: decimal.NewFromInt(500)},
	},
	{
		ID:           "saver_1000",
		Title:        "Grand Saver",
		Description:  "Save $1,000",
		PointsReward: 500,
		Type:         TypeSavingsMilestone,
		Requirement:  Requirement{Amount: decimal.NewFromInt(1000)},
	},
	{
		ID:           "first_goal",
		Title:        "Goal Crusher",
		Description:  "Complete your first savings goal",
		PointsReward: 200,
		Type:         TypeGoalCompletion,
	},
	{
		ID:           "level_5",
		Title:        "Rising Star",
		Description:  "Reach Level 5",
		PointsReward: 300,
		Type:         TypeLevelUp,
		Requirement:  Requirement{Level: 5},
	},
	{
		ID:           "level_10",
		Title:        "Savings Master",
		Description:  "Reach Level 10",
		PointsReward: 500,
		Type:         TypeLevelUp,
		Requirement:  Requirement{Level: 10},
	},
}}

// DefaultCatalog returns the process-wide achievement catalog
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// All returns the achievements in catalog order
func (c *Catalog) All() []Achievement {
	out := make([]Achievement, len(c.achievements))
	copy(out, c.achievements)
	return out
}

// Get looks up an achievement by id
func (c *Catalog) Get(id string) (Achievement, bool) {
	for _, a := range c.achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.achievements)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PointsPerLevel is the number of points between two consecutive levels
const PointsPerLevel = 100

// User represents a registered saver
type User struct {
	ID           string          `json:"user_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Balance      decimal.Decimal `json:"balance"`
	TotalPoints  int             `json:"total_points"`
	Level        int             `json:"level"`
	Achievements []string        `json:"achievements"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewUser creates a level 1 user with an empty balance
func NewUser(name, email string) *User {
	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Balance:      decimal.Zero,
		Level:        1,
		Achievements: []string{},
		CreatedAt:    time.Now(),
	}
}

// Credit adds money to the balance. Non-positive amounts are rejected.
func (u *User) Credit(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	u.Balance = u.Balance.Add(amount)
	return true
}

// Debit takes money from the balance if there is enough of it
func (u *User) Debit(amount decimal.Decimal) bool {
	if !amount.IsPositive() || u.Balance.LessThan(amount) {
		return false
	}
	u.Balance = u.Balance.Sub(amount)
	return true
}

// AwardPoints adds points and reports whether the user reached a higher level.
// Negative awards are ignored so that the point total never goes down.
func (u *User) AwardPoints(points int) bool {
	if points < 0 {
		return false
	}
	u.TotalPoints += points
	level := LevelForPoints(u.TotalPoints)
	if level > u.Level {
		u.Level = level
		return true
	}
	return false
}

// UnlockAchievement records an achievement id. It returns false when the id
// was already earned.
func (u *User) UnlockAchievement(id string) bool {
	if u.HasAchievement(id) {
		return false
	}
	u.Achievements = append(u.Achievements, id)
	return true
}

// HasAchievement reports whether the achievement id was earned
func (u *User) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// PointsToNextLevel returns how many points are missing for the next level
func (u *User) PointsToNextLevel() int {
	return u.Level*PointsPerLevel - u.TotalPoints
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	c := *u
	c.Achievements = append([]string{}, u.Achievements...)
	return &c
}

// LevelForPoints derives a level from a point total
func LevelForPoints(points int) int {
	if points < 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

package models

import (
	"time"

	"github.com/segmentio/ksuid"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

var rewardDivisor = decimal.NewFromInt(10)

// SavingsGoal represents a target amount a user saves towards
type SavingsGoal struct {
	ID             string          `json:"goal_id"`
	UserID         string          `json:"user_id"`
	Title          string          `json:"title"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	CurrentAmount  decimal.Decimal `json:"current_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	Deadline       time.Time       `json:"deadline"`
	IsCompleted    bool            `json:"is_completed"`
	CompletionDate *time.Time      `json:"completion_date"`
}

// NewSavingsGoal creates an open goal due deadlineDays from now
func NewSavingsGoal(userID, title string, target decimal.Decimal, deadlineDays int) *SavingsGoal {
	now := time.Now()
	return &SavingsGoal{
		ID:            ksuid.New().String(),
		UserID:        userID,
		Title:         title,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		CreatedAt:     now,
		Deadline:      now.Add(time.Duration(deadlineDays) * day),
	}
}

// ApplyProgress adds amount to the goal. It returns true only for the call
// that first brings the goal to its target.
func (g *SavingsGoal) ApplyProgress(amount decimal.Decimal) bool {
	return g.applyProgressAt(amount, time.Now())
}

func (g *SavingsGoal) applyProgressAt(amount decimal.Decimal, now time.Time) bool {
	if !amount.IsPositive() {
		return false
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.IsCompleted || g.CurrentAmount.LessThan(g.TargetAmount) {
		return false
	}
	g.IsCompleted = true
	g.CompletionDate = &now
	return true
}

// ProgressFraction returns current/target capped at 1
func (g *SavingsGoal) ProgressFraction() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	ratio := g.CurrentAmount.Div(g.TargetAmount)
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		return 1
	}
	f, _ := ratio.Float64()
	return f
}

// ProgressPercentage returns the progress fraction as a percentage
func (g *SavingsGoal) ProgressPercentage() float64 {
	return g.ProgressFraction() * 100
}

// RemainingAmount returns how much is left to reach the target
func (g *SavingsGoal) RemainingAmount() decimal.Decimal {
	rest := g.TargetAmount.Sub(g.CurrentAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// DaysRemaining returns the whole days left until the deadline, never negative
func (g *SavingsGoal) DaysRemaining() int {
	return g.daysRemainingAt(time.Now())
}

func (g *SavingsGoal) daysRemainingAt(now time.Time) int {
	left := g.Deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / day)
}

// RewardPoints computes the deadline-aware reward: one point per 10 of target,
// doubled when the goal was completed on time.
func (g *SavingsGoal) RewardPoints() int {
	if !g.IsCompleted {
		return 0
	}
	base := int(g.TargetAmount.Div(rewardDivisor).Floor().IntPart())
	if g.CompletionDate != nil && !g.CompletionDate.After(g.Deadline) {
		return base * 2
	}
	return base
}

// Clone returns a deep copy of the goal
func (g *SavingsGoal) Clone() *SavingsGoal {
	c := *g
	if g.CompletionDate != nil {
		t := *g.CompletionDate
		c.CompletionDate = &t
	}
	return &c
}

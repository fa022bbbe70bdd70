package service

import (
	"context"

	"github.com/25x8/savings-game/internal/savings/models"
	"github.com/25x8/savings-game/internal/savings/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Point rewards granted by the game flows
const (
	DepositPointsPerUnit  = 2
	ProgressPointsPerUnit = 3
	GoalCreationPoints    = 25
	CompletionBonusPoints = 100
)

// ContributionStatus is the outcome of moving money into a goal
type ContributionStatus int

const (
	ContributionOK ContributionStatus = iota
	ContributionInvalidAmount
	ContributionUnknownUser
	ContributionUnknownGoal
	ContributionGoalCompleted
	ContributionInsufficientBalance
)

// Motivation is the encouragement tier shown on the progress overview
type Motivation string

const (
	MotivationStart    Motivation = "start"
	MotivationProgress Motivation = "progress"
	MotivationAmazing  Motivation = "amazing"
)

// DepositResult describes a deposit and the rewards it produced
type DepositResult struct {
	Deposited    bool
	Points       int
	LevelUp      bool
	Achievements []models.Achievement
}

// GoalResult describes a goal creation. Goal is nil when the input was rejected.
type GoalResult struct {
	Goal    *models.SavingsGoal
	Points  int
	LevelUp bool
}

// ContributionResult describes a transfer from the balance into a goal
type ContributionResult struct {
	Status       ContributionStatus
	Completed    bool
	Points       int
	BonusPoints  int
	LevelUp      bool
	Achievements []models.Achievement
}

// Stats summarises a user's game state
type Stats struct {
	User                  *models.User
	PointsToNextLevel     int
	TotalGoals            int
	CompletedGoals        int
	ActiveGoals           int
	EarnedAchievements    int
	AvailableAchievements int
}

// Overview summarises a user's savings progress
type Overview struct {
	User            *models.User
	TotalSaved      decimal.Decimal
	TotalTargets    decimal.Decimal
	OverallProgress float64
	CompletedGoals  int
	ActiveGoals     int
	Achievements    int
	Motivation      Motivation
}

// Game ties the savings and gamification services together and applies the
// reward policy of each user action.
type Game struct {
	Savings      *SavingsService
	Gamification *GamificationService
	log          *zap.SugaredLogger
}

// NewGame creates both services over repo
func NewGame(repo repository.Repository, log *zap.SugaredLogger) *Game {
	return &Game{
		Savings:      NewSavingsService(repo, log),
		Gamification: NewGamificationService(repo, log),
		log:          log,
	}
}

// Register creates a user and grants any achievement it already qualifies for
func (g *Game) Register(ctx context.Context, name, email string) (*models.User, []models.Achievement, error) {
	user, err := g.Savings.CreateUser(ctx, name, email)
	if err != nil {
		return nil, nil, err
	}
	achievements, err := g.Gamification.CheckAndAwardAchievements(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, achievements, nil
}

// Deposit credits the balance, awards points per deposited unit and checks
// achievements.
func (g *Game) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*DepositResult, error) {
	res := &DepositResult{Achievements: []models.Achievement{}}
	ok, err := g.Savings.Deposit(ctx, userID, amount)
	if err != nil || !ok {
		return res, err
	}
	res.Deposited = true

	res.Points = pointsFor(amount, DepositPointsPerUnit)
	if _, res.LevelUp, err = g.Gamification.AwardPoints(ctx, userID, res.Points); err != nil {
		return res, err
	}
	if res.Achievements, err = g.Gamification.CheckAndAwardAchievements(ctx, userID); err != nil {
		return res, err
	}
	return res, nil
}

// Withdraw takes money from the balance. Withdrawals earn nothing.
func (g *Game) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (bool, error) {
	return g.Savings.Withdraw(ctx, userID, amount)
}

// CreateGoal creates a goal and awards the goal creation points
func (g *Game) CreateGoal(ctx context.Context, userID, title string, target decimal.Decimal, deadlineDays int) (*GoalResult, error) {
	res := &GoalResult{}
	goal, err := g.Savings.CreateGoal(ctx, userID, title, target, deadlineDays)
	if err != nil || goal == nil {
		return res, err
	}
	res.Goal = goal
	res.Points = GoalCreationPoints
	if _, res.LevelUp, err = g.Gamification.AwardPoints(ctx, userID, res.Points); err != nil {
		return res, err
	}
	return res, nil
}

// Contribute moves amount from the user's balance into one of their open
// goals. Progress earns points per unit and completing the goal earns the
// flat completion bonus.
func (g *Game) Contribute(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*ContributionResult, error) {
	res := &ContributionResult{Achievements: []models.Achievement{}}
	if !amount.IsPositive() {
		res.Status = ContributionInvalidAmount
		return res, nil
	}

	user, err := g.Savings.GetUser(ctx, userID)
	if err != nil {
		return res, err
	}
	if user == nil {
		res.Status = ContributionUnknownUser
		return res, nil
	}
	goal, err := g.Savings.GetGoal(ctx, goalID)
	if err != nil {
		return res, err
	}
	if goal == nil || goal.UserID != userID {
		res.Status = ContributionUnknownGoal
		return res, nil
	}
	if goal.IsCompleted {
		res.Status = ContributionGoalCompleted
		return res, nil
	}
	if user.Balance.LessThan(amount) {
		res.Status = ContributionInsufficientBalance
		return res, nil
	}

	ok, err := g.Savings.Withdraw(ctx, userID, amount)
	if err != nil {
		return res, err
	}
	if !ok {
		res.Status = ContributionInsufficientBalance
		return res, nil
	}
	if res.Completed, err = g.Savings.AddProgress(ctx, goalID, amount); err != nil {
		g.refund(ctx, userID, amount)
		return res, err
	}

	res.Points = pointsFor(amount, ProgressPointsPerUnit)
	if _, res.LevelUp, err = g.Gamification.AwardPoints(ctx, userID, res.Points); err != nil {
		return res, err
	}
	if res.Completed {
		res.BonusPoints = CompletionBonusPoints
		_, levelUp, err := g.Gamification.AwardPoints(ctx, userID, res.BonusPoints)
		if err != nil {
			return res, err
		}
		res.LevelUp = res.LevelUp || levelUp
	}
	if res.Achievements, err = g.Gamification.CheckAndAwardAchievements(ctx, userID); err != nil {
		return res, err
	}
	return res, nil
}

func (g *Game) refund(ctx context.Context, userID string, amount decimal.Decimal) {
	if _, err := g.Savings.Deposit(ctx, userID, amount); err != nil {
		g.log.Errorw("refund after failed goal update", "user_id", userID, "amount", amount.String(), "error", err)
	}
}

// Stats returns the game statistics of a user, nil when the user is unknown
func (g *Game) Stats(ctx context.Context, userID string) (*Stats, error) {
	user, err := g.Savings.GetUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	goals, err := g.Savings.UserGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned, err := g.Gamification.UserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	available, err := g.Gamification.AvailableAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := countCompleted(goals)
	return &Stats{
		User:                  user,
		PointsToNextLevel:     user.PointsToNextLevel(),
		TotalGoals:            len(goals),
		CompletedGoals:        completed,
		ActiveGoals:           len(goals) - completed,
		EarnedAchievements:    len(earned),
		AvailableAchievements: len(available),
	}, nil
}

// Overview returns the savings progress of a user, nil when the user is unknown
func (g *Game) Overview(ctx context.Context, userID string) (*Overview, error) {
	user, err := g.Savings.GetUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	goals, err := g.Savings.UserGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		User:         user,
		TotalSaved:   decimal.Zero,
		TotalTargets: decimal.Zero,
		Achievements: len(user.Achievements),
	}
	for _, goal := range goals {
		o.TotalSaved = o.TotalSaved.Add(goal.CurrentAmount)
		o.TotalTargets = o.TotalTargets.Add(goal.TargetAmount)
	}
	if o.TotalTargets.IsPositive() {
		o.OverallProgress, _ = o.TotalSaved.Div(o.TotalTargets).Mul(decimal.NewFromInt(100)).Float64()
	}
	o.CompletedGoals = countCompleted(goals)
	o.ActiveGoals = len(goals) - o.CompletedGoals

	switch {
	case user.Level >= 5:
		o.Motivation = MotivationAmazing
	case user.TotalPoints > 0:
		o.Motivation = MotivationProgress
	default:
		o.Motivation = MotivationStart
	}
	return o, nil
}

func countCompleted(goals []*models.SavingsGoal) int {
	n := 0
	for _, g := range goals {
		if g.IsCompleted {
			n++
		}
	}
	return n
}

// pointsFor converts an amount to points, dropping fractions
func pointsFor(amount decimal.Decimal, perUnit int64) int {
	return int(amount.Mul(decimal.NewFromInt(perUnit)).IntPart())
}

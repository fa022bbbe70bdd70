package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/25x8/savings-game/internal/savings/models"
	"github.com/25x8/savings-game/internal/savings/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// sentinel errors for user registration
var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
)

// SavingsService handles balances and savings goals
type SavingsService struct {
	repo repository.Repository
	log  *zap.SugaredLogger
}

// NewSavingsService creates a new savings service
func NewSavingsService(repo repository.Repository, log *zap.SugaredLogger) *SavingsService {
	return &SavingsService{repo: repo, log: log}
}

// CreateUser registers a new user. Name and email must not be blank.
func (s *SavingsService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	user := models.NewUser(name, email)
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.log.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// GetUser returns the user or nil when it does not exist
func (s *SavingsService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}
	return s.repo.GetUser(ctx, userID)
}

// ListUsers returns every registered user
func (s *SavingsService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// Deposit adds money to the user's balance
func (s *SavingsService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, nil
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	if !user.Credit(amount) {
		return false, nil
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}
	s.log.Debugw("deposit", "user_id", userID, "amount", amount.String(), "balance", user.Balance.String())
	return true, nil
}

// Withdraw takes money from the user's balance
func (s *SavingsService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, nil
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	if !user.Debit(amount) {
		return false, nil
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}
	s.log.Debugw("withdrawal", "user_id", userID, "amount", amount.String(), "balance", user.Balance.String())
	return true, nil
}

// CreateGoal creates a savings goal for an existing user. It returns nil
// when the input is invalid or the user is unknown.
func (s *SavingsService) CreateGoal(ctx context.Context, userID, title string, target decimal.Decimal, deadlineDays int) (*models.SavingsGoal, error) {
	title = strings.TrimSpace(title)
	if userID == "" || title == "" || !target.IsPositive() || deadlineDays <= 0 {
		return nil, nil
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}

	goal := models.NewSavingsGoal(userID, title, target, deadlineDays)
	if err := s.repo.SaveGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}
	s.log.Debugw("goal created", "user_id", userID, "goal_id", goal.ID, "target", target.String())
	return goal, nil
}

// GetGoal returns the goal or nil when it does not exist
func (s *SavingsService) GetGoal(ctx context.Context, goalID string) (*models.SavingsGoal, error) {
	if goalID == "" {
		return nil, nil
	}
	return s.repo.GetGoal(ctx, goalID)
}

// AddProgress adds amount to a goal and reports whether this completed it
func (s *SavingsService) AddProgress(ctx context.Context, goalID string, amount decimal.Decimal) (bool, error) {
	if goalID == "" || !amount.IsPositive() {
		return false, nil
	}

	goal, err := s.repo.GetGoal(ctx, goalID)
	if err != nil || goal == nil {
		return false, err
	}
	completed := goal.ApplyProgress(amount)
	if err := s.repo.SaveGoal(ctx, goal); err != nil {
		return false, fmt.Errorf("save goal: %w", err)
	}
	if completed {
		s.log.Infow("goal completed", "user_id", goal.UserID, "goal_id", goal.ID)
	}
	return completed, nil
}

// UserGoals returns all goals of a user
func (s *SavingsService) UserGoals(ctx context.Context, userID string) ([]*models.SavingsGoal, error) {
	if userID == "" {
		return []*models.SavingsGoal{}, nil
	}
	return s.repo.GetUserGoals(ctx, userID)
}

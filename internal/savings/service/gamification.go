package service

import (
	"context"
	"fmt"

	"github.com/25x8/savings-game/internal/savings/models"
	"github.com/25x8/savings-game/internal/savings/repository"
	"go.uber.org/zap"
)

// GamificationService awards points and achievements
type GamificationService struct {
	repo    repository.Repository
	catalog *models.Catalog
	log     *zap.SugaredLogger
}

// NewGamificationService creates a gamification service over the default catalog
func NewGamificationService(repo repository.Repository, log *zap.SugaredLogger) *GamificationService {
	return &GamificationService{
		repo:    repo,
		catalog: models.DefaultCatalog(),
		log:     log,
	}
}

// Catalog returns the achievement catalog in use
func (s *GamificationService) Catalog() *models.Catalog {
	return s.catalog
}

// AwardPoints adds points to a user. ok is false when the user does not exist.
func (s *GamificationService) AwardPoints(ctx context.Context, userID string, points int) (ok, levelUp bool, err error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return false, false, err
	}

	levelUp = user.AwardPoints(points)
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return false, false, fmt.Errorf("save user: %w", err)
	}
	if levelUp {
		s.log.Infow("level up", "user_id", userID, "level", user.Level, "points", user.TotalPoints)
	}
	return true, levelUp, nil
}

// Evaluate returns the ids of achievements the user qualifies for but has
// not earned yet, in catalog order.
func (s *GamificationService) Evaluate(user *models.User, goals []*models.SavingsGoal) []string {
	earned := []string{}
	for _, a := range s.catalog.All() {
		if user.HasAchievement(a.ID) {
			continue
		}
		if qualifies(a, user, goals) {
			earned = append(earned, a.ID)
		}
	}
	return earned
}

func qualifies(a models.Achievement, user *models.User, goals []*models.SavingsGoal) bool {
	switch a.Type {
	case models.TypeFirstDeposit:
		return user.Balance.IsPositive()
	case models.TypeSavingsMilestone:
		return user.Balance.GreaterThanOrEqual(a.Requirement.Amount)
	case models.TypeGoalCompletion:
		for _, g := range goals {
			if g.UserID == user.ID && g.IsCompleted {
				return true
			}
		}
		return false
	case models.TypeLevelUp:
		return user.Level >= a.Requirement.Level
	default:
		// consistency has no rule yet
		return false
	}
}

// CheckAndAwardAchievements unlocks every newly qualifying achievement and
// credits its reward. The user is saved once if anything was awarded.
func (s *GamificationService) CheckAndAwardAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return []models.Achievement{}, err
	}
	goals, err := s.repo.GetUserGoals(ctx, userID)
	if err != nil {
		return []models.Achievement{}, err
	}

	awarded := []models.Achievement{}
	for _, id := range s.Evaluate(user, goals) {
		a, ok := s.catalog.Get(id)
		if !ok || !user.UnlockAchievement(id) {
			continue
		}
		user.AwardPoints(a.PointsReward)
		awarded = append(awarded, a)
	}

	if len(awarded) == 0 {
		return awarded, nil
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	for _, a := range awarded {
		s.log.Infow("achievement unlocked", "user_id", userID, "achievement", a.ID, "reward", a.PointsReward)
	}
	return awarded, nil
}

// UserAchievements returns the achievements a user has earned
func (s *GamificationService) UserAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil || user == nil {
		return []models.Achievement{}, err
	}
	out := []models.Achievement{}
	for _, id := range user.Achievements {
		if a, ok := s.catalog.Get(id); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// AvailableAchievements returns the achievements a user has not earned yet.
// An unknown user gets the whole catalog.
func (s *GamificationService) AvailableAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return s.catalog.All(), nil
	}
	out := []models.Achievement{}
	for _, a := range s.catalog.All() {
		if !user.HasAchievement(a.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

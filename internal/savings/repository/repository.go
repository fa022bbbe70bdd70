package repository

import (
	"context"
	"errors"

	"github.com/25x8/savings-game/internal/savings/models"
)

// ErrCorruptData is returned when stored data cannot be decoded
var ErrCorruptData = errors.New("corrupt savings data")

// Repository defines the interface for data access operations.
// Lookups return nil, nil when the entity does not exist.
type Repository interface {
	// User operations
	GetUser(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	// Goal operations
	GetGoal(ctx context.Context, id string) (*models.SavingsGoal, error)
	SaveGoal(ctx context.Context, goal *models.SavingsGoal) error
	GetUserGoals(ctx context.Context, userID string) ([]*models.SavingsGoal, error)

	Close() error
}

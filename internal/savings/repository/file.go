package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/25x8/savings-game/internal/savings/models"
)

// DefaultDataFile is where the file repository keeps its data by default
const DefaultDataFile = "data/savings_data.json"

type fileData struct {
	Users map[string]*models.User        `json:"users"`
	Goals map[string]*models.SavingsGoal `json:"goals"`
}

// FileRepository implements Repository on top of a single JSON document.
// Every save rewrites the whole file.
type FileRepository struct {
	path string
	mu   sync.RWMutex
	data fileData
}

// NewFileRepository loads path, starting empty when the file does not exist
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		path = DefaultDataFile
	}
	r := &FileRepository{
		path: path,
		data: fileData{
			Users: make(map[string]*models.User),
			Goals: make(map[string]*models.SavingsGoal),
		},
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) load() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptData, r.path, err)
	}
	for id, u := range data.Users {
		if u == nil {
			return fmt.Errorf("%w: %s: empty user %q", ErrCorruptData, r.path, id)
		}
	}
	for id, g := range data.Goals {
		if g == nil {
			return fmt.Errorf("%w: %s: empty goal %q", ErrCorruptData, r.path, id)
		}
	}
	if data.Users != nil {
		r.data.Users = data.Users
	}
	if data.Goals != nil {
		r.data.Goals = data.Goals
	}
	return nil
}

// flush writes the current state. Callers must hold the write lock.
func (r *FileRepository) flush() error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

// Path returns the backing file path
func (r *FileRepository) Path() string {
	return r.path
}

// Close is a no-op, every save is already on disk
func (r *FileRepository) Close() error {
	return nil
}

func (r *FileRepository) GetUser(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.data.Users[id]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (r *FileRepository) SaveUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, existed := r.data.Users[user.ID]
	r.data.Users[user.ID] = user.Clone()
	if err := r.flush(); err != nil {
		if existed {
			r.data.Users[user.ID] = prev
		} else {
			delete(r.data.Users, user.ID)
		}
		return err
	}
	return nil
}

// GetAllUsers returns users ordered by creation time
func (r *FileRepository) GetAllUsers(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*models.User, 0, len(r.data.Users))
	for _, u := range r.data.Users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *FileRepository) GetGoal(_ context.Context, id string) (*models.SavingsGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.data.Goals[id]
	if !ok {
		return nil, nil
	}
	return g.Clone(), nil
}

func (r *FileRepository) SaveGoal(_ context.Context, goal *models.SavingsGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, existed := r.data.Goals[goal.ID]
	r.data.Goals[goal.ID] = goal.Clone()
	if err := r.flush(); err != nil {
		if existed {
			r.data.Goals[goal.ID] = prev
		} else {
			delete(r.data.Goals, goal.ID)
		}
		return err
	}
	return nil
}

// GetUserGoals returns the user's goals ordered by creation time
func (r *FileRepository) GetUserGoals(_ context.Context, userID string) ([]*models.SavingsGoal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	goals := []*models.SavingsGoal{}
	for _, g := range r.data.Goals {
		if g.UserID == userID {
			goals = append(goals, g.Clone())
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})
	return goals, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/25x8/savings-game/internal/savings/models"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

type userRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Email       string          `db:"email"`
	Balance     decimal.Decimal `db:"balance"`
	TotalPoints int             `db:"total_points"`
	Level       int             `db:"level"`
	CreatedAt   time.Time       `db:"created_at"`
}

type goalRow struct {
	ID             string          `db:"id"`
	UserID         string          `db:"user_id"`
	Title          string          `db:"title"`
	TargetAmount   decimal.Decimal `db:"target_amount"`
	CurrentAmount  decimal.Decimal `db:"current_amount"`
	CreatedAt      time.Time       `db:"created_at"`
	Deadline       time.Time       `db:"deadline"`
	IsCompleted    bool            `db:"is_completed"`
	CompletionDate sql.NullTime    `db:"completion_date"`
}

const goalColumns = `id, user_id, title, target_amount, current_amount, created_at, deadline, is_completed, completion_date`

// NewPostgresRepository opens the database and creates the schema
func NewPostgresRepository(ctx context.Context, databaseURI string) (*PostgresRepository, error) {
	db, err := sqlx.Open("pgx", databaseURI)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	r := &PostgresRepository{db: db}
	if err := r.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// createTables creates the necessary tables if they don't exist
func (r *PostgresRepository) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			balance NUMERIC(14, 2) NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id VARCHAR(64) NOT NULL REFERENCES users(id),
			achievement_id VARCHAR(64) NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS goals (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			target_amount NUMERIC(14, 2) NOT NULL,
			current_amount NUMERIC(14, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			deadline TIMESTAMPTZ NOT NULL,
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			completion_date TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals (user_id)`,
		// tables created before timestamps carried a zone
		`ALTER TABLE users ALTER COLUMN created_at TYPE TIMESTAMPTZ`,
		`ALTER TABLE goals
			ALTER COLUMN created_at TYPE TIMESTAMPTZ,
			ALTER COLUMN deadline TYPE TIMESTAMPTZ,
			ALTER COLUMN completion_date TYPE TIMESTAMPTZ`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// User repository methods
func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row,
		"SELECT id, name, email, balance, total_points, level, created_at FROM users WHERE id = $1",
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	user := row.toModel()
	if err := r.db.SelectContext(ctx, &user.Achievements,
		"SELECT achievement_id FROM user_achievements WHERE user_id = $1 ORDER BY position",
		id,
	); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) SaveUser(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, name, email, balance, total_points, level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			balance = EXCLUDED.balance,
			total_points = EXCLUDED.total_points,
			level = EXCLUDED.level`,
		user.ID, user.Name, user.Email, user.Balance, user.TotalPoints, user.Level, user.CreatedAt,
	)
	if err != nil {
		return err
	}

	for i, id := range user.Achievements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_achievements (user_id, achievement_id, position)
			 VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			user.ID, id, i,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT id, name, email, balance, total_points, level, created_at FROM users ORDER BY created_at, id",
	); err != nil {
		return nil, err
	}

	var unlocked []struct {
		UserID        string `db:"user_id"`
		AchievementID string `db:"achievement_id"`
	}
	if err := r.db.SelectContext(ctx, &unlocked,
		"SELECT user_id, achievement_id FROM user_achievements ORDER BY user_id, position",
	); err != nil {
		return nil, err
	}
	byUser := make(map[string][]string)
	for _, a := range unlocked {
		byUser[a.UserID] = append(byUser[a.UserID], a.AchievementID)
	}

	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		u := row.toModel()
		if ids, ok := byUser[u.ID]; ok {
			u.Achievements = ids
		}
		users = append(users, u)
	}
	return users, nil
}

// Goal repository methods
func (r *PostgresRepository) GetGoal(ctx context.Context, id string) (*models.SavingsGoal, error) {
	var row goalRow
	err := r.db.GetContext(ctx, &row, "SELECT "+goalColumns+" FROM goals WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *PostgresRepository) SaveGoal(ctx context.Context, goal *models.SavingsGoal) error {
	var completed sql.NullTime
	if goal.CompletionDate != nil {
		completed = sql.NullTime{Time: *goal.CompletionDate, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			current_amount = EXCLUDED.current_amount,
			is_completed = EXCLUDED.is_completed,
			completion_date = EXCLUDED.completion_date`,
		goal.ID, goal.UserID, goal.Title, goal.TargetAmount, goal.CurrentAmount,
		goal.CreatedAt, goal.Deadline, goal.IsCompleted, completed,
	)
	return err
}

func (r *PostgresRepository) GetUserGoals(ctx context.Context, userID string) ([]*models.SavingsGoal, error) {
	var rows []goalRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT "+goalColumns+" FROM goals WHERE user_id = $1 ORDER BY created_at, id",
		userID,
	); err != nil {
		return nil, err
	}

	goals := make([]*models.SavingsGoal, 0, len(rows))
	for _, row := range rows {
		goals = append(goals, row.toModel())
	}
	return goals, nil
}

func (row userRow) toModel() *models.User {
	return &models.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Balance:      row.Balance,
		TotalPoints:  row.TotalPoints,
		Level:        row.Level,
		Achievements: []string{},
		CreatedAt:    row.CreatedAt,
	}
}

func (row goalRow) toModel() *models.SavingsGoal {
	g := &models.SavingsGoal{
		ID:            row.ID,
		UserID:        row.UserID,
		Title:         row.Title,
		TargetAmount:  row.TargetAmount,
		CurrentAmount: row.CurrentAmount,
		CreatedAt:     row.CreatedAt,
		Deadline:      row.Deadline,
		IsCompleted:   row.IsCompleted,
	}
	if row.CompletionDate.Valid {
		t := row.CompletionDate.Time
		g.CompletionDate = &t
	}
	return g
}

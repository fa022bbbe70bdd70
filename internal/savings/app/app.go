package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/25x8/savings-game/internal/savings/config"
	"github.com/25x8/savings-game/internal/savings/handlers"
	"github.com/25x8/savings-game/internal/savings/repository"
	"github.com/25x8/savings-game/internal/savings/service"
	"go.uber.org/zap"
)

const title = "💰 SAVINGS GAME - Gamified Savings Tracker 💰"

// App represents the console application
type App struct {
	repo    repository.Repository
	handler *handlers.Handler
	out     io.Writer
	log     *zap.SugaredLogger
}

// NewApp opens the configured repository and creates the application
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log *zap.SugaredLogger) (*App, error) {
	repo, err := openRepository(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return New(repo, in, out, log), nil
}

// New creates the application over an already opened repository
func New(repo repository.Repository, in io.Reader, out io.Writer, log *zap.SugaredLogger) *App {
	game := service.NewGame(repo, log)
	return &App{
		repo:    repo,
		handler: handlers.NewHandler(game, in, out, log),
		out:     out,
		log:     log,
	}
}

func openRepository(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (repository.Repository, error) {
	if cfg.DatabaseURI != "" {
		repo, err := repository.NewPostgresRepository(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		log.Infow("using postgres storage")
		return repo, nil
	}

	repo, err := repository.NewFileRepository(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	log.Infow("using file storage", "path", repo.Path())
	return repo, nil
}

// Handler returns the menu action handler
func (a *App) Handler() *handlers.Handler {
	return a.handler
}

func (a *App) menu() {
	fmt.Fprintln(a.out, "1. 👤 Login/Register")
	fmt.Fprintln(a.out, "2. 💰 Make Deposit")
	fmt.Fprintln(a.out, "3. 💸 Withdraw Money")
	fmt.Fprintln(a.out, "4. 🎯 Create Savings Goal")
	fmt.Fprintln(a.out, "5. 📊 View Goals")
	fmt.Fprintln(a.out, "6. 🎮 Game Statistics")
	fmt.Fprintln(a.out, "7. 🏆 Achievements")
	fmt.Fprintln(a.out, "8. 📈 Progress Overview")
	fmt.Fprintln(a.out, "9. 🚪 Exit")
}

// Run shows the menu until the user exits, the input ends or ctx is done
func (a *App) Run(ctx context.Context) error {
	h := a.handler
	actions := map[string]func(context.Context) error{
		"1": h.LoginRegister,
		"2": h.Deposit,
		"3": h.Withdraw,
		"4": h.CreateGoal,
		"5": h.ViewGoals,
		"6": h.GameStats,
		"7": h.Achievements,
		"8": h.Progress,
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		h.Header(title)
		h.Status()
		a.menu()

		choice, err := h.Prompt("\nSelect option (1-9): ")
		if errors.Is(err, handlers.ErrInputClosed) {
			a.log.Debugw("input closed")
			return nil
		}
		if err != nil {
			return err
		}

		if choice == "9" {
			fmt.Fprintln(a.out, "\n👋 Thanks for playing Savings Game! Keep saving!")
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			fmt.Fprintln(a.out, "✗ Invalid option. Please select 1-9.")
			continue
		}

		err = action(ctx)
		if errors.Is(err, handlers.ErrInputClosed) {
			a.log.Debugw("input closed")
			return nil
		}
		if err != nil {
			a.log.Errorw("menu action failed", "option", choice, "error", err)
			if errors.Is(err, repository.ErrCorruptData) {
				return err
			}
			fmt.Fprintf(a.out, "✗ Something went wrong: %v\n", err)
		}
	}
}

// Shutdown closes the repository
func (a *App) Shutdown() error {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			return err
		}
	}
	return nil
}

package handlers

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/25x8/savings-game/internal/savings/repository"
	"github.com/25x8/savings-game/internal/savings/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

func newTestHandler(t *testing.T, input string) (*Handler, *bytes.Buffer) {
	t.Helper()
	repo, err := repository.NewFileRepository(filepath.Join(t.TempDir(), "savings.json"))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	log := zaptest.NewLogger(t).Sugar()
	out := &bytes.Buffer{}
	return NewHandler(service.NewGame(repo, log), strings.NewReader(input), out, log), out
}

func mustContain(t *testing.T, out *bytes.Buffer, want string) {
	t.Helper()
	if !strings.Contains(out.String(), want) {
		t.Fatalf("output does not contain %q:\n%s", want, out.String())
	}
}

func TestPromptEndOfInput(t *testing.T) {
	h, _ := newTestHandler(t, "")
	if _, err := h.Prompt("> "); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed got %v", err)
	}
}

func TestActionsRequireLogin(t *testing.T) {
	h, out := newTestHandler(t, "")
	ctx := context.Background()
	for _, action := range []func(context.Context) error{
		h.Deposit, h.Withdraw, h.CreateGoal, h.ViewGoals, h.GameStats, h.Achievements, h.Progress,
	} {
		if err := action(ctx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if n := strings.Count(out.String(), "Please login first."); n != 7 {
		t.Fatalf("expected 7 login prompts got %d", n)
	}
}

func TestRegisterAndDeposit(t *testing.T) {
	h, out := newTestHandler(t, "1\nAnn\nann@example.com\n50\n")
	ctx := context.Background()

	if err := h.LoginRegister(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}
	if h.CurrentUser() == nil || h.CurrentUser().Name != "Ann" {
		t.Fatalf("user not logged in")
	}
	mustContain(t, out, "Welcome Ann! Your account has been created.")

	if err := h.Deposit(ctx); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	mustContain(t, out, "You earned 100 points!")
	mustContain(t, out, "First Step: Make your first deposit")
	if !h.CurrentUser().Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("balance not refreshed: %s", h.CurrentUser().Balance)
	}
}

func TestRegisterRequiresNameAndEmail(t *testing.T) {
	h, out := newTestHandler(t, "1\n\nann@example.com\n")
	if err := h.LoginRegister(context.Background()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	mustContain(t, out, "Name and email are required.")
	if h.CurrentUser() != nil {
		t.Fatalf("no user should be logged in")
	}
}

func TestLoginExistingUser(t *testing.T) {
	h, out := newTestHandler(t, "2\n1\n2\n5\n")
	ctx := context.Background()
	if _, _, err := h.Game.Register(ctx, "Bob", "bob@example.com"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := h.LoginRegister(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
	mustContain(t, out, "1. Bob (bob@example.com)")
	mustContain(t, out, "Welcome back, Bob!")

	if err := h.LoginRegister(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
	mustContain(t, out, "Invalid user selection.")
}

func TestInvalidInputIsReported(t *testing.T) {
	h, out := newTestHandler(t, "1\nAnn\nann@example.com\nabc\n-5\n10\n")
	ctx := context.Background()
	if err := h.LoginRegister(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := h.Deposit(ctx); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	mustContain(t, out, "Please enter a valid amount.")
	if err := h.Deposit(ctx); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	mustContain(t, out, "Amount must be positive.")
	if err := h.Withdraw(ctx); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	mustContain(t, out, "Insufficient funds or withdrawal failed.")
}

func TestGoalLifecycle(t *testing.T) {
	input := strings.Join([]string{
		"1", "Ann", "ann@example.com", // register
		"200",                // deposit
		"Bike", "100", "30", // create goal
		"y", "1", "100", // contribute
	}, "\n") + "\n"
	h, out := newTestHandler(t, input)
	ctx := context.Background()

	for _, action := range []func(context.Context) error{h.LoginRegister, h.Deposit, h.CreateGoal, h.ViewGoals} {
		if err := action(ctx); err != nil {
			t.Fatalf("action failed: %v", err)
		}
	}
	mustContain(t, out, "Goal 'Bike' created successfully!")
	mustContain(t, out, "You earned 25 points for creating a goal!")
	mustContain(t, out, "🔄 IN PROGRESS")
	mustContain(t, out, "Added $100.00 to 'Bike'!")
	mustContain(t, out, "🎉 GOAL COMPLETED! 🎉")
	mustContain(t, out, "Goal Crusher")

	if !h.CurrentUser().Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance 100 got %s", h.CurrentUser().Balance)
	}

	out.Reset()
	if err := h.Progress(ctx); err != nil {
		t.Fatalf("progress: %v", err)
	}
	mustContain(t, out, "💰 Total Saved: $100.00")
	mustContain(t, out, "📊 Overall Goal Progress: 100.0%")
	mustContain(t, out, "1 goals completed")

	out.Reset()
	if err := h.GameStats(ctx); err != nil {
		t.Fatalf("stats: %v", err)
	}
	mustContain(t, out, "Completed: 1")

	out.Reset()
	if err := h.Achievements(ctx); err != nil {
		t.Fatalf("achievements: %v", err)
	}
	mustContain(t, out, "✅ Goal Crusher (+200 points)")
	mustContain(t, out, "🔲 Grand Saver (+500 points)")
}

func TestContributeRejectsLargeAmount(t *testing.T) {
	input := "1\nAnn\nann@example.com\n10\nBike\n100\n30\ny\n1\n50\n"
	h, out := newTestHandler(t, input)
	ctx := context.Background()
	for _, action := range []func(context.Context) error{h.LoginRegister, h.Deposit, h.CreateGoal, h.ViewGoals} {
		if err := action(ctx); err != nil {
			t.Fatalf("action failed: %v", err)
		}
	}
	mustContain(t, out, "Insufficient balance!")
	if !h.CurrentUser().Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance changed: %s", h.CurrentUser().Balance)
	}
}

func TestActionPropagatesEndOfInput(t *testing.T) {
	h, _ := newTestHandler(t, "1\nAnn\n")
	if err := h.LoginRegister(context.Background()); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed got %v", err)
	}
}

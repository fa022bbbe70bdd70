package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/25x8/savings-game/internal/savings/config"
	"github.com/25x8/savings-game/internal/savings/repository"
	"go.uber.org/zap/zaptest"
)

func TestRunScriptedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "savings.json")
	cfg := &config.Config{DataFile: path}
	out := &bytes.Buffer{}
	input := "1\n1\nAnn\nann@example.com\n2\n75\n0\n9\n"

	a, err := NewApp(context.Background(), cfg, strings.NewReader(input), out, zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	for _, want := range []string{
		"Welcome Ann! Your account has been created.",
		"Deposited $75.00! New balance: $75.00",
		"Balance: $75.00 | Level: 3 | Points: 200",
		"Invalid option. Please select 1-9.",
		"Thanks for playing Savings Game!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output does not contain %q:\n%s", want, out.String())
		}
	}

	repo, err := repository.NewFileRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	users, err := repo.GetAllUsers(context.Background())
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Ann" || users[0].TotalPoints != 200 {
		t.Fatalf("session not persisted: %+v", users)
	}
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	cfg := &config.Config{DataFile: filepath.Join(t.TempDir(), "savings.json")}
	a, err := NewApp(context.Background(), cfg, strings.NewReader("1\n1\nAnn\n"), &bytes.Buffer{}, zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Shutdown()
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.Handler().CurrentUser() != nil {
		t.Fatalf("half-entered registration must not create a session")
	}
}

func TestRunStopsWhenContextDone(t *testing.T) {
	cfg := &config.Config{DataFile: filepath.Join(t.TempDir(), "savings.json")}
	out := &bytes.Buffer{}
	a, err := NewApp(context.Background(), cfg, strings.NewReader("8\n"), out, zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("menu shown after cancellation:\n%s", out.String())
	}
}

func TestNewAppRejectsCorruptDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewApp(context.Background(), &config.Config{DataFile: path}, strings.NewReader(""), &bytes.Buffer{}, zaptest.NewLogger(t).Sugar())
	if !errors.Is(err, repository.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData got %v", err)
	}
}

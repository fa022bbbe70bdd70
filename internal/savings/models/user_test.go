package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if u.Level != 1 || u.TotalPoints != 0 || !u.Balance.IsZero() {
		t.Fatalf("unexpected defaults: level=%d points=%d balance=%s", u.Level, u.TotalPoints, u.Balance)
	}
	if other := NewUser("Ann", "ann@example.com"); other.ID == u.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestCreditRejectsNonPositive(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	for _, amt := range []string{"0", "-1", "-0.01"} {
		if u.Credit(decimal.RequireFromString(amt)) {
			t.Fatalf("credit(%s) should fail", amt)
		}
	}
	if !u.Balance.IsZero() {
		t.Fatalf("balance changed: %s", u.Balance)
	}
}

func TestDebit(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	u.Credit(decimal.NewFromInt(50))

	if u.Debit(decimal.NewFromInt(60)) {
		t.Fatalf("debit above balance should fail")
	}
	if u.Debit(decimal.Zero) || u.Debit(decimal.NewFromInt(-5)) {
		t.Fatalf("non-positive debit should fail")
	}
	if !u.Debit(decimal.NewFromInt(50)) {
		t.Fatalf("debit of whole balance should succeed")
	}
	if !u.Balance.IsZero() {
		t.Fatalf("expected zero balance got %s", u.Balance)
	}
}

func TestBalanceIsSumOfSuccessfulOperations(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	ops := []struct {
		credit bool
		amount string
	}{
		{true, "10.50"}, {true, "-3"}, {false, "4.25"}, {false, "100"}, {true, "0.75"}, {false, "0"},
	}
	want := decimal.Zero
	for _, op := range ops {
		amt := decimal.RequireFromString(op.amount)
		if op.credit {
			if u.Credit(amt) {
				want = want.Add(amt)
			}
			continue
		}
		if u.Debit(amt) {
			want = want.Sub(amt)
		}
	}
	if !u.Balance.Equal(want) {
		t.Fatalf("balance %s, want %s", u.Balance, want)
	}
	if !u.Balance.Equal(decimal.RequireFromString("7")) {
		t.Fatalf("balance %s, want 7", u.Balance)
	}
}

func TestAwardPointsLevels(t *testing.T) {
	tests := []struct {
		total int
		level int
	}{
		{0, 1}, {99, 1}, {100, 2}, {199, 2}, {200, 3}, {999, 10}, {1000, 11},
	}
	for _, tt := range tests {
		u := NewUser("Ann", "ann@example.com")
		u.AwardPoints(tt.total)
		if u.Level != tt.level {
			t.Fatalf("total=%d: level %d, want %d", tt.total, u.Level, tt.level)
		}
		if u.Level != LevelForPoints(u.TotalPoints) {
			t.Fatalf("level invariant broken for total %d", tt.total)
		}
	}
}

func TestAwardPointsLevelUpSignal(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	if !u.AwardPoints(100) {
		t.Fatalf("expected level up at 100 points")
	}
	if u.Level != 2 {
		t.Fatalf("expected level 2 got %d", u.Level)
	}
	if u.AwardPoints(1) {
		t.Fatalf("101 points must not level up again")
	}
	if u.AwardPoints(0) {
		t.Fatalf("zero points must not level up")
	}
}

func TestAwardPointsIgnoresNegative(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	u.AwardPoints(250)
	if u.AwardPoints(-200) {
		t.Fatalf("negative award reported a level up")
	}
	if u.TotalPoints != 250 || u.Level != 3 {
		t.Fatalf("negative award mutated user: points=%d level=%d", u.TotalPoints, u.Level)
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	if !u.UnlockAchievement("first_deposit") {
		t.Fatalf("first unlock should succeed")
	}
	if u.UnlockAchievement("first_deposit") {
		t.Fatalf("second unlock should report false")
	}
	if len(u.Achievements) != 1 {
		t.Fatalf("expected 1 achievement got %d", len(u.Achievements))
	}
}

func TestPointsToNextLevel(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	u.AwardPoints(130)
	if got := u.PointsToNextLevel(); got != 70 {
		t.Fatalf("expected 70 got %d", got)
	}
}

func TestUserCloneIsDeep(t *testing.T) {
	u := NewUser("Ann", "ann@example.com")
	u.UnlockAchievement("a")
	c := u.Clone()
	c.UnlockAchievement("b")
	c.Credit(decimal.NewFromInt(5))
	if len(u.Achievements) != 1 || !u.Balance.IsZero() {
		t.Fatalf("clone shares state with original")
	}
}

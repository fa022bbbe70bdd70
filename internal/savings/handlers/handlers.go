package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/25x8/savings-game/internal/savings/models"
	"github.com/25x8/savings-game/internal/savings/service"
	"github.com/25x8/savings-game/internal/savings/utils"
	"go.uber.org/zap"
)

// ErrInputClosed is returned when the input stream ends mid-prompt
var ErrInputClosed = errors.New("input closed")

const barWidth = 30

// Handler handles the console menu actions of the logged in user
type Handler struct {
	Game    *service.Game
	in      *bufio.Scanner
	out     io.Writer
	log     *zap.SugaredLogger
	current *models.User
}

// NewHandler creates a new handler reading answers from in and writing to out
func NewHandler(game *service.Game, in io.Reader, out io.Writer, log *zap.SugaredLogger) *Handler {
	return &Handler{
		Game: game,
		in:   bufio.NewScanner(in),
		out:  out,
		log:  log,
	}
}

// CurrentUser returns the logged in user, nil before login
func (h *Handler) CurrentUser() *models.User {
	return h.current
}

// Prompt prints label and reads one line of input
func (h *Handler) Prompt(label string) (string, error) {
	fmt.Fprint(h.out, label)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(h.in.Text()), nil
}

func (h *Handler) printf(format string, args ...interface{}) {
	fmt.Fprintf(h.out, format, args...)
}

func (h *Handler) success(msg string) { h.printf("✓ %s\n", msg) }
func (h *Handler) failure(msg string) { h.printf("✗ %s\n", msg) }
func (h *Handler) info(msg string)    { h.printf("ℹ %s\n", msg) }

// Header prints a section title
func (h *Handler) Header(title string) {
	line := strings.Repeat("=", 50)
	h.printf("\n%s\n%s\n%s\n\n", line, title, line)
}

// Status prints the logged in user's summary line
func (h *Handler) Status() {
	if h.current == nil {
		return
	}
	h.printf("Welcome back, %s!\n", h.current.Name)
	h.printf("Balance: $%s | Level: %d | Points: %d\n\n",
		h.current.Balance.StringFixed(2), h.current.Level, h.current.TotalPoints)
}

func (h *Handler) refresh(ctx context.Context) error {
	if h.current == nil {
		return nil
	}
	user, err := h.Game.Savings.GetUser(ctx, h.current.ID)
	if err != nil {
		return err
	}
	if user != nil {
		h.current = user
	}
	return nil
}

func (h *Handler) requireLogin() bool {
	if h.current == nil {
		h.failure("Please login first.")
		return false
	}
	return true
}

func (h *Handler) listAchievements(achievements []models.Achievement, withDescription bool) {
	if len(achievements) == 0 {
		return
	}
	h.success(fmt.Sprintf("🏆 You earned %d new achievement(s)!", len(achievements)))
	for _, a := range achievements {
		if withDescription {
			h.printf("   • %s: %s\n", a.Title, a.Description)
		} else {
			h.printf("   • %s\n", a.Title)
		}
	}
}

// LoginRegister registers a new user or logs in an existing one
func (h *Handler) LoginRegister(ctx context.Context) error {
	h.Header("LOGIN / REGISTER")
	h.printf("1. Register New User\n2. Login Existing User\n")

	choice, err := h.Prompt("\nSelect option (1-2): ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		name, err := h.Prompt("Enter your name: ")
		if err != nil {
			return err
		}
		email, err := h.Prompt("Enter your email: ")
		if err != nil {
			return err
		}
		user, achievements, err := h.Game.Register(ctx, name, email)
		if errors.Is(err, service.ErrNameRequired) || errors.Is(err, service.ErrEmailRequired) {
			h.failure("Name and email are required.")
			return nil
		}
		if err != nil {
			return err
		}
		h.current = user
		h.success(fmt.Sprintf("Welcome %s! Your account has been created.", user.Name))
		if len(achievements) > 0 {
			h.success(fmt.Sprintf("You earned %d achievement(s)!", len(achievements)))
		}
		return h.refresh(ctx)

	case "2":
		users, err := h.Game.Savings.ListUsers(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			h.failure("No users found. Please register first.")
			return nil
		}
		h.printf("\nExisting users:\n")
		for i, u := range users {
			h.printf("%d. %s (%s)\n", i+1, u.Name, u.Email)
		}
		answer, err := h.Prompt("Select user number: ")
		if err != nil {
			return err
		}
		n, err := utils.ParseInt(answer)
		if err != nil {
			h.failure("Please enter a valid number.")
			return nil
		}
		if n < 1 || n > len(users) {
			h.failure("Invalid user selection.")
			return nil
		}
		h.current = users[n-1]
		h.log.Debugw("user logged in", "user_id", h.current.ID)
		h.success(fmt.Sprintf("Welcome back, %s!", h.current.Name))
		return nil

	default:
		h.failure("Invalid option.")
		return nil
	}
}

// Deposit adds money to the balance and reports the earned rewards
func (h *Handler) Deposit(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("MAKE DEPOSIT")

	answer, err := h.Prompt("Enter deposit amount: $")
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(answer)
	if err != nil {
		h.failure("Please enter a valid amount.")
		return nil
	}
	if !amount.IsPositive() {
		h.failure("Amount must be positive.")
		return nil
	}

	res, err := h.Game.Deposit(ctx, h.current.ID, amount)
	if err != nil {
		return err
	}
	if !res.Deposited {
		h.failure("Deposit failed.")
		return nil
	}
	if err := h.refresh(ctx); err != nil {
		return err
	}
	h.success(fmt.Sprintf("Deposited $%s! New balance: $%s", amount.StringFixed(2), h.current.Balance.StringFixed(2)))
	h.success(fmt.Sprintf("You earned %d points!", res.Points))
	if res.LevelUp {
		h.success("🎉 LEVEL UP! 🎉")
	}
	h.listAchievements(res.Achievements, true)
	return nil
}

// Withdraw takes money from the balance
func (h *Handler) Withdraw(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("WITHDRAW MONEY")
	h.printf("Current balance: $%s\n", h.current.Balance.StringFixed(2))

	answer, err := h.Prompt("Enter withdrawal amount: $")
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(answer)
	if err != nil {
		h.failure("Please enter a valid amount.")
		return nil
	}
	if !amount.IsPositive() {
		h.failure("Amount must be positive.")
		return nil
	}

	ok, err := h.Game.Withdraw(ctx, h.current.ID, amount)
	if err != nil {
		return err
	}
	if !ok {
		h.failure("Insufficient funds or withdrawal failed.")
		return nil
	}
	if err := h.refresh(ctx); err != nil {
		return err
	}
	h.success(fmt.Sprintf("Withdrew $%s! New balance: $%s", amount.StringFixed(2), h.current.Balance.StringFixed(2)))
	return nil
}

// CreateGoal creates a savings goal for the current user
func (h *Handler) CreateGoal(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("CREATE SAVINGS GOAL")

	title, err := h.Prompt("Goal title: ")
	if err != nil {
		return err
	}
	targetAnswer, err := h.Prompt("Target amount: $")
	if err != nil {
		return err
	}
	daysAnswer, err := h.Prompt("Deadline (days from now): ")
	if err != nil {
		return err
	}

	target, err := utils.ParseAmount(targetAnswer)
	if err != nil {
		h.failure("Please enter valid numbers.")
		return nil
	}
	days, err := utils.ParseInt(daysAnswer)
	if err != nil {
		h.failure("Please enter valid numbers.")
		return nil
	}
	if !target.IsPositive() || days <= 0 {
		h.failure("Target amount and deadline must be positive.")
		return nil
	}

	res, err := h.Game.CreateGoal(ctx, h.current.ID, title, target, days)
	if err != nil {
		return err
	}
	if res.Goal == nil {
		h.failure("Goal could not be created. A title is required.")
		return nil
	}
	h.success(fmt.Sprintf("Goal '%s' created successfully!", res.Goal.Title))
	h.info(fmt.Sprintf("Target: $%s | Deadline: %d days", target.StringFixed(2), days))
	h.success(fmt.Sprintf("You earned %d points for creating a goal!", res.Points))
	if res.LevelUp {
		h.success("🎉 LEVEL UP! 🎉")
	}
	return h.refresh(ctx)
}

// ViewGoals lists the user's goals and offers to contribute to one of them
func (h *Handler) ViewGoals(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("YOUR SAVINGS GOALS")

	goals, err := h.Game.Savings.UserGoals(ctx, h.current.ID)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		h.info("No goals created yet. Create your first goal to get started!")
		return nil
	}

	for i, g := range goals {
		status := "🔄 IN PROGRESS"
		if g.IsCompleted {
			status = "✅ COMPLETED"
		}
		pct := g.ProgressPercentage()
		h.printf("\n%d. %s\n", i+1, g.Title)
		h.printf("   Status: %s\n", status)
		h.printf("   Progress: $%s / $%s (%.1f%%)\n", g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), pct)
		h.printf("   Days remaining: %d\n", g.DaysRemaining())
		h.printf("   [%s] %.1f%%\n", utils.ProgressBar(g.ProgressFraction(), barWidth), pct)
	}

	answer, err := h.Prompt("\nWould you like to add progress to a goal? (y/n): ")
	if err != nil {
		return err
	}
	if strings.ToLower(answer) != "y" {
		return nil
	}
	return h.contribute(ctx, goals)
}

func (h *Handler) contribute(ctx context.Context, goals []*models.SavingsGoal) error {
	answer, err := h.Prompt("Enter goal number: ")
	if err != nil {
		return err
	}
	n, err := utils.ParseInt(answer)
	if err != nil {
		h.failure("Please enter valid numbers.")
		return nil
	}
	if n < 1 || n > len(goals) {
		h.failure("Invalid goal number.")
		return nil
	}
	goal := goals[n-1]
	if goal.IsCompleted {
		h.info("This goal is already completed!")
		return nil
	}

	answer, err = h.Prompt(fmt.Sprintf("Add progress amount for '%s': $", goal.Title))
	if err != nil {
		return err
	}
	amount, err := utils.ParseAmount(answer)
	if err != nil {
		h.failure("Please enter valid numbers.")
		return nil
	}

	res, err := h.Game.Contribute(ctx, h.current.ID, goal.ID, amount)
	if err != nil {
		return err
	}
	switch res.Status {
	case service.ContributionInvalidAmount:
		h.failure("Amount must be positive.")
		return nil
	case service.ContributionInsufficientBalance:
		h.failure("Insufficient balance!")
		return nil
	case service.ContributionGoalCompleted:
		h.info("This goal is already completed!")
		return nil
	case service.ContributionUnknownGoal, service.ContributionUnknownUser:
		h.failure("Goal not found.")
		return nil
	}

	h.success(fmt.Sprintf("Added $%s to '%s'!", amount.StringFixed(2), goal.Title))
	h.success(fmt.Sprintf("You earned %d points!", res.Points))
	if res.Completed {
		h.success("🎉 GOAL COMPLETED! 🎉")
		h.success(fmt.Sprintf("Bonus: %d points for completing the goal!", res.BonusPoints))
	}
	if res.LevelUp {
		h.success("🎉 LEVEL UP! 🎉")
	}
	h.listAchievements(res.Achievements, false)
	return h.refresh(ctx)
}

// GameStats prints level, points, goal and achievement counts
func (h *Handler) GameStats(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("GAME STATISTICS")

	s, err := h.Game.Stats(ctx, h.current.ID)
	if err != nil {
		return err
	}
	if s == nil {
		h.failure("User not found.")
		return nil
	}
	h.current = s.User

	h.printf("👤 Player: %s\n", s.User.Name)
	h.printf("🎮 Level: %d\n", s.User.Level)
	h.printf("⭐ Points: %d\n", s.User.TotalPoints)
	h.printf("💰 Balance: $%s\n", s.User.Balance.StringFixed(2))
	if s.PointsToNextLevel > 0 {
		h.printf("🚀 Points to next level: %d\n", s.PointsToNextLevel)
	}

	h.printf("\n🎯 Goals Statistics:\n")
	h.printf("   Total Goals: %d\n", s.TotalGoals)
	h.printf("   Completed: %d\n", s.CompletedGoals)
	h.printf("   In Progress: %d\n", s.ActiveGoals)

	h.printf("\n🏆 Achievements:\n")
	h.printf("   Earned: %d\n", s.EarnedAchievements)
	h.printf("   Available: %d\n", s.AvailableAchievements)
	return nil
}

// Achievements prints earned and still available achievements
func (h *Handler) Achievements(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("ACHIEVEMENTS")

	earned, err := h.Game.Gamification.UserAchievements(ctx, h.current.ID)
	if err != nil {
		return err
	}
	available, err := h.Game.Gamification.AvailableAchievements(ctx, h.current.ID)
	if err != nil {
		return err
	}

	if len(earned) > 0 {
		h.printf("🏆 EARNED ACHIEVEMENTS:\n\n")
		for _, a := range earned {
			h.printf("✅ %s (+%d points)\n   %s\n\n", a.Title, a.PointsReward, a.Description)
		}
	}
	if len(available) > 0 {
		h.printf("🎯 AVAILABLE ACHIEVEMENTS:\n\n")
		for _, a := range available {
			h.printf("🔲 %s (+%d points)\n   %s\n\n", a.Title, a.PointsReward, a.Description)
		}
	}
	if len(earned) == 0 && len(available) == 0 {
		h.info("No achievements found.")
	}
	return nil
}

// Progress prints the savings overview
func (h *Handler) Progress(ctx context.Context) error {
	if !h.requireLogin() {
		return nil
	}
	h.Header("PROGRESS OVERVIEW")

	o, err := h.Game.Overview(ctx, h.current.ID)
	if err != nil {
		return err
	}
	if o == nil {
		h.failure("User not found.")
		return nil
	}
	h.current = o.User

	h.printf("💰 Total Saved: $%s\n", o.TotalSaved.StringFixed(2))
	h.printf("🎯 Total Targets: $%s\n", o.TotalTargets.StringFixed(2))
	h.printf("💼 Available Balance: $%s\n", o.User.Balance.StringFixed(2))
	if o.TotalTargets.IsPositive() {
		h.printf("📊 Overall Goal Progress: %.1f%%\n", o.OverallProgress)
	}

	h.printf("\n📈 Quick Stats:\n")
	h.printf("   • Level %d (%d points)\n", o.User.Level, o.User.TotalPoints)
	h.printf("   • %d goals completed\n", o.CompletedGoals)
	h.printf("   • %d goals in progress\n", o.ActiveGoals)
	h.printf("   • %d achievements earned\n", o.Achievements)

	switch o.Motivation {
	case service.MotivationAmazing:
		h.printf("\n🌟 You're doing amazing! Keep up the great work!\n")
	case service.MotivationProgress:
		h.printf("\n🚀 You're making progress! Keep saving to level up!\n")
	default:
		h.printf("\n💪 Start your savings journey today!\n")
	}
	return nil
}

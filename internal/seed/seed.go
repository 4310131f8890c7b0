// Package seed installs a fixed demo dataset for development setups.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

const demoUsername = "demo"

// Run inserts the demo user and a month of activity. It is idempotent:
// when the demo user already exists nothing is touched.
func Run(ctx context.Context, repo store.Repository) error {
	if _, err := repo.GetUserByUsername(ctx, demoUsername); err == nil {
		slog.InfoContext(ctx, "Demo data already present, skipping seed")
		return nil
	} else if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("check demo user: %w", err)
	}

	hash, err := auth.HashPassword("demo1234")
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	user, err := repo.CreateUser(ctx, core.NewUser{
		Username: demoUsername,
		Email:    "demo@example.com",
		Password: hash,
	})
	if err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	checking, err := repo.CreateAccount(ctx, core.NewAccount{
		UserID:  user.ID,
		Name:    "Checking",
		Type:    "checking",
		Balance: core.Money{Cents: 1500_50},
	})
	if err != nil {
		return fmt.Errorf("create checking account: %w", err)
	}
	if _, err := repo.CreateAccount(ctx, core.NewAccount{
		UserID:  user.ID,
		Name:    "Savings",
		Type:    "savings",
		Balance: core.Money{Cents: 8200_00},
	}); err != nil {
		return fmt.Errorf("create savings account: %w", err)
	}

	salary, err := repo.CreateCategory(ctx, core.NewCategory{
		UserID: user.ID, Name: "Salary", Type: core.Income, Color: "#2e7d32", Icon: "briefcase",
	})
	if err != nil {
		return fmt.Errorf("create salary category: %w", err)
	}
	housing, err := repo.CreateCategory(ctx, core.NewCategory{
		UserID: user.ID, Name: "Housing", Type: core.Expense, Color: "#8d6e63", Icon: "home",
	})
	if err != nil {
		return fmt.Errorf("create housing category: %w", err)
	}
	food, err := repo.CreateCategory(ctx, core.NewCategory{
		UserID: user.ID, Name: "Food", Type: core.Expense, Color: "#ef6c00", Icon: "cart",
	})
	if err != nil {
		return fmt.Errorf("create food category: %w", err)
	}
	subscriptions, err := repo.CreateCategory(ctx, core.NewCategory{
		UserID: user.ID, Name: "Subscriptions", Type: core.Expense, Color: "#5e35b1", Icon: "repeat",
	})
	if err != nil {
		return fmt.Errorf("create subscriptions category: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	transactions := []core.NewTransaction{
		{
			UserID: user.ID, AccountID: checking.ID, CategoryID: salary.ID,
			Amount: core.Money{Cents: 2620_00}, Description: "Monthly salary",
			Date: monthStart, Type: core.Income, PaymentMethod: "transfer",
		},
		{
			UserID: user.ID, AccountID: checking.ID, CategoryID: housing.ID,
			Amount: core.Money{Cents: 1450_00}, Description: "Rent",
			Date: monthStart.AddDate(0, 0, 2), Type: core.Expense, PaymentMethod: "transfer",
		},
		{
			UserID: user.ID, AccountID: checking.ID, CategoryID: food.ID,
			Amount: core.Money{Cents: 84_32}, Description: "Weekly groceries",
			Date: monthStart.AddDate(0, 0, 5), Type: core.Expense, PaymentMethod: "card",
		},
		{
			UserID: user.ID, AccountID: checking.ID, CategoryID: food.ID,
			Amount: core.Money{Cents: 45_67}, Description: "Dinner out",
			Date: monthStart.AddDate(0, 0, 9), Type: core.Expense, PaymentMethod: "card",
		},
		{
			UserID: user.ID, AccountID: checking.ID, CategoryID: subscriptions.ID,
			Amount: core.Money{Cents: 14_99}, Description: "Streaming subscription",
			Date: monthStart.AddDate(0, 0, 12), Type: core.Expense, PaymentMethod: "card",
		},
	}
	for _, nt := range transactions {
		if _, err := repo.CreateTransaction(ctx, nt); err != nil {
			return fmt.Errorf("create transaction %q: %w", nt.Description, err)
		}
	}

	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	if _, err := repo.CreateBudget(ctx, core.NewBudget{
		UserID:     user.ID,
		CategoryID: food.ID,
		Amount:     core.Money{Cents: 200_00},
		Period:     "monthly",
		StartDate:  monthStart,
		EndDate:    monthEnd,
	}); err != nil {
		return fmt.Errorf("create food budget: %w", err)
	}

	slog.InfoContext(ctx, "Seeded demo data", log.FieldUserID, user.ID, "transactions", len(transactions))
	return nil
}

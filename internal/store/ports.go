// Package store defines the repository contract the rest of the system
// is written against. Implementations live in the memory and sqlite
// subpackages; nothing above this package may assume which one it got.
package store

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Ports for the per-kind store operations. Lookups report a missing
// record with core.ErrNotFound; callers treat that as a normal outcome
// everywhere except UpdateAccountBalance, where it is a hard failure.
type (
	UserStore interface {
		CreateUser(ctx context.Context, n core.NewUser) (core.User, error)
		GetUser(ctx context.Context, id int64) (core.User, error)
		// GetUserByUsername matches case-insensitively; if duplicates
		// slipped in, the first match wins.
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
	}

	AccountStore interface {
		CreateAccount(ctx context.Context, n core.NewAccount) (core.Account, error)
		GetAccount(ctx context.Context, id int64) (core.Account, error)
		ListAccountsByUser(ctx context.Context, userID int64) ([]core.Account, error)
		// UpdateAccountBalance is the only mutation in the model. It
		// replaces the stored balance and returns the updated record.
		UpdateAccountBalance(ctx context.Context, id int64, balance core.Money) (core.Account, error)
	}

	CategoryStore interface {
		CreateCategory(ctx context.Context, n core.NewCategory) (core.Category, error)
		GetCategory(ctx context.Context, id int64) (core.Category, error)
		ListCategoriesByUser(ctx context.Context, userID int64) ([]core.Category, error)
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, n core.NewTransaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		// ListTransactionsByUser returns newest first; equal dates fall
		// back to descending id so the order is deterministic.
		ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
		// ListTransactionsByDateRange is inclusive on both bounds.
		ListTransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error)
		ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, n core.NewBudget) (core.Budget, error)
		GetBudget(ctx context.Context, id int64) (core.Budget, error)
		ListBudgetsByUser(ctx context.Context, userID int64) ([]core.Budget, error)
	}

	// ExportQueue tracks which transactions still have to be pushed to
	// the external ledger. The worker drains it; MarkExported is
	// idempotent.
	ExportQueue interface {
		ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
		MarkExported(ctx context.Context, transactionID int64) error
	}
)

// Repository bundles every port. The memory and sqlite backends both
// satisfy it.
type Repository interface {
	UserStore
	AccountStore
	CategoryStore
	TransactionStore
	BudgetStore
	ExportQueue
}

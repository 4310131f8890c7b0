package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateUser(ctx, core.NewUser{
		Username: "demo", Email: "demo@example.com", Password: "hash", Name: "Demo",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := repo.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, got.Username)
	assert.Equal(t, created.Email, got.Email)

	byName, err := repo.GetUserByUsername(ctx, "DEMO")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.GetUserByEmail(ctx, "Demo@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetUser(ctx, 99)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAccountBalanceUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	acc, err := repo.CreateAccount(ctx, core.NewAccount{
		UserID: 1, Name: "Checking", Type: "checking", Balance: core.Money{Cents: 500_00},
	})
	require.NoError(t, err)

	updated, err := repo.UpdateAccountBalance(ctx, acc.ID, core.Money{Cents: 100_00})
	require.NoError(t, err)
	assert.Equal(t, int64(100_00), updated.Balance.Cents)
	assert.Equal(t, acc.Name, updated.Name)

	_, err = repo.UpdateAccountBalance(ctx, 99, core.Money{Cents: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTransactionOrderingAndRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	mk := func(day time.Time) core.Transaction {
		tx, err := repo.CreateTransaction(ctx, core.NewTransaction{
			UserID: 1, AccountID: 1, Amount: core.Money{Cents: 100},
			Description: "tx", Date: day, Type: core.Expense,
		})
		require.NoError(t, err)
		return tx
	}

	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	jan10 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mk(jan1)
	mk(jan15)
	mk(jan10)

	txs, err := repo.ListTransactionsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.True(t, txs[0].Date.Equal(jan15))
	assert.True(t, txs[1].Date.Equal(jan10))
	assert.True(t, txs[2].Date.Equal(jan1))

	ranged, err := repo.ListTransactionsByDateRange(ctx, 1, jan1, jan10)
	require.NoError(t, err)
	require.Len(t, ranged, 2, "range bounds are inclusive")

	recent, err := repo.ListRecentTransactions(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].Date.Equal(jan15))
}

func TestExportQueue(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	tx, err := repo.CreateTransaction(ctx, core.NewTransaction{
		UserID: 1, AccountID: 1, Amount: core.Money{Cents: 100},
		Description: "tx", Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Type: core.Expense,
	})
	require.NoError(t, err)

	pending, err := repo.ListUnexportedTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkExported(ctx, tx.ID))

	pending, err = repo.ListUnexportedTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, repo.MarkExported(ctx, 999), core.ErrNotFound)
}

func TestBudgetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateBudget(ctx, core.NewBudget{
		UserID: 1, CategoryID: 1, Amount: core.Money{Cents: 200_00},
		Period: "monthly", StartDate: start, EndDate: end,
	})
	require.NoError(t, err)

	got, err := repo.GetBudget(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200_00), got.Amount.Cents)

	list, err := repo.ListBudgetsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

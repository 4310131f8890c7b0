package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := 1; i <= 5; i++ {
		u, err := s.CreateUser(ctx, core.NewUser{
			Username: "user" + string(rune('0'+i)),
			Email:    "user" + string(rune('0'+i)) + "@example.com",
			Password: "hash",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i), u.ID)
	}
}

func TestCreateUserStampsCreatedAt(t *testing.T) {
	ctx := context.Background()
	fixed := date(2025, time.March, 14)
	s := NewWithClock(func() time.Time { return fixed })

	u, err := s.CreateUser(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.True(t, u.CreatedAt.Equal(fixed))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestGetUserNotFound(t *testing.T) {
	s := New()
	_, err := s.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetUserByUsernameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateUser(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "hash"})
	require.NoError(t, err)

	for _, name := range []string{"demo", "Demo", "DEMO"} {
		got, err := s.GetUserByUsername(ctx, name)
		require.NoError(t, err, "lookup %q", name)
		assert.Equal(t, created.ID, got.ID)
	}

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateUser(ctx, core.NewUser{Username: "demo", Email: "Demo@Example.com", Password: "hash"})
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateAccountBalance(t *testing.T) {
	ctx := context.Background()
	s := New()

	acc, err := s.CreateAccount(ctx, core.NewAccount{
		UserID:  1,
		Name:    "Checking",
		Type:    "checking",
		Balance: core.Money{Cents: 500_00},
	})
	require.NoError(t, err)

	updated, err := s.UpdateAccountBalance(ctx, acc.ID, core.Money{Cents: 100_00})
	require.NoError(t, err)
	assert.Equal(t, int64(100_00), updated.Balance.Cents)

	// Only the balance changes.
	acc.Balance = core.Money{Cents: 100_00}
	assert.Equal(t, acc, updated)

	stored, err := s.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateAccountBalanceNotFound(t *testing.T) {
	s := New()
	_, err := s.UpdateAccountBalance(context.Background(), 99, core.Money{Cents: 1})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListAccountsByUserFiltersOwner(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, userID := range []int64{1, 2, 1} {
		_, err := s.CreateAccount(ctx, core.NewAccount{UserID: userID, Name: "acc", Type: "checking"})
		require.NoError(t, err)
	}

	accs, err := s.ListAccountsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, accs, 2)
	assert.Equal(t, int64(1), accs[0].ID)
	assert.Equal(t, int64(3), accs[1].ID)
}

func mustCreateTransaction(t *testing.T, s *Store, userID int64, day time.Time, amountCents int64, typ core.TransactionType) core.Transaction {
	t.Helper()
	tx, err := s.CreateTransaction(context.Background(), core.NewTransaction{
		UserID:      userID,
		AccountID:   1,
		Amount:      core.Money{Cents: amountCents},
		Description: "tx",
		Date:        day,
		Type:        typ,
	})
	require.NoError(t, err)
	return tx
}

func TestListTransactionsByUserDescendingByDate(t *testing.T) {
	ctx := context.Background()
	s := New()

	mustCreateTransaction(t, s, 1, date(2025, time.January, 1), 100, core.Expense)
	mustCreateTransaction(t, s, 1, date(2025, time.January, 15), 200, core.Expense)
	mustCreateTransaction(t, s, 1, date(2025, time.January, 10), 300, core.Expense)

	txs, err := s.ListTransactionsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, date(2025, time.January, 15), txs[0].Date)
	assert.Equal(t, date(2025, time.January, 10), txs[1].Date)
	assert.Equal(t, date(2025, time.January, 1), txs[2].Date)
}

func TestListTransactionsTieBreakOnID(t *testing.T) {
	ctx := context.Background()
	s := New()
	same := date(2025, time.February, 2)

	first := mustCreateTransaction(t, s, 1, same, 100, core.Expense)
	second := mustCreateTransaction(t, s, 1, same, 200, core.Expense)

	txs, err := s.ListTransactionsByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID)
	assert.Equal(t, first.ID, txs[1].ID)
}

func TestListTransactionsByDateRangeInclusiveBounds(t *testing.T) {
	ctx := context.Background()
	s := New()

	start := date(2025, time.March, 1)
	end := date(2025, time.March, 31)

	atStart := mustCreateTransaction(t, s, 1, start, 100, core.Expense)
	atEnd := mustCreateTransaction(t, s, 1, end, 200, core.Expense)
	mustCreateTransaction(t, s, 1, date(2025, time.February, 28), 300, core.Expense)
	mustCreateTransaction(t, s, 1, date(2025, time.April, 1), 400, core.Expense)

	txs, err := s.ListTransactionsByDateRange(ctx, 1, start, end)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, atEnd.ID, txs[0].ID)
	assert.Equal(t, atStart.ID, txs[1].ID)
}

func TestListRecentTransactionsLimit(t *testing.T) {
	ctx := context.Background()
	s := New()

	for day := 1; day <= 5; day++ {
		mustCreateTransaction(t, s, 1, date(2025, time.May, day), int64(day), core.Expense)
	}

	txs, err := s.ListRecentTransactions(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, date(2025, time.May, 5), txs[0].Date)
	assert.Equal(t, date(2025, time.May, 4), txs[1].Date)
}

func TestTransactionIDsMonotonicAcrossKinds(t *testing.T) {
	ctx := context.Background()
	s := New()

	// Counters are independent per kind.
	u, err := s.CreateUser(ctx, core.NewUser{Username: "a", Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	acc, err := s.CreateAccount(ctx, core.NewAccount{UserID: u.ID, Name: "acc", Type: "cash"})
	require.NoError(t, err)
	tx := mustCreateTransaction(t, s, u.ID, date(2025, time.June, 1), 100, core.Income)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, int64(1), acc.ID)
	assert.Equal(t, int64(1), tx.ID)
}

func TestExportQueue(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := mustCreateTransaction(t, s, 1, date(2025, time.July, 1), 100, core.Expense)
	second := mustCreateTransaction(t, s, 1, date(2025, time.July, 2), 200, core.Expense)

	pending, err := s.ListUnexportedTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, s.MarkExported(ctx, first.ID))

	pending, err = s.ListUnexportedTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	// Marking twice is fine.
	require.NoError(t, s.MarkExported(ctx, first.ID))
	assert.ErrorIs(t, s.MarkExported(ctx, 999), core.ErrNotFound)
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.CreateTransaction(ctx, core.NewTransaction{
		UserID:      1,
		AccountID:   1,
		Amount:      core.Money{Cents: 0},
		Description: "zero",
		Date:        date(2025, time.July, 1),
		Type:        core.Expense,
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

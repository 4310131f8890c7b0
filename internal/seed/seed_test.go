package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func TestRunSeedsDemoData(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, Run(ctx, s))

	user, err := s.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)

	accounts, err := s.ListAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	categories, err := s.ListCategoriesByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	txs, err := s.ListTransactionsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 5)

	var totalExpenses int64
	for _, tx := range txs {
		if tx.Type == core.Expense {
			totalExpenses += tx.Amount.Cents
		}
	}
	assert.Equal(t, int64(1594_98), totalExpenses)

	budgets, err := s.ListBudgetsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, budgets, 1)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, Run(ctx, s))
	require.NoError(t, Run(ctx, s))

	user, err := s.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)

	txs, err := s.ListTransactionsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 5, "second run must not duplicate data")
}

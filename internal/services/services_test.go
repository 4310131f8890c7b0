package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func newAuthFixture(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	s := memory.New()
	sessions := auth.NewSessions(time.Hour)
	t.Cleanup(sessions.Stop)
	return NewAuthService(s, sessions), s
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), core.NewUser{
		Username: "demo",
		Email:    "demo@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")
	assert.True(t, auth.CheckPassword("hunter22", user.Password))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "pw123456"})
	require.NoError(t, err)

	// Username collision is case-insensitive.
	_, err = svc.Register(ctx, core.NewUser{Username: "DEMO", Email: "other@example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, core.NewUser{Username: "other", Email: "Demo@Example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginAndLogout(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "pw123456"})
	require.NoError(t, err)

	user, session, err := svc.Login(ctx, "demo", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.NotEmpty(t, session.Token)

	_, _, err = svc.Login(ctx, "demo", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "pw123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	svc.Logout(ctx, session.Token)
	_, ok := svc.sessions.Validate(session.Token)
	assert.False(t, ok, "revoked session must not validate")
}

func TestCreateTransactionAdjustsBalance(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	svc := NewTransactionService(s, nil)

	user, err := s.CreateUser(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "hash"})
	require.NoError(t, err)
	acc, err := s.CreateAccount(ctx, core.NewAccount{UserID: user.ID, Name: "Checking", Type: "checking", Balance: core.Money{Cents: 100_00}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, core.NewTransaction{
		UserID:      user.ID,
		AccountID:   acc.ID,
		Amount:      core.Money{Cents: 25_50},
		Description: "groceries",
		Date:        time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Type:        core.Expense,
	})
	require.NoError(t, err)

	got, err := s.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(74_50), got.Balance.Cents)

	_, err = svc.Create(ctx, core.NewTransaction{
		UserID:      user.ID,
		AccountID:   acc.ID,
		Amount:      core.Money{Cents: 200_00},
		Description: "salary",
		Date:        time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC),
		Type:        core.Income,
	})
	require.NoError(t, err)

	got, err = s.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(274_50), got.Balance.Cents)
}

func TestCreateTransactionUnknownAccount(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	svc := NewTransactionService(s, nil)

	user, err := s.CreateUser(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "hash"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, core.NewTransaction{
		UserID:      user.ID,
		AccountID:   42,
		Amount:      core.Money{Cents: 10_00},
		Description: "ghost",
		Date:        time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Type:        core.Expense,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)

	txs, err := s.ListRecentTransactions(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, txs, "nothing may be stored when the account is missing")
}

func TestCreateTransactionValidates(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)

	_, err := svc.Create(context.Background(), core.NewTransaction{
		UserID:      1,
		AccountID:   1,
		Amount:      core.Money{Cents: -5},
		Description: "bad",
		Date:        time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Type:        core.Expense,
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

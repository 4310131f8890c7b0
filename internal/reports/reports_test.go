package reports

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func seedUserWithAccount(t *testing.T, s *memory.Store) (core.User, core.Account) {
	t.Helper()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, core.NewUser{Username: "demo", Email: "demo@example.com", Password: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	a, err := s.CreateAccount(ctx, core.NewAccount{UserID: u.ID, Name: "Checking", Type: "checking"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return u, a
}

func addTx(t *testing.T, s *memory.Store, userID, accountID, categoryID int64, cents int64, day time.Time, typ core.TransactionType) core.Transaction {
	t.Helper()
	tx, err := s.CreateTransaction(context.Background(), core.NewTransaction{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Amount:      core.Money{Cents: cents},
		Description: "tx",
		Date:        day,
		Type:        typ,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, time.February, time.UTC)
	if got, want := start, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("start = %v, want %v", got, want)
	}
	if got, want := end, time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("end = %v, want %v", got, want)
	}
}

func TestBudgetProgress(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	food, err := s.CreateCategory(ctx, core.NewCategory{UserID: u.ID, Name: "Food", Type: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	budget, err := s.CreateBudget(ctx, core.NewBudget{
		UserID:     u.ID,
		CategoryID: food.ID,
		Amount:     core.Money{Cents: 200_00},
		Period:     "monthly",
		StartDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	addTx(t, s, u.ID, a.ID, food.ID, 50_00, time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), core.Expense)
	addTx(t, s, u.ID, a.ID, food.ID, 30_00, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), core.Expense)
	// Outside the month, income, and uncategorized: all excluded.
	addTx(t, s, u.ID, a.ID, food.ID, 10_00, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), core.Expense)
	addTx(t, s, u.ID, a.ID, food.ID, 99_00, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), core.Income)
	addTx(t, s, u.ID, a.ID, 0, 5_00, time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), core.Expense)

	progress, err := BudgetProgress(ctx, s, u.ID, 2025, time.August)
	if err != nil {
		t.Fatalf("budget progress: %v", err)
	}
	if got := progress[budget.ID].Cents; got != 80_00 {
		t.Fatalf("spent = %d cents, want 8000", got)
	}
}

func TestBudgetProgressDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, _ := seedUserWithAccount(t, s)

	travel, err := s.CreateCategory(ctx, core.NewCategory{UserID: u.ID, Name: "Travel", Type: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	budget, err := s.CreateBudget(ctx, core.NewBudget{
		UserID:     u.ID,
		CategoryID: travel.ID,
		Amount:     core.Money{Cents: 500_00},
		Period:     "monthly",
		StartDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	progress, err := BudgetProgress(ctx, s, u.ID, 2025, time.August)
	if err != nil {
		t.Fatalf("budget progress: %v", err)
	}
	spent, ok := progress[budget.ID]
	if !ok {
		t.Fatalf("budget %d missing from progress", budget.ID)
	}
	if spent.Cents != 0 {
		t.Fatalf("spent = %d cents, want 0", spent.Cents)
	}
}

func TestMonthlySummaryTotals(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	ref := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	addTx(t, s, u.ID, a.ID, 0, 2620_00, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), core.Income)
	for _, cents := range []int64{1450_00, 84_32, 45_67, 14_99} {
		addTx(t, s, u.ID, a.ID, 0, cents, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), core.Expense)
	}

	sum, err := MonthlySummary(ctx, s, u.ID, ref)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if got := sum.Current.Income.Cents; got != 2620_00 {
		t.Fatalf("income = %d, want 262000", got)
	}
	if got := sum.Current.Expenses.Cents; got != 1594_98 {
		t.Fatalf("expenses = %d, want 159498", got)
	}
	if got := sum.Current.Savings.Cents; got != 1025_02 {
		t.Fatalf("savings = %d, want 102502", got)
	}
}

func TestMonthlySummaryZeroPreviousMeansZeroChange(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	ref := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	addTx(t, s, u.ID, a.ID, 0, 500_00, time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC), core.Income)

	sum, err := MonthlySummary(ctx, s, u.ID, ref)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if sum.IncomeChange != 0 {
		t.Fatalf("income change = %v, want 0 when previous month is empty", sum.IncomeChange)
	}
}

func TestMonthlySummaryBoundsAreUTC(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	// Stored dates are UTC midnights. A reference late on Aug 31 in a
	// zone west of UTC must not pull the Sep 1 transaction into August.
	addTx(t, s, u.ID, a.ID, 0, 100_00, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), core.Income)
	addTx(t, s, u.ID, a.ID, 0, 40_00, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), core.Income)

	honolulu := time.FixedZone("HST", -10*60*60)
	ref := time.Date(2025, 8, 31, 20, 0, 0, 0, honolulu)

	sum, err := MonthlySummary(ctx, s, u.ID, ref)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	// Aug 31 20:00 HST is already Sep 1 in UTC, so September is the
	// current month and August the previous one.
	if got := sum.Current.Income.Cents; got != 100_00 {
		t.Fatalf("current income = %d, want 10000", got)
	}
	if got := sum.Previous.Income.Cents; got != 40_00 {
		t.Fatalf("previous income = %d, want 4000", got)
	}
}

func TestMonthlySummaryPercentChange(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	ref := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	addTx(t, s, u.ID, a.ID, 0, 100_00, time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), core.Income)
	addTx(t, s, u.ID, a.ID, 0, 150_00, time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC), core.Income)

	sum, err := MonthlySummary(ctx, s, u.ID, ref)
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if sum.IncomeChange != 50 {
		t.Fatalf("income change = %v, want 50", sum.IncomeChange)
	}
}

func TestMonthlySummaryTotalBalance(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	if _, err := s.UpdateAccountBalance(ctx, a.ID, core.Money{Cents: 1200_00}); err != nil {
		t.Fatalf("update balance: %v", err)
	}
	if _, err := s.CreateAccount(ctx, core.NewAccount{
		UserID: u.ID, Name: "Savings", Type: "savings", Balance: core.Money{Cents: 300_50},
	}); err != nil {
		t.Fatalf("create account: %v", err)
	}

	sum, err := MonthlySummary(ctx, s, u.ID, time.Now())
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if got := sum.TotalBalance.Cents; got != 1500_50 {
		t.Fatalf("total balance = %d, want 150050", got)
	}
	if len(sum.Trend) == 0 {
		t.Fatalf("expected placeholder trend series")
	}
}

func TestFeedStart(t *testing.T) {
	now := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		timeframe string
		want      time.Time
	}{
		{TimeframeWeek, now.AddDate(0, 0, -7)},
		{TimeframeMonth, now.AddDate(0, 0, -30)},
		{TimeframeQuarter, now.AddDate(0, 0, -90)},
		{TimeframeYTD, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"bogus", now.AddDate(0, 0, -7)}, // unknown values default to 7 days
		{"", now.AddDate(0, 0, -7)},
	}
	for _, tc := range cases {
		if got := FeedStart(tc.timeframe, now); !got.Equal(tc.want) {
			t.Fatalf("FeedStart(%q) = %v, want %v", tc.timeframe, got, tc.want)
		}
	}
}

func TestTransactionFeedCategoryFilter(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	u, a := seedUserWithAccount(t, s)

	now := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	food, err := s.CreateCategory(ctx, core.NewCategory{UserID: u.ID, Name: "Food", Type: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	inWindow := addTx(t, s, u.ID, a.ID, food.ID, 10_00, now.AddDate(0, 0, -2), core.Expense)
	addTx(t, s, u.ID, a.ID, 0, 20_00, now.AddDate(0, 0, -3), core.Expense)
	addTx(t, s, u.ID, a.ID, food.ID, 30_00, now.AddDate(0, 0, -40), core.Expense) // outside 7-day window

	feed, err := TransactionFeed(ctx, s, u.ID, TimeframeWeek, food.ID, now)
	if err != nil {
		t.Fatalf("transaction feed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != inWindow.ID {
		t.Fatalf("feed = %+v, want only transaction %d", feed, inWindow.ID)
	}
}

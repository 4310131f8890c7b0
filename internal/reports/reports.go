// Package reports derives computed views from repository query results:
// budget progress, month-over-month summaries, and the filtered
// transaction feed. It keeps no state and caches nothing; the underlying
// data set is small and volatile, so every call recomputes.
package reports

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Timeframe shortcuts accepted by TransactionFeed. Anything else falls
// back to TimeframeWeek.
const (
	TimeframeWeek    = "7days"
	TimeframeMonth   = "30days"
	TimeframeQuarter = "90days"
	TimeframeYTD     = "year"
)

type (
	// MonthTotals are the income/expense/savings sums for one calendar
	// month.
	MonthTotals struct {
		Income   core.Money
		Expenses core.Money
		Savings  core.Money
	}

	// TrendPoint is one month of the historical series attached to the
	// summary.
	TrendPoint struct {
		Month   string
		Income  core.Money
		Savings core.Money
	}

	// Summary is the month-over-month financial overview. Percent
	// changes are 0 whenever the previous month's figure is 0; that is a
	// deliberate simplification to keep the numbers finite.
	Summary struct {
		Current         MonthTotals
		Previous        MonthTotals
		IncomeChange    float64
		ExpensesChange  float64
		SavingsChange   float64
		TotalBalance    core.Money
		Trend           []TrendPoint
	}
)

// MonthRange returns the inclusive bounds of a calendar month: first day
// 00:00:00 through last day 23:59:59.
func MonthRange(year int, month time.Month, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// BudgetProgress reports, for every budget the user has, how much was
// spent in that budget's category during the given month. Budgets whose
// category saw no expenses map to zero.
func BudgetProgress(ctx context.Context, repo store.Repository, userID int64, year int, month time.Month) (map[int64]core.Money, error) {
	start, end := MonthRange(year, month, time.UTC)

	txs, err := repo.ListTransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %d-%02d: %w", year, month, err)
	}

	// Single pass: expense totals grouped by category. Uncategorized
	// transactions belong to no group.
	spentByCategory := make(map[int64]int64)
	for _, t := range txs {
		if t.Type != core.Expense || t.CategoryID == 0 {
			continue
		}
		spentByCategory[t.CategoryID] += t.Amount.Cents
	}

	budgets, err := repo.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	progress := make(map[int64]core.Money, len(budgets))
	for _, b := range budgets {
		progress[b.ID] = core.Money{Cents: spentByCategory[b.CategoryID]}
	}
	return progress, nil
}

// MonthlySummary computes the financial summary for the month containing
// ref, compared against the month before it. TotalBalance is the current
// snapshot across all of the user's accounts, not scoped to the month.
func MonthlySummary(ctx context.Context, repo store.Repository, userID int64, ref time.Time) (Summary, error) {
	// Transaction dates are stored as UTC midnights, so the calendar
	// month is resolved in UTC regardless of the caller's zone.
	ref = ref.UTC()
	current, err := monthTotals(ctx, repo, userID, ref)
	if err != nil {
		return Summary{}, err
	}
	previous, err := monthTotals(ctx, repo, userID, ref.AddDate(0, -1, 0))
	if err != nil {
		return Summary{}, err
	}

	accounts, err := repo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("list accounts: %w", err)
	}
	var total core.Money
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	return Summary{
		Current:        current,
		Previous:       previous,
		IncomeChange:   percentChange(current.Income.Cents, previous.Income.Cents),
		ExpensesChange: percentChange(current.Expenses.Cents, previous.Expenses.Cents),
		SavingsChange:  percentChange(current.Savings.Cents, previous.Savings.Cents),
		TotalBalance:   total,
		Trend:          defaultTrend(),
	}, nil
}

func monthTotals(ctx context.Context, repo store.Repository, userID int64, ref time.Time) (MonthTotals, error) {
	start, end := MonthRange(ref.Year(), ref.Month(), time.UTC)
	txs, err := repo.ListTransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return MonthTotals{}, fmt.Errorf("list transactions for %s: %w", start.Format("2006-01"), err)
	}

	var totals MonthTotals
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			totals.Income.Cents += t.Amount.Cents
		case core.Expense:
			totals.Expenses.Cents += t.Amount.Cents
		}
	}
	totals.Savings = core.Money{Cents: totals.Income.Cents - totals.Expenses.Cents}
	return totals, nil
}

// percentChange is (current-previous)/previous*100, defined as exactly 0
// when previous is 0.
func percentChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// defaultTrend is placeholder history. It is intentionally not derived
// from stored transactions; the trend chart predates real history
// tracking and callers treat it as a stub.
func defaultTrend() []TrendPoint {
	return []TrendPoint{
		{Month: "Jan", Income: core.Money{Cents: 2400_00}, Savings: core.Money{Cents: 800_00}},
		{Month: "Feb", Income: core.Money{Cents: 2500_00}, Savings: core.Money{Cents: 850_00}},
		{Month: "Mar", Income: core.Money{Cents: 2450_00}, Savings: core.Money{Cents: 900_00}},
		{Month: "Apr", Income: core.Money{Cents: 2600_00}, Savings: core.Money{Cents: 950_00}},
		{Month: "May", Income: core.Money{Cents: 2550_00}, Savings: core.Money{Cents: 1000_00}},
		{Month: "Jun", Income: core.Money{Cents: 2620_00}, Savings: core.Money{Cents: 1025_00}},
	}
}

// FeedStart resolves a timeframe shortcut to the start of the feed
// window, relative to now. Unknown values get the 7-day window.
func FeedStart(timeframe string, now time.Time) time.Time {
	switch timeframe {
	case TimeframeMonth:
		return now.AddDate(0, 0, -30)
	case TimeframeQuarter:
		return now.AddDate(0, 0, -90)
	case TimeframeYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return now.AddDate(0, 0, -7)
	}
}

// TransactionFeed lists the user's transactions inside the timeframe
// window, newest first. categoryID zero means no category filter; the
// filter is applied after the date-range fetch.
func TransactionFeed(ctx context.Context, repo store.Repository, userID int64, timeframe string, categoryID int64, now time.Time) ([]core.Transaction, error) {
	start := FeedStart(timeframe, now)
	txs, err := repo.ListTransactionsByDateRange(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("list transactions since %s: %w", start.Format("2006-01-02"), err)
	}
	if categoryID == 0 {
		return txs, nil
	}
	filtered := txs[:0]
	for _, t := range txs {
		if t.CategoryID == categoryID {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

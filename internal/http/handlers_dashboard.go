package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/reports"
)

type monthTotalsJSON struct {
	Income   moneyJSON `json:"income"`
	Expenses moneyJSON `json:"expenses"`
	Savings  moneyJSON `json:"savings"`
}

type trendPointJSON struct {
	Month   string    `json:"month"`
	Income  moneyJSON `json:"income"`
	Savings moneyJSON `json:"savings"`
}

type summaryResponse struct {
	Current        monthTotalsJSON  `json:"current"`
	Previous       monthTotalsJSON  `json:"previous"`
	IncomeChange   float64          `json:"income_change_pct"`
	ExpensesChange float64          `json:"expenses_change_pct"`
	SavingsChange  float64          `json:"savings_change_pct"`
	TotalBalance   moneyJSON        `json:"total_balance"`
	Trend          []trendPointJSON `json:"trend"`
}

func totalsOut(t reports.MonthTotals) monthTotalsJSON {
	return monthTotalsJSON{
		Income:   moneyOut(t.Income),
		Expenses: moneyOut(t.Expenses),
		Savings:  moneyOut(t.Savings),
	}
}

// handleSummary serves the month-over-month financial overview. An
// optional month=YYYY-MM parameter selects the reference month.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	ref := time.Now()
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		parsed, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		ref = parsed
	}

	summary, err := reports.MonthlySummary(r.Context(), s.repo, user.ID, ref)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly summary failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not compute summary")
		return
	}

	resp := summaryResponse{
		Current:        totalsOut(summary.Current),
		Previous:       totalsOut(summary.Previous),
		IncomeChange:   summary.IncomeChange,
		ExpensesChange: summary.ExpensesChange,
		SavingsChange:  summary.SavingsChange,
		TotalBalance:   moneyOut(summary.TotalBalance),
	}
	for _, p := range summary.Trend {
		resp.Trend = append(resp.Trend, trendPointJSON{
			Month:   p.Month,
			Income:  moneyOut(p.Income),
			Savings: moneyOut(p.Savings),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/reports"
)

type createBudgetRequest struct {
	CategoryID int64  `json:"category_id"`
	Amount     string `json:"amount"`
	Period     string `json:"period"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type budgetResponse struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Amount     moneyJSON `json:"amount"`
	Period     string    `json:"period"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

type budgetProgressEntry struct {
	BudgetID   int64     `json:"budget_id"`
	CategoryID int64     `json:"category_id"`
	Limit      moneyJSON `json:"limit"`
	Spent      moneyJSON `json:"spent"`
}

func budgetOut(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Amount:     moneyOut(b.Amount),
		Period:     b.Period,
		StartDate:  b.StartDate.Format(transactionDateLayout),
		EndDate:    b.EndDate.Format(transactionDateLayout),
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	start, err := time.Parse(transactionDateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(transactionDateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid end_date, expected YYYY-MM-DD")
		return
	}

	nb := core.NewBudget{
		UserID:     user.ID,
		CategoryID: req.CategoryID,
		Amount:     core.Money{Cents: cents},
		Period:     strings.TrimSpace(req.Period),
		StartDate:  start,
		EndDate:    end,
	}
	if err := nb.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	budget, err := s.repo.CreateBudget(r.Context(), nb)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create budget failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not create budget")
		return
	}

	writeJSON(w, http.StatusCreated, budgetOut(budget))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	budgets, err := s.repo.ListBudgetsByUser(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not list budgets")
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetOut(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBudgetProgress reports per-budget spending for one calendar
// month. Year and month default to the current one.
func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month, expected 1-12")
			return
		}
		month = m
	}

	spent, err := reports.BudgetProgress(r.Context(), s.repo, user.ID, year, time.Month(month))
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget progress failed", log.FieldError, err, log.FieldUserID, user.ID, log.FieldYear, year, log.FieldMonth, month)
		writeError(w, http.StatusInternalServerError, "could not compute budget progress")
		return
	}

	budgets, err := s.repo.ListBudgetsByUser(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not list budgets")
		return
	}

	out := make([]budgetProgressEntry, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetProgressEntry{
			BudgetID:   b.ID,
			CategoryID: b.CategoryID,
			Limit:      moneyOut(b.Amount),
			Spent:      moneyOut(spent[b.ID]),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

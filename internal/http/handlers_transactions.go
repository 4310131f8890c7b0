package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/reports"
)

const transactionDateLayout = "2006-01-02"

type createTransactionRequest struct {
	AccountID     int64  `json:"account_id"`
	CategoryID    int64  `json:"category_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	PaymentMethod string `json:"payment_method"`
}

type transactionResponse struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"account_id"`
	CategoryID    int64     `json:"category_id,omitempty"`
	Amount        moneyJSON `json:"amount"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	Type          string    `json:"type"`
	PaymentMethod string    `json:"payment_method,omitempty"`
}

func transactionOut(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		AccountID:     t.AccountID,
		CategoryID:    t.CategoryID,
		Amount:        moneyOut(t.Amount),
		Description:   t.Description,
		Date:          t.Date.Format(transactionDateLayout),
		Type:          string(t.Type),
		PaymentMethod: t.PaymentMethod,
	}
}

func transactionsOut(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionOut(t))
	}
	return out
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := time.Parse(transactionDateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	nt := core.NewTransaction{
		UserID:        user.ID,
		AccountID:     req.AccountID,
		CategoryID:    req.CategoryID,
		Amount:        core.Money{Cents: cents},
		Description:   strings.TrimSpace(req.Description),
		Date:          date,
		Type:          core.TransactionType(req.Type),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}
	if err := nt.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Ownership check: the account must belong to the caller.
	account, err := s.repo.GetAccount(r.Context(), nt.AccountID)
	if errors.Is(err, core.ErrNotFound) || (err == nil && account.UserID != user.ID) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get account failed", log.FieldError, err, log.FieldAccountID, nt.AccountID)
		writeError(w, http.StatusInternalServerError, "could not load account")
		return
	}

	tx, err := s.txSvc.Create(r.Context(), nt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, transactionOut(tx))
}

// handleTransactionFeed serves the timeframe-filtered feed. Unknown
// timeframes fall back to the 7 day window; category_id narrows the
// result further.
func (s *Server) handleTransactionFeed(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	timeframe := strings.TrimSpace(r.URL.Query().Get("timeframe"))

	var categoryID int64
	if v := strings.TrimSpace(r.URL.Query().Get("category_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		categoryID = id
	}

	txs, err := reports.TransactionFeed(r.Context(), s.repo, user.ID, timeframe, categoryID, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction feed failed", log.FieldError, err, log.FieldUserID, user.ID, log.FieldTimeframe, timeframe, log.FieldCategoryID, categoryID)
		writeError(w, http.StatusInternalServerError, "could not load transactions")
		return
	}

	writeJSON(w, http.StatusOK, transactionsOut(txs))
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	limit := 10
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit, expected 1-100")
			return
		}
		limit = n
	}

	txs, err := s.repo.ListRecentTransactions(r.Context(), user.ID, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "List recent transactions failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not load transactions")
		return
	}

	writeJSON(w, http.StatusOK, transactionsOut(txs))
}

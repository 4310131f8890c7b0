package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type createAccountRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Balance     string `json:"balance"`
	IsConnected bool   `json:"is_connected"`
}

type updateBalanceRequest struct {
	Balance int64 `json:"balance_cents"`
}

type accountResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Balance     moneyJSON `json:"balance"`
	IsConnected bool      `json:"is_connected"`
}

func accountOut(a core.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		Balance:     moneyOut(a.Balance),
		IsConnected: a.IsConnected,
	}
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An opening balance is optional; zero when omitted.
	var balance core.Money
	if v := strings.TrimSpace(req.Balance); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid balance amount")
			return
		}
		balance = core.Money{Cents: cents}
	}

	na := core.NewAccount{
		UserID:      user.ID,
		Name:        strings.TrimSpace(req.Name),
		Type:        strings.TrimSpace(req.Type),
		Balance:     balance,
		IsConnected: req.IsConnected,
	}
	if err := na.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	account, err := s.repo.CreateAccount(r.Context(), na)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create account failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	writeJSON(w, http.StatusCreated, accountOut(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	accounts, err := s.repo.ListAccountsByUser(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts failed", log.FieldError, err, log.FieldUserID, user.ID)
		writeError(w, http.StatusInternalServerError, "could not list accounts")
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountOut(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	account, err := s.repo.GetAccount(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) || (err == nil && account.UserID != user.ID) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get account failed", log.FieldError, err, log.FieldAccountID, id)
		writeError(w, http.StatusInternalServerError, "could not load account")
		return
	}

	writeJSON(w, http.StatusOK, accountOut(account))
}

func (s *Server) handleUpdateAccountBalance(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req updateBalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Ownership check before the mutation.
	account, err := s.repo.GetAccount(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) || (err == nil && account.UserID != user.ID) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get account failed", log.FieldError, err, log.FieldAccountID, id)
		writeError(w, http.StatusInternalServerError, "could not load account")
		return
	}

	updated, err := s.repo.UpdateAccountBalance(r.Context(), id, core.Money{Cents: req.Balance})
	if err != nil {
		slog.ErrorContext(r.Context(), "Update balance failed", log.FieldError, err, log.FieldAccountID, id)
		writeError(w, http.StatusInternalServerError, "could not update balance")
		return
	}

	writeJSON(w, http.StatusOK, accountOut(updated))
}

// Package memory implements the repository on plain maps. It is the
// default backend: ids are per-kind counters starting at 1, records live
// for the process lifetime, and a single mutex keeps every call atomic.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu sync.Mutex

	users        map[int64]core.User
	accounts     map[int64]core.Account
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	budgets      map[int64]core.Budget

	// Per-kind id counters. Never decremented, never reused.
	nextUserID        int64
	nextAccountID     int64
	nextCategoryID    int64
	nextTransactionID int64
	nextBudgetID      int64

	exported map[int64]bool

	// now is swappable so tests can pin CreatedAt stamps.
	now func() time.Time
}

var _ store.Repository = (*Store)(nil)

func New() *Store {
	return &Store{
		users:        make(map[int64]core.User),
		accounts:     make(map[int64]core.Account),
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		budgets:      make(map[int64]core.Budget),
		exported:     make(map[int64]bool),
		now:          time.Now,
	}
}

// NewWithClock returns a store whose CreatedAt stamps come from now.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

func (s *Store) CreateUser(_ context.Context, n core.NewUser) (core.User, error) {
	if err := n.Validate(); err != nil {
		return core.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u := core.User{
		ID:        s.nextUserID,
		Username:  n.Username,
		Email:     n.Email,
		Password:  n.Password,
		Name:      n.Name,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u core.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u core.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}

// findUser scans in ascending id order so "first match wins" is
// deterministic even though map iteration is not.
func (s *Store) findUser(match func(core.User) bool) (core.User, error) {
	for id := int64(1); id <= s.nextUserID; id++ {
		if u, ok := s.users[id]; ok && match(u) {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *Store) CreateAccount(_ context.Context, n core.NewAccount) (core.Account, error) {
	if err := n.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	a := core.Account{
		ID:          s.nextAccountID,
		UserID:      n.UserID,
		Name:        n.Name,
		Type:        n.Type,
		Balance:     n.Balance,
		IsConnected: n.IsConnected,
	}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	return a, nil
}

func (s *Store) ListAccountsByUser(_ context.Context, userID int64) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Account
	for id := int64(1); id <= s.nextAccountID; id++ {
		if a, ok := s.accounts[id]; ok && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) UpdateAccountBalance(_ context.Context, id int64, balance core.Money) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	a.Balance = balance
	s.accounts[id] = a
	return a, nil
}

func (s *Store) CreateCategory(_ context.Context, n core.NewCategory) (core.Category, error) {
	if err := n.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCategoryID++
	c := core.Category{
		ID:     s.nextCategoryID,
		UserID: n.UserID,
		Name:   n.Name,
		Type:   n.Type,
		Color:  n.Color,
		Icon:   n.Icon,
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCategoriesByUser(_ context.Context, userID int64) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for id := int64(1); id <= s.nextCategoryID; id++ {
		if c, ok := s.categories[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CreateTransaction(_ context.Context, n core.NewTransaction) (core.Transaction, error) {
	if err := n.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTransactionID++
	t := core.Transaction{
		ID:            s.nextTransactionID,
		UserID:        n.UserID,
		AccountID:     n.AccountID,
		CategoryID:    n.CategoryID,
		Amount:        n.Amount,
		Description:   n.Description,
		Date:          n.Date,
		Type:          n.Type,
		PaymentMethod: n.PaymentMethod,
	}
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTransactionsByUser(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTransactions(userID, func(core.Transaction) bool { return true }), nil
}

func (s *Store) ListTransactionsByDateRange(_ context.Context, userID int64, start, end time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTransactions(userID, func(t core.Transaction) bool {
		return !t.Date.Before(start) && !t.Date.After(end)
	}), nil
}

func (s *Store) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.listTransactions(userID, func(core.Transaction) bool { return true })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// listTransactions collects matches and sorts newest first, breaking date
// ties on descending id. Callers hold the mutex.
func (s *Store) listTransactions(userID int64, keep func(core.Transaction) bool) []core.Transaction {
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID && keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) CreateBudget(_ context.Context, n core.NewBudget) (core.Budget, error) {
	if err := n.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBudgetID++
	b := core.Budget{
		ID:         s.nextBudgetID,
		UserID:     n.UserID,
		CategoryID: n.CategoryID,
		Amount:     n.Amount,
		Period:     n.Period,
		StartDate:  n.StartDate,
		EndDate:    n.EndDate,
	}
	s.budgets[b.ID] = b
	return b, nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBudgetsByUser(_ context.Context, userID int64) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for id := int64(1); id <= s.nextBudgetID; id++ {
		if b, ok := s.budgets[id]; ok && b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) ListUnexportedTransactions(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for id := int64(1); id <= s.nextTransactionID; id++ {
		t, ok := s.transactions[id]
		if !ok || s.exported[id] {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkExported(_ context.Context, transactionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[transactionID]; !ok {
		return core.ErrNotFound
	}
	s.exported[transactionID] = true
	return nil
}

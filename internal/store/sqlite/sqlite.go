// Package sqlite implements the repository on modernc.org/sqlite. It is
// the durable backend; the schema mirrors the entity model one table per
// kind, with money in integer cents. AUTOINCREMENT keys give the same
// id semantics as the memory backend: per-kind, starting at 1, never
// reused.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Repository struct {
	db *sql.DB
}

var _ store.Repository = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, n core.NewUser) (core.User, error) {
	if err := n.Validate(); err != nil {
		return core.User{}, err
	}
	u := core.User{
		Username:  n.Username,
		Email:     n.Email,
		Password:  n.Password,
		Name:      n.Name,
		CreatedAt: time.Now(),
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, u.Name, u.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, name, created_at FROM users WHERE id = ?`, id))
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, name, created_at
		 FROM users WHERE username = ? COLLATE NOCASE ORDER BY id LIMIT 1`, username))
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password, name, created_at
		 FROM users WHERE email = ? COLLATE NOCASE ORDER BY id LIMIT 1`, email))
}

func (r *Repository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *Repository) CreateAccount(ctx context.Context, n core.NewAccount) (core.Account, error) {
	if err := n.Validate(); err != nil {
		return core.Account{}, err
	}
	a := core.Account{
		UserID:      n.UserID,
		Name:        n.Name,
		Type:        n.Type,
		Balance:     n.Balance,
		IsConnected: n.IsConnected,
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, name, type, balance_cents, is_connected) VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Type, a.Balance.Cents, a.IsConnected)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account id: %w", err)
	}
	return a, nil
}

func (r *Repository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, balance_cents, is_connected FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (core.Account, error) {
	var a core.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance.Cents, &a.IsConnected)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAccountsByUser(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, balance_cents, is_connected
		 FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance.Cents, &a.IsConnected); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateAccountBalance(ctx context.Context, id int64, balance core.Money) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = ? WHERE id = ?`, balance.Cents, id)
	if err != nil {
		return core.Account{}, fmt.Errorf("update balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Account{}, fmt.Errorf("update balance: %w", err)
	}
	if affected == 0 {
		return core.Account{}, core.ErrNotFound
	}
	return r.GetAccount(ctx, id)
}

func (r *Repository) CreateCategory(ctx context.Context, n core.NewCategory) (core.Category, error) {
	if err := n.Validate(); err != nil {
		return core.Category{}, err
	}
	c := core.Category{
		UserID: n.UserID,
		Name:   n.Name,
		Type:   n.Type,
		Color:  n.Color,
		Icon:   n.Icon,
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type, color, icon) VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.Name, string(c.Type), c.Color, c.Icon)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	return c, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	var typ string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, color, icon FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.Color, &c.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Type = core.TransactionType(typ)
	return c, nil
}

func (r *Repository) ListCategoriesByUser(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, color, icon FROM categories WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.Color, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateTransaction(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	if err := n.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		UserID:        n.UserID,
		AccountID:     n.AccountID,
		CategoryID:    n.CategoryID,
		Amount:        n.Amount,
		Description:   n.Description,
		Date:          n.Date,
		Type:          n.Type,
		PaymentMethod: n.PaymentMethod,
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, account_id, category_id, amount_cents, description, date, type, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.AccountID, t.CategoryID, t.Amount.Cents, t.Description, t.Date, string(t.Type), t.PaymentMethod)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	return t, nil
}

const transactionColumns = `id, user_id, account_id, category_id, amount_cents, description, date, type, payment_method`

func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	var t core.Transaction
	var typ string
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount.Cents,
		&t.Description, &t.Date, &typ, &t.PaymentMethod)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = core.TransactionType(typ)
	return t, nil
}

func (r *Repository) ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
}

func (r *Repository) ListTransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
		userID, start, end)
}

func (r *Repository) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?`, userID, limit)
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount.Cents,
			&t.Description, &t.Date, &typ, &t.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) CreateBudget(ctx context.Context, n core.NewBudget) (core.Budget, error) {
	if err := n.Validate(); err != nil {
		return core.Budget{}, err
	}
	b := core.Budget{
		UserID:     n.UserID,
		CategoryID: n.CategoryID,
		Amount:     n.Amount,
		Period:     n.Period,
		StartDate:  n.StartDate,
		EndDate:    n.EndDate,
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, amount_cents, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.UserID, b.CategoryID, b.Amount.Cents, b.Period, b.StartDate, b.EndDate)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	return b, nil
}

func (r *Repository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, period, start_date, end_date
		 FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount.Cents, &b.Period, &b.StartDate, &b.EndDate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}

func (r *Repository) ListBudgetsByUser(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, period, start_date, end_date
		 FROM budgets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount.Cents, &b.Period, &b.StartDate, &b.EndDate); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE exported = 0 ORDER BY id LIMIT ?`, limit)
}

func (r *Repository) MarkExported(ctx context.Context, transactionID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET exported = 1 WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from an already-exported one.
		var exists int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM transactions WHERE id = ?`, transactionID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("mark exported: %w", err)
		}
	}
	return nil
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType partitions money movement into income and expense.
	TransactionType string

	Money struct {
		Cents int64
	}

	// User is a registered account holder. Password holds the bcrypt hash,
	// never the plaintext.
	User struct {
		ID        int64
		Username  string
		Email     string
		Password  string
		Name      string
		CreatedAt time.Time
	}

	// NewUser is the insert shape for User; ID and CreatedAt are stamped
	// by the store.
	NewUser struct {
		Username string
		Email    string
		Password string
		Name     string
	}

	// Account is a financial account owned by one user. Balance is the
	// only field in the whole model that is mutable after creation.
	// IsConnected marks a linked bank account; nothing acts on it.
	Account struct {
		ID          int64
		UserID      int64
		Name        string
		Type        string
		Balance     Money
		IsConnected bool
	}

	NewAccount struct {
		UserID      int64
		Name        string
		Type        string
		Balance     Money
		IsConnected bool
	}

	// Category labels transactions and budgets. Immutable after creation.
	Category struct {
		ID     int64
		UserID int64
		Name   string
		Type   TransactionType
		Color  string
		Icon   string
	}

	NewCategory struct {
		UserID int64
		Name   string
		Type   TransactionType
		Color  string
		Icon   string
	}

	// Transaction records a single money movement. Amount is a positive
	// magnitude; Type decides the sign when it is applied to a balance.
	// CategoryID zero means uncategorized.
	Transaction struct {
		ID            int64
		UserID        int64
		AccountID     int64
		CategoryID    int64
		Amount        Money
		Description   string
		Date          time.Time
		Type          TransactionType
		PaymentMethod string
	}

	NewTransaction struct {
		UserID        int64
		AccountID     int64
		CategoryID    int64
		Amount        Money
		Description   string
		Date          time.Time
		Type          TransactionType
		PaymentMethod string
	}

	// Budget caps spending for one category over a period.
	Budget struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Amount     Money
		Period     string
		StartDate  time.Time
		EndDate    time.Time
	}

	NewBudget struct {
		UserID     int64
		CategoryID int64
		Amount     Money
		Period     string
		StartDate  time.Time
		EndDate    time.Time
	}
)

var (
	// ErrNotFound signals an id that resolves to nothing. Lookups surface
	// it as a normal outcome; UpdateAccountBalance surfaces it as a hard
	// failure.
	ErrNotFound = errors.New("not found")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyUsername    = errors.New("empty username")
	ErrEmptyEmail       = errors.New("empty email")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrInvalidOwner     = errors.New("invalid owner id")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (u NewUser) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return ErrEmptyEmail
	}
	if u.Password == "" {
		return errors.New("empty password")
	}
	return nil
}

func (a NewAccount) Validate() error {
	if a.UserID <= 0 {
		return ErrInvalidOwner
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c NewCategory) Validate() error {
	if c.UserID <= 0 {
		return ErrInvalidOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (t NewTransaction) Validate() error {
	if t.UserID <= 0 {
		return ErrInvalidOwner
	}
	if t.AccountID <= 0 {
		return errors.New("invalid account id")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b NewBudget) Validate() error {
	if b.UserID <= 0 {
		return ErrInvalidOwner
	}
	if b.CategoryID <= 0 {
		return errors.New("invalid category id")
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrZeroDate
	}
	if b.EndDate.Before(b.StartDate) {
		return errors.New("end date must not precede start date")
	}
	return nil
}

// Signed returns the amount with the sign implied by the transaction
// type: positive for income, negative for expense.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return Money{Cents: -t.Amount.Cents}
	}
	return t.Amount
}

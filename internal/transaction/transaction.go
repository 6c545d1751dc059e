package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("transaction not found")
	ErrInvalid  = errors.New("invalid transaction")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DefaultCategory is used when a record arrives without a category.
const DefaultCategory = "General"

// Transaction represents a stored financial transaction.
// Amount is always the non-negative magnitude; the sign lives in Type.
type Transaction struct {
	ID        uuid.UUID
	Title     string
	Amount    decimal.Decimal
	Type      Type
	Category  string
	Date      time.Time // calendar date, UTC midnight
	CreatedAt time.Time
}

// SignedAmount returns the amount as persisted: negative for expenses.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Abs().Neg()
	}

	return t.Amount.Abs()
}

// DateKey returns the date in its sortable YYYY-MM-DD form.
func (t *Transaction) DateKey() string {
	return t.Date.Format(time.DateOnly)
}

// CreateParams is a candidate record: parsed or submitted, not yet persisted.
type CreateParams struct {
	Title    string
	Amount   decimal.Decimal
	Type     Type
	Category string
	Date     time.Time
}

// Normalize fills defaults and canonicalizes free-form fields.
// A zero Date becomes the calendar date of now.
func (p CreateParams) Normalize(now time.Time) CreateParams {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	p.Type = Type(strings.ToLower(strings.TrimSpace(string(p.Type))))

	if p.Category == "" {
		p.Category = DefaultCategory
	}

	if p.Date.IsZero() {
		p.Date = now
	}

	p.Date = DateOf(p.Date)

	return p
}

// Validate checks the record invariants. Errors wrap ErrInvalid.
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}

	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalid)
	}

	if !p.Type.Valid() {
		return fmt.Errorf("%w: type must be %q or %q, got %q", ErrInvalid, TypeIncome, TypeExpense, p.Type)
	}

	return nil
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

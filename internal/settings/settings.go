// Package settings holds client-local preferences that live outside the
// transaction store: the monthly budget limit and the rollover marker.
package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLimit  = errors.New("budget limit must not be negative")
	ErrInvalidMarker = errors.New("rollover marker must be YYYY-MM")
)

// MonthLayout is the format of LastAcknowledgedMonth.
const MonthLayout = "2006-01"

type Settings struct {
	BudgetLimit decimal.Decimal
	// LastAcknowledgedMonth is the last month the rollover prompt was settled for. Empty until first use.
	LastAcknowledgedMonth string
}

func (s Settings) Validate() error {
	if s.BudgetLimit.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidLimit, s.BudgetLimit)
	}

	if s.LastAcknowledgedMonth != "" {
		if _, err := time.Parse(MonthLayout, s.LastAcknowledgedMonth); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidMarker, s.LastAcknowledgedMonth)
		}
	}

	return nil
}

// MonthKey renders t as a LastAcknowledgedMonth value.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

//go:generate mockgen -source=settings.go -destination=store_mock.go -package=settings
type Store interface {
	Load() (Settings, error)
	Save(s Settings) error
}

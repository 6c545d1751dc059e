package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/settings"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var ErrNoRollover = errors.New("no rollover pending")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=analytics
type Transactions interface {
	List(ctx context.Context) ([]*transaction.Transaction, error)
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Dashboard struct {
	Period        Period
	Summary       Summary
	TopCategories []CategoryBucket
	Budget        BudgetState
}

// RolloverOffer is a pending prompt to carry Amount from Month into the current month.
type RolloverOffer struct {
	Month  string
	Amount decimal.Decimal
}

type Service struct {
	transactions Transactions
	settings     settings.Store
	now          func() time.Time

	// mu serializes read-modify-write cycles on the settings.
	mu sync.Mutex
}

func NewService(transactions Transactions, store settings.Store) *Service {
	return NewServiceWithClock(transactions, store, time.Now)
}

func NewServiceWithClock(transactions Transactions, store settings.Store, now func() time.Time) *Service {
	return &Service{
		transactions: transactions,
		settings:     store,
		now:          now,
	}
}

// Dashboard summarizes the transactions of period p against the saved budget limit.
func (s *Service) Dashboard(ctx context.Context, p Period) (*Dashboard, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	cfg, err := s.settings.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	scoped := FilterPeriod(txs, p, s.now())
	summary := Summarize(scoped)

	return &Dashboard{
		Period:        p,
		Summary:       summary,
		TopCategories: TopCategories(scoped, DefaultTopCategories),
		Budget:        BudgetUtilization(cfg.BudgetLimit, summary.TotalExpenses),
	}, nil
}

// Budget returns the saved budget limit.
func (s *Service) Budget(ctx context.Context) (decimal.Decimal, error) {
	cfg, err := s.settings.Load()
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading settings: %w", err)
	}

	return cfg.BudgetLimit, nil
}

func (s *Service) SetBudget(ctx context.Context, limit decimal.Decimal) error {
	if limit.IsNegative() {
		return fmt.Errorf("%w: %s", settings.ErrInvalidLimit, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.settings.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	cfg.BudgetLimit = limit

	if err := s.settings.Save(cfg); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}

// PendingRollover returns the offer to settle, or nil when there is none.
// Checks that need no prompt advance the marker as a side effect.
func (s *Service) PendingRollover(ctx context.Context) (*RolloverOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision, cfg, err := s.checkRollover(ctx)
	if err != nil {
		return nil, err
	}

	if decision.Marker != "" {
		if err := s.saveMarker(cfg, decision.Marker); err != nil {
			return nil, err
		}
	}

	if !decision.Offer {
		return nil, nil
	}

	return &RolloverOffer{Month: decision.Month, Amount: decision.Amount}, nil
}

// AcceptRollover records the pending balance as income dated today and
// settles the current month.
func (s *Service) AcceptRollover(ctx context.Context) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision, cfg, err := s.checkRollover(ctx)
	if err != nil {
		return nil, err
	}

	if !decision.Offer {
		return nil, ErrNoRollover
	}

	now := s.now()

	// The marker moves first so a stored rollover can never be offered again.
	if err := s.saveMarker(cfg, settings.MonthKey(now)); err != nil {
		return nil, err
	}

	tx, err := s.transactions.Create(ctx, transaction.CreateParams{
		Title:    RolloverTitle,
		Amount:   decision.Amount,
		Type:     transaction.TypeIncome,
		Category: RolloverCategory,
		Date:     now,
	})
	if err != nil {
		if rerr := s.settings.Save(cfg); rerr != nil {
			slog.Error("failed to restore rollover marker", "marker", cfg.LastAcknowledgedMonth, "error", rerr)
		}

		return nil, fmt.Errorf("creating rollover transaction: %w", err)
	}

	return tx, nil
}

// DeclineRollover settles the current month without recording anything.
func (s *Service) DeclineRollover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision, cfg, err := s.checkRollover(ctx)
	if err != nil {
		return err
	}

	if !decision.Offer {
		return ErrNoRollover
	}

	return s.saveMarker(cfg, settings.MonthKey(s.now()))
}

func (s *Service) checkRollover(ctx context.Context) (RolloverDecision, settings.Settings, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return RolloverDecision{}, settings.Settings{}, fmt.Errorf("listing transactions: %w", err)
	}

	cfg, err := s.settings.Load()
	if err != nil {
		return RolloverDecision{}, settings.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	return CheckRollover(txs, cfg.LastAcknowledgedMonth, s.now()), cfg, nil
}

func (s *Service) saveMarker(cfg settings.Settings, marker string) error {
	cfg.LastAcknowledgedMonth = marker

	if err := s.settings.Save(cfg); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}

package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	keyBudgetLimit = "budget_limit"
	keyLastMonth   = "last_acknowledged_month"
)

// FileStore keeps Settings in a YAML file. A missing file reads as defaults.
type FileStore struct {
	mu            sync.Mutex
	path          string
	defaultBudget decimal.Decimal
}

func NewFileStore(path string, defaultBudget decimal.Decimal) *FileStore {
	return &FileStore{path: path, defaultBudget: defaultBudget}
}

func (f *FileStore) Load() (Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(f.path)
	v.SetConfigType("yaml")
	v.SetDefault(keyBudgetLimit, f.defaultBudget.String())
	v.SetDefault(keyLastMonth, "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading settings: %w", err)
		}
	}

	limit, err := decimal.NewFromString(v.GetString(keyBudgetLimit))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %q", ErrInvalidLimit, v.GetString(keyBudgetLimit))
	}

	s := Settings{
		BudgetLimit:           limit,
		LastAcknowledgedMonth: v.GetString(keyLastMonth),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (f *FileStore) Save(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set(keyBudgetLimit, s.BudgetLimit.String())
	v.Set(keyLastMonth, s.LastAcknowledgedMonth)

	if err := v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}

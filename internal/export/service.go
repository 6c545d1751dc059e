package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/pennywise/internal/query"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Lister supplies the stored transactions.
type Lister interface {
	List(ctx context.Context) ([]*transaction.Transaction, error)
}

// Service writes report files for the stored transactions.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// Export writes the view of the stored transactions selected by q to
// outputDir as a report in format f and returns the file path.
func (s *Service) Export(ctx context.Context, q query.Query, f Format, outputDir string) (string, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return "", err
	}

	txs, err := s.Select(ctx, q)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, Filename(f))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := Write(file, txs, f); err != nil {
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}

// Select returns the stored transactions in the view described by q.
func (s *Service) Select(ctx context.Context, q query.Query) ([]*transaction.Transaction, error) {
	txs, err := s.transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return query.Apply(txs, q), nil
}

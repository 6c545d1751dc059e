package export_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/export"
	"github.com/MrJamesThe3rd/pennywise/internal/query"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type stubLister struct {
	txs []*transaction.Transaction
	err error
}

func (s *stubLister) List(context.Context) ([]*transaction.Transaction, error) {
	return s.txs, s.err
}

func TestService_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	svc := export.NewService(&stubLister{txs: sample()})

	path, err := svc.Export(context.Background(), query.Query{Search: "starbucks"}, export.FormatCSV, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "finance_report.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Title,Category,Type,Amount\n\"11/5/2025\",\"Starbucks\",\"Other\",\"expense\",\"500\"\n", string(content))
}

func TestService_Export_ListError(t *testing.T) {
	svc := export.NewService(&stubLister{err: errors.New("db down")})

	_, err := svc.Export(context.Background(), query.Query{}, export.FormatJSON, t.TempDir())
	assert.Error(t, err)
}

func TestService_Export_UnknownFormat(t *testing.T) {
	svc := export.NewService(&stubLister{})

	_, err := svc.Export(context.Background(), query.Query{}, export.Format("xlsx"), t.TempDir())
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

// Package export renders transactions as CSV or JSON reports.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const (
	csvHeader     = "Date,Title,Category,Type,Amount"
	csvDateLayout = "1/2/2006"
	reportName    = "finance_report"
)

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Filename is the suggested download name for a report in format f.
func Filename(f Format) string {
	return reportName + "." + string(f)
}

// ContentType is the MIME type of a report in format f.
func ContentType(f Format) string {
	if f == FormatJSON {
		return "application/json"
	}

	return "text/csv; charset=utf-8"
}

// record is the JSON shape of one exported transaction.
type record struct {
	Date     string      `json:"Date"`
	Title    string      `json:"Title"`
	Category string      `json:"Category"`
	Type     string      `json:"Type"`
	Amount   json.Number `json:"Amount"`
}

// Write renders txs in the given format, in the order given.
func Write(w io.Writer, txs []*transaction.Transaction, f Format) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, txs)
	case FormatJSON:
		return writeJSON(w, txs)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func writeCSV(w io.Writer, txs []*transaction.Transaction) error {
	var sb strings.Builder

	sb.WriteString(csvHeader)
	sb.WriteByte('\n')

	for _, tx := range txs {
		fields := []string{
			tx.Date.Format(csvDateLayout),
			tx.Title,
			tx.Category,
			string(tx.Type),
			tx.Amount.String(),
		}

		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(quote(f))
		}

		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// quote wraps every field in double quotes, doubling embedded ones.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeJSON(w io.Writer, txs []*transaction.Transaction) error {
	records := make([]record, 0, len(txs))
	for _, tx := range txs {
		records = append(records, record{
			Date:     tx.Date.Format(time.DateOnly),
			Title:    tx.Title,
			Category: tx.Category,
			Type:     string(tx.Type),
			Amount:   json.Number(tx.Amount.String()),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}

	return nil
}

package importer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/encoding"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Service struct {
	csvParser  Parser
	jsonParser Parser
	now        func() time.Time
}

func NewService() *Service {
	return NewServiceWithClock(time.Now)
}

// NewServiceWithClock is NewService with a fixed ingestion time, the date given to rows without a usable one.
func NewServiceWithClock(now func() time.Time) *Service {
	return &Service{
		csvParser:  &csvParser{},
		jsonParser: &jsonParser{},
		now:        now,
	}
}

// Import parses the document in the given format. Rows that fail parsing or
// the transaction invariants are counted as skipped; only a document that
// cannot be read at all returns an error.
func (s *Service) Import(format Format, r io.Reader) (*Result, error) {
	var parser Parser

	switch format {
	case FormatCSV:
		parser = s.csvParser
	case FormatJSON:
		parser = s.jsonParser
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	decoded, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s input: %w", format, err)
	}

	rows, err := parser.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", format, err)
	}

	now := s.now()
	result := &Result{Total: len(rows), Charset: charset}

	for _, row := range rows {
		params, err := toParams(row, now)
		if err != nil {
			slog.Debug("skipping import row", "format", format, "line", row.Line, "error", err)

			result.Skipped++

			continue
		}

		result.Params = append(result.Params, params)
	}

	return result, nil
}

func toParams(row Row, now time.Time) (transaction.CreateParams, error) {
	if row.Err != nil {
		return transaction.CreateParams{}, row.Err
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row.Amount), ",", ""))
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("%w: amount %q", transaction.ErrInvalid, row.Amount)
	}

	date, ok := parseDate(row.Date)
	if !ok {
		slog.Debug("unparsable import date, using today", "line", row.Line, "date", row.Date)
	}

	params := transaction.CreateParams{
		Title:    row.Title,
		Amount:   amount.Abs(),
		Type:     transaction.Type(row.Type),
		Category: row.Category,
		Date:     date,
	}.Normalize(now)

	if err := params.Validate(); err != nil {
		return transaction.CreateParams{}, err
	}

	return params, nil
}

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// csvColumns is the fixed column order: date, title, category, type, amount.
const csvColumns = 5

var errShortRow = errors.New("row has fewer than 5 fields")

type csvParser struct{}

// Parse skips the first record as a header. Blank lines are ignored and not
// counted; lines that cannot be tokenized are rejected individually.
func (p *csvParser) Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []Row

	header := true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			if !header {
				rows = append(rows, Row{Line: parseErr.StartLine, Err: fmt.Errorf("reading line: %w", parseErr.Err)})
			}

			header = false

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if header {
			header = false
			continue
		}

		line, _ := reader.FieldPos(0)

		if len(record) < csvColumns {
			rows = append(rows, Row{Line: line, Err: errShortRow})
			continue
		}

		rows = append(rows, Row{
			Line:     line,
			Date:     unquote(record[0]),
			Title:    unquote(record[1]),
			Category: unquote(record[2]),
			Type:     strings.ToLower(unquote(record[3])),
			Amount:   unquote(record[4]),
		})
	}

	return rows, nil
}

// unquote strips stray quotes left around a field by sloppy writers.
func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

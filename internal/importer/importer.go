// Package importer turns CSV and JSON exports of transaction history into
// candidate transactions.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/encoding"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrMalformed         = errors.New("malformed import document")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat resolves a declared file extension such as ".CSV" or "json".
func ParseFormat(ext string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
	switch f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Row is one input record with every field still in its textual form.
// Both formats produce rows so conversion and validation are shared.
type Row struct {
	Line     int
	Date     string
	Title    string
	Category string
	Type     string
	Amount   string

	// Err is set when the row was rejected while parsing, e.g. a short CSV line.
	Err error
}

// Parser reads a whole UTF-8 document into rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
}

// Result reports the accepted candidates along with how many input rows were seen and dropped.
type Result struct {
	Params  []transaction.CreateParams
	Total   int
	Skipped int
	Charset encoding.Charset
}

// Accepted is the number of candidates that passed validation.
func (r *Result) Accepted() int {
	return len(r.Params)
}

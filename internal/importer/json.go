package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var errNotObject = errors.New("array element is not an object")

// jsonAliases lists the accepted keys per field, compared case-insensitively.
var jsonAliases = map[string][]string{
	"title":    {"title", "description"},
	"amount":   {"amount"},
	"category": {"category"},
	"type":     {"type"},
	"date":     {"date"},
}

type jsonParser struct{}

// Parse accepts a single object or an array of objects.
func (p *jsonParser) Parse(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	switch v := doc.(type) {
	case map[string]any:
		return []Row{objectRow(1, v)}, nil
	case []any:
		rows := make([]Row, 0, len(v))

		for i, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				rows = append(rows, Row{Line: i + 1, Err: errNotObject})
				continue
			}

			rows = append(rows, objectRow(i+1, obj))
		}

		return rows, nil
	default:
		return nil, fmt.Errorf("%w: expected an object or an array of objects", ErrMalformed)
	}
}

func objectRow(line int, obj map[string]any) Row {
	fields := make(map[string]any, len(obj))
	for k, v := range obj {
		fields[strings.ToLower(k)] = v
	}

	row := Row{
		Line:     line,
		Title:    lookupString(fields, "title"),
		Amount:   lookupString(fields, "amount"),
		Category: lookupString(fields, "category"),
		Type:     strings.ToLower(lookupString(fields, "type")),
		Date:     lookupString(fields, "date"),
	}

	if row.Type == "" {
		row.Type = string(transaction.TypeExpense)
	}

	return row
}

// lookupString returns the first non-empty alias value of field rendered as text.
func lookupString(fields map[string]any, field string) string {
	for _, key := range jsonAliases[field] {
		switch v := fields[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}

	return ""
}

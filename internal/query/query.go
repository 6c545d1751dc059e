// Package query derives ordered views of a transaction collection.
// Everything here is pure: inputs are never mutated.
package query

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// All is the pass-through value for the type and category filters.
const All = "all"

type SortKey string

const (
	SortNone     SortKey = ""
	SortDate     SortKey = "date"
	SortTitle    SortKey = "title"
	SortCategory SortKey = "category"
	SortType     SortKey = "type"
	SortAmount   SortKey = "amount"
)

// SortKeys lists the sortable columns in display order.
var SortKeys = []SortKey{SortDate, SortTitle, SortCategory, SortType, SortAmount}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort shows the newest transactions first.
var DefaultSort = Sort{Key: SortDate, Direction: Desc}

// Filters are combined with AND. Empty or All means no filter.
// StartDate and EndDate are inclusive YYYY-MM-DD bounds.
type Filters struct {
	Type      string
	Category  string
	StartDate string
	EndDate   string
}

type Query struct {
	Search  string
	Filters Filters
	Sort    Sort
}

// ParseSort validates a key and direction as received from a caller.
// An empty direction means ascending.
func ParseSort(key, direction string) (Sort, error) {
	s := Sort{
		Key:       SortKey(strings.ToLower(strings.TrimSpace(key))),
		Direction: Direction(strings.ToLower(strings.TrimSpace(direction))),
	}

	if s.Key != SortNone && !slices.Contains(SortKeys, s.Key) {
		return Sort{}, fmt.Errorf("unknown sort key %q", key)
	}

	switch s.Direction {
	case "":
		s.Direction = Asc
	case Asc, Desc:
	default:
		return Sort{}, fmt.Errorf("unknown sort direction %q", direction)
	}

	return s, nil
}

// Apply returns the transactions matching q, ordered by q.Sort. Ties keep
// their input order. The returned slice never aliases txs.
func Apply(txs []*transaction.Transaction, q Query) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(txs))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, tx := range txs {
		if matchesSearch(tx, search) && q.Filters.matches(tx) {
			out = append(out, tx)
		}
	}

	if q.Sort.Key == SortNone {
		return out
	}

	less := lessFunc(q.Sort.Key)

	sort.SliceStable(out, func(i, j int) bool {
		if q.Sort.Direction == Desc {
			return less(out[j], out[i])
		}

		return less(out[i], out[j])
	})

	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(txs []*transaction.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))

	var out []string

	for _, tx := range txs {
		if _, ok := seen[tx.Category]; ok {
			continue
		}

		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}

	return out
}

func matchesSearch(tx *transaction.Transaction, search string) bool {
	if search == "" {
		return true
	}

	return strings.Contains(strings.ToLower(tx.Title), search) ||
		strings.Contains(strings.ToLower(tx.Category), search) ||
		strings.Contains(tx.Amount.String(), search)
}

func (f Filters) matches(tx *transaction.Transaction) bool {
	if active(f.Type) && string(tx.Type) != f.Type {
		return false
	}

	if active(f.Category) && tx.Category != f.Category {
		return false
	}

	date := tx.DateKey()

	if f.StartDate != "" && date < f.StartDate {
		return false
	}

	if f.EndDate != "" && date > f.EndDate {
		return false
	}

	return true
}

func active(v string) bool {
	return v != "" && v != All
}

func lessFunc(key SortKey) func(a, b *transaction.Transaction) bool {
	switch key {
	case SortTitle:
		return func(a, b *transaction.Transaction) bool { return a.Title < b.Title }
	case SortCategory:
		return func(a, b *transaction.Transaction) bool { return a.Category < b.Category }
	case SortType:
		return func(a, b *transaction.Transaction) bool { return a.Type < b.Type }
	case SortAmount:
		return func(a, b *transaction.Transaction) bool { return a.Amount.LessThan(b.Amount) }
	default:
		return func(a, b *transaction.Transaction) bool { return a.DateKey() < b.DateKey() }
	}
}

// Package extractor turns a free-text bank or wallet message into a candidate
// transaction. Every field is guessed by its own heuristic so each can be
// tested and replaced on its own.
package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// ErrUnparsable is returned when no usable amount can be found in the text.
var ErrUnparsable = errors.New("could not parse transaction text")

const (
	unknownCredit = "Unknown Credit"
	unknownDebit  = "Unknown Debit"

	categoryIncome = "Salary"
	categoryOther  = "Other"
)

var (
	amountRe = regexp.MustCompile(`(?i)(?:\b(?:rs\.?|inr|usd|eur|gbp)|₹|\$|€|£)\s*(\d+(?:,\d+)*(?:\.\d{1,2})?)`)
	dateRe   = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})\b`)
	noiseRe  = regexp.MustCompile(`(?i)\b(?:upi|ref|neft|imps|rtgs)\b`)
	digitsRe = regexp.MustCompile(`^[\d\s]+$`)

	// counterpartyRes are tried in order; the first capture with a letter in it wins.
	counterpartyRes = []*regexp.Regexp{
		counterparty(`at`),
		counterparty(`to`),
		counterparty(`from`),
		counterparty(`for`),
		counterparty(`vpa`),
	}

	creditWords = []string{"credited", "received", "deposited", "refunded"}
)

func counterparty(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + marker + `\s+([A-Za-z0-9 ]+?)(?:\s+(?:on|using|via|ref|bal|at|to|from|for)\b|\s*[.,;:!]|\s*$)`)
}

type cluster struct {
	category string
	re       *regexp.Regexp
}

func keywords(category string, kws ...string) cluster {
	quoted := make([]string, len(kws))
	for i, kw := range kws {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	return cluster{category: category, re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)`)}
}

// categoryClusters are checked in order, so "uber eats" resolves to Food before "uber" can hit Transport.
var categoryClusters = []cluster{
	keywords("Food", "swiggy", "zomato", "uber eats", "dominos", "pizza hut", "mcdonald", "kfc", "blinkit", "zepto"),
	keywords("Shopping", "amazon", "flipkart", "myntra", "ajio", "meesho", "nykaa"),
	keywords("Transport", "uber", "ola", "rapido", "irctc", "metro", "petrol", "fuel", "diesel", "indian oil", "hpcl", "bpcl", "fastag"),
	keywords("Bills", "recharge", "airtel", "jio", "vodafone", "bsnl", "electricity", "broadband", "dth", "gas bill", "water bill"),
}

type Extractor struct {
	now func() time.Time
}

func New() *Extractor {
	return &Extractor{now: time.Now}
}

// NewWithClock is New with a fixed notion of today, used when a message carries no date.
func NewWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract builds a candidate transaction from text. It never returns a
// candidate with a zero amount: such input fails with ErrUnparsable.
func (e *Extractor) Extract(text string) (transaction.CreateParams, error) {
	text = normalize(text)
	if text == "" {
		return transaction.CreateParams{}, fmt.Errorf("%w: empty text", ErrUnparsable)
	}

	amount, err := ExtractAmount(text)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	typ := ClassifyType(text)

	return transaction.CreateParams{
		Title:    ExtractCounterparty(text, typ),
		Amount:   amount,
		Type:     typ,
		Category: InferCategory(text, typ),
		Date:     ExtractDate(text, e.now()),
	}, nil
}

// ExtractAmount returns the first currency-marked number in text with
// thousands separators removed.
func ExtractAmount(text string) (decimal.Decimal, error) {
	m := amountRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return decimal.Zero, fmt.Errorf("%w: no currency amount", ErrUnparsable)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %v", ErrUnparsable, m[1], err)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: zero amount", ErrUnparsable)
	}

	return amount, nil
}

// ClassifyType reports income when text mentions money coming in; everything else is an expense.
func ClassifyType(text string) transaction.Type {
	l := strings.ToLower(text)
	for _, w := range creditWords {
		if strings.Contains(l, w) {
			return transaction.TypeIncome
		}
	}

	return transaction.TypeExpense
}

// ExtractCounterparty returns the merchant or sender named after a
// preposition, with banking protocol tokens removed.
func ExtractCounterparty(text string, typ transaction.Type) string {
	for _, re := range counterpartyRes {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}

		name := normalize(noiseRe.ReplaceAllString(m[1], " "))
		if name != "" && !digitsRe.MatchString(name) {
			return name
		}
	}

	if typ == transaction.TypeIncome {
		return unknownCredit
	}

	return unknownDebit
}

// ExtractDate reads the first D-M-Y date in text. Two-digit years are taken
// as 20YY. Text without a real calendar date yields the date of now.
func ExtractDate(text string, now time.Time) time.Time {
	m := dateRe.FindStringSubmatch(text)
	if len(m) < 4 {
		return transaction.DateOf(now)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	year := m[3]
	if len(year) == 2 {
		year = "20" + year
	}

	y, _ := strconv.Atoi(year)

	d := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month || d.Year() != y {
		return transaction.DateOf(now)
	}

	return d
}

// InferCategory maps known brands and keywords to a category. Keywords
// match at the start of a word, case-insensitively.
func InferCategory(text string, typ transaction.Type) string {
	for _, c := range categoryClusters {
		if c.re.MatchString(text) {
			return c.category
		}
	}

	if typ == transaction.TypeIncome {
		return categoryIncome
	}

	return categoryOther
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package normalize converts canonical-field rows into transaction-ready
// records: ISO calendar dates, decimal amounts, default classification.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// ErrUnparseableDate marks a row whose date text matches no accepted
// layout. Such rows are dropped by the pipeline, not fatal: partial files
// are accepted.
var ErrUnparseableDate = errors.New("unparseable date")

// InvalidAmountError marks a row that has a valid date but an amount that
// cannot be coerced to a number. Row-level: the rest of the file imports.
type InvalidAmountError struct {
	Raw string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q", e.Raw)
}

// Accepted date layouts, tried in order. Covers ISO exports, US slash
// dates with 2- or 4-digit years, and the month-abbreviation form the
// statement parser emits.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// Record builds a transaction record from canonical text fields. The
// returned record has no ID yet; the deduper assigns it from the content
// fingerprint. Category and bucket start at their defaults.
func Record(dateText, name, amountText, source string) (model.TransactionRecord, error) {
	date, err := Date(dateText)
	if err != nil {
		return model.TransactionRecord{}, err
	}

	amount, err := Amount(amountText)
	if err != nil {
		return model.TransactionRecord{}, err
	}

	return model.TransactionRecord{
		Date:     date,
		Name:     strings.TrimSpace(name),
		Amount:   amount,
		Category: model.Uncategorized,
		Bucket:   model.BucketSpend,
		Source:   source,
	}, nil
}

// Date parses date text against the accepted layouts.
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}

// Amount coerces amount text to a decimal, stripping the currency symbol
// and thousands separators and converting the parenthesized negative
// form "(12.34)" to -12.34.
func Amount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &InvalidAmountError{Raw: s}
	}
	return amount, nil
}

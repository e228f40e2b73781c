package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is the coarse budget classification of a transaction.
type Bucket string

const (
	BucketSpend    Bucket = "SPEND"    // discretionary spending
	BucketBill     Bucket = "BILL"     // fixed recurring bills
	BucketIncome   Bucket = "INCOME"   // money in
	BucketTransfer Bucket = "TRANSFER" // moves between own accounts, ignored in budget math
)

// Uncategorized is the category assigned at ingestion before any rule runs.
const Uncategorized = "Uncategorized"

// ValidBucket reports whether b is one of the four known buckets.
func ValidBucket(b Bucket) bool {
	switch b {
	case BucketSpend, BucketBill, BucketIncome, BucketTransfer:
		return true
	}
	return false
}

// TransactionRecord is one canonical transaction as held in the store.
// ID is the content fingerprint over (date, name, amount), so re-importing
// the same row is a no-op.
type TransactionRecord struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"` // calendar date, no time component
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"` // positive = inflow, negative = outflow
	Category string          `json:"category"`
	Bucket   Bucket          `json:"bucket"`
	Source   string          `json:"source"` // which adapter or statement produced it
}

// Classified reports whether a rule or a manual edit has already set the
// category. The rule engine never touches classified records.
func (t TransactionRecord) Classified() bool {
	return t.Category != Uncategorized
}

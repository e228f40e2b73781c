// Package report computes monthly budget summaries over the stored
// transactions: income in, bills and spending out, and what was left.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

// Store is the read-only view the report needs.
type Store interface {
	Transactions() ([]model.TransactionRecord, error)
}

// CategoryTotal is a category with its absolute total for the month.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Monthly is the budget summary for one calendar month. Income counts
// INCOME-bucket inflows, Bills and Spend count outflows of their buckets
// (reported as positive magnitudes), and Net is income minus both.
// TRANSFER records are ignored throughout.
type Monthly struct {
	Year  int
	Month time.Month

	Income decimal.Decimal
	Bills  decimal.Decimal
	Spend  decimal.Decimal
	Net    decimal.Decimal

	// SpendByCategory breaks down discretionary spending, largest first.
	SpendByCategory []CategoryTotal
}

// Summarize builds the Monthly summary for the given year and month.
func Summarize(store Store, year int, month time.Month) (Monthly, error) {
	recs, err := store.Transactions()
	if err != nil {
		return Monthly{}, fmt.Errorf("loading transactions: %w", err)
	}

	m := Monthly{Year: year, Month: month}
	byCategory := make(map[string]decimal.Decimal)

	for _, rec := range recs {
		if rec.Date.Year() != year || rec.Date.Month() != month {
			continue
		}
		switch rec.Bucket {
		case model.BucketIncome:
			if rec.Amount.IsPositive() {
				m.Income = m.Income.Add(rec.Amount)
			}
		case model.BucketBill:
			if rec.Amount.IsNegative() {
				m.Bills = m.Bills.Add(rec.Amount.Neg())
			}
		case model.BucketSpend:
			if rec.Amount.IsNegative() {
				outflow := rec.Amount.Neg()
				m.Spend = m.Spend.Add(outflow)
				byCategory[rec.Category] = byCategory[rec.Category].Add(outflow)
			}
		case model.BucketTransfer:
			// Moves between own accounts carry no budget signal.
		}
	}

	m.Net = m.Income.Sub(m.Bills).Sub(m.Spend)

	for category, total := range byCategory {
		m.SpendByCategory = append(m.SpendByCategory, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(m.SpendByCategory, func(i, j int) bool {
		if !m.SpendByCategory[i].Total.Equal(m.SpendByCategory[j].Total) {
			return m.SpendByCategory[i].Total.GreaterThan(m.SpendByCategory[j].Total)
		}
		return m.SpendByCategory[i].Category < m.SpendByCategory[j].Category
	})

	return m, nil
}

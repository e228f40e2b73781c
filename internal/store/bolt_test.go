package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

func open(t *testing.T) *Bolt {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bankfeed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id, name string, amount string) model.TransactionRecord {
	return model.TransactionRecord{
		ID:       id,
		Date:     time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Category: model.Uncategorized,
		Bucket:   model.BucketSpend,
		Source:   "chase",
	}
}

func TestInsertTransaction_InsertIfAbsent(t *testing.T) {
	s := open(t)

	inserted, err := s.InsertTransaction(record("id1", "Coffee Shop", "-4.50"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same ID again: no-op, not an error.
	dup := record("id1", "Coffee Shop EDITED", "-4.50")
	inserted, err = s.InsertTransaction(dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	// The existing record was not updated.
	got, found, err := s.GetTransaction("id1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Coffee Shop", got.Name)
}

func TestInsertTransaction_RequiresID(t *testing.T) {
	s := open(t)
	_, err := s.InsertTransaction(model.TransactionRecord{Name: "no id"})
	assert.Error(t, err)
}

func TestTransactions_RoundTrip(t *testing.T) {
	s := open(t)

	rec := record("id1", "Coffee Shop", "-4.50")
	_, err := s.InsertTransaction(rec)
	require.NoError(t, err)

	recs, err := s.Transactions()
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, rec.ID, recs[0].ID)
	assert.Equal(t, rec.Name, recs[0].Name)
	assert.True(t, rec.Amount.Equal(recs[0].Amount))
	assert.True(t, rec.Date.Equal(recs[0].Date))
	assert.Equal(t, rec.Bucket, recs[0].Bucket)
}

func TestRules_InsertionOrder(t *testing.T) {
	s := open(t)

	for _, kw := range []string{"zeta", "alpha", "midway"} {
		require.NoError(t, s.AddRule(model.Rule{Keyword: kw, Category: "X", Bucket: model.BucketSpend}))
	}

	rules, err := s.Rules()
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "zeta", rules[0].Keyword)
	assert.Equal(t, "alpha", rules[1].Keyword)
	assert.Equal(t, "midway", rules[2].Keyword)
}

func TestApplyRule_CaseInsensitiveSubstring(t *testing.T) {
	s := open(t)
	_, err := s.InsertTransaction(record("id1", "COFFEE SHOP PURCHASE", "-4.50"))
	require.NoError(t, err)
	_, err = s.InsertTransaction(record("id2", "Grocery Mart", "-30.00"))
	require.NoError(t, err)

	changed, err := s.ApplyRule(model.Rule{Keyword: "coffee", Category: "Dining", Bucket: model.BucketSpend})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, _, err := s.GetTransaction("id1")
	require.NoError(t, err)
	assert.Equal(t, "Dining", got.Category)

	other, _, err := s.GetTransaction("id2")
	require.NoError(t, err)
	assert.Equal(t, model.Uncategorized, other.Category)
}

func TestApplyRule_NeverTouchesClassified(t *testing.T) {
	s := open(t)

	rec := record("id1", "COFFEE SHOP", "-4.50")
	rec.Category = "Dining"
	rec.Bucket = model.BucketSpend
	_, err := s.InsertTransaction(rec)
	require.NoError(t, err)

	changed, err := s.ApplyRule(model.Rule{Keyword: "coffee", Category: "Takeout", Bucket: model.BucketBill})
	require.NoError(t, err)
	assert.Zero(t, changed)

	got, _, err := s.GetTransaction("id1")
	require.NoError(t, err)
	assert.Equal(t, "Dining", got.Category)
	assert.Equal(t, model.BucketSpend, got.Bucket)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankfeed.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.InsertTransaction(record("id1", "Coffee", "-4.50"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.Transactions()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

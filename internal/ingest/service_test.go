package ingest

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/adapter"
	"github.com/bankfeed-dev/bankfeed/internal/logger"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/store"
)

func newService(t *testing.T) (*Service, *store.Bolt) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "bankfeed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	log := logger.NewWithWriter(io.Discard, "error")
	return NewService(adapter.Default(), s, log), s
}

const chaseCSV = "Post Date,Description,Amount\n" +
	"2024-01-05,Coffee Shop,-4.50\n" +
	"2024-01-06,Grocery Mart,-82.13\n" +
	"2024-01-15,PAYROLL DEPOSIT,2500.00\n"

func TestCSV_Ingests(t *testing.T) {
	svc, st := newService(t)

	res, err := svc.CSV(strings.NewReader(chaseCSV), "chase")
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 3}, res)

	recs, err := st.Transactions()
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	for _, rec := range recs {
		assert.Equal(t, model.Uncategorized, rec.Category)
		assert.Equal(t, model.BucketSpend, rec.Bucket)
		assert.Equal(t, "chase", rec.Source)
		assert.NotEmpty(t, rec.ID)
	}
}

func TestCSV_ReingestIsIdempotent(t *testing.T) {
	svc, st := newService(t)

	first, err := svc.CSV(strings.NewReader(chaseCSV), "chase")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Inserted)

	second, err := svc.CSV(strings.NewReader(chaseCSV), "chase")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 3, second.Duplicates)

	recs, err := st.Transactions()
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestCSV_RowLevelFailuresAbsorbed(t *testing.T) {
	svc, _ := newService(t)

	csv := "Post Date,Description,Amount\n" +
		"2024-01-05,Coffee Shop,-4.50\n" +
		"not a date,Mystery,1.00\n" +
		"2024-01-07,Bad Amount,N/A\n"

	res, err := svc.CSV(strings.NewReader(csv), "chase")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Skipped)
}

func TestCSV_UnknownSource(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CSV(strings.NewReader(chaseCSV), "atlantisbank")
	var unknown *adapter.UnknownSourceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "atlantisbank", unknown.Source)
}

func TestCSV_SchemaFailureAbortsWholeFile(t *testing.T) {
	svc, st := newService(t)

	csv := "Mystery Column,Amount\n" +
		"2024-01-05,-4.50\n"
	_, err := svc.CSV(strings.NewReader(csv), "chase")

	var schemaErr *adapter.SchemaError
	require.ErrorAs(t, err, &schemaErr)

	// Nothing partially imported.
	recs, err := st.Transactions()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCSV_DebitCreditSource(t *testing.T) {
	svc, st := newService(t)

	csv := "Date,Description,Debit,Credit\n" +
		"01/05/2024,GROCERY MART,25.00,\n"
	res, err := svc.CSV(strings.NewReader(csv), "citi")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	recs, err := st.Transactions()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "-25.00", recs[0].Amount.StringFixed(2))
}

func TestStatement_Ingests(t *testing.T) {
	svc, st := newService(t)

	pages := []string{
		"ACME BANK\nJan 5 COFFEE SHOP PURCHASE 4.50\nBALANCE FORWARD\n",
		"Jan 6 BOOK STORE (12.00)\n",
	}
	res, err := svc.Statement(pages, 2024, "statement")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	recs, err := st.Transactions()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byName := map[string]model.TransactionRecord{}
	for _, rec := range recs {
		byName[rec.Name] = rec
	}
	coffee := byName["COFFEE SHOP PURCHASE"]
	assert.Equal(t, 2024, coffee.Date.Year())
	assert.Equal(t, "4.50", coffee.Amount.StringFixed(2))
	assert.Equal(t, "-12.00", byName["BOOK STORE"].Amount.StringFixed(2))
}

func TestFile_DispatchesByExtension(t *testing.T) {
	svc, _ := newService(t)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "chase_export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(chaseCSV), 0o644))

	res, err := svc.File(csvPath, "chase")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Inserted)

	stmtPath := filepath.Join(dir, "statement_2023.txt")
	text := "Jan 5 COFFEE SHOP 4.50\n\fJan 6 BOOK STORE 12.00\n"
	require.NoError(t, os.WriteFile(stmtPath, []byte(text), 0o644))

	res, err = svc.File(stmtPath, "statement")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
}

func TestFile_StatementYearFromFilename(t *testing.T) {
	svc, st := newService(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "statement_2023.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jan 5 COFFEE SHOP 4.50\n"), 0o644))

	_, err := svc.File(path, "statement")
	require.NoError(t, err)

	recs, err := st.Transactions()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2023, recs[0].Date.Year())
}

func TestScan_FindsImportableFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "statement.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("x"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(dir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "processed", "bank.csv"))
	assert.NoError(t, err)

	// Processed files are not rescanned.
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

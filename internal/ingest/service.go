// Package ingest runs the file ingestion pipeline: adapter or statement
// parser, then normalization, then fingerprint deduplication against the
// store. Each file is one synchronous pass; files may be ingested
// concurrently because identity is content-addressed, not order-based.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bankfeed-dev/bankfeed/internal/adapter"
	"github.com/bankfeed-dev/bankfeed/internal/fingerprint"
	"github.com/bankfeed-dev/bankfeed/internal/model"
	"github.com/bankfeed-dev/bankfeed/internal/normalize"
	"github.com/bankfeed-dev/bankfeed/internal/statement"
)

// Store is the ingestion view of the backing store: insert-if-absent
// keyed by fingerprint, reporting whether the record was new.
type Store interface {
	InsertTransaction(rec model.TransactionRecord) (bool, error)
}

// Result reports what happened to one file. Duplicates are fingerprint
// collisions with records already stored; Skipped counts rows dropped
// for unparseable dates or uncoercible amounts.
type Result struct {
	Inserted   int
	Skipped    int
	Duplicates int
}

// Service wires the pipeline components together.
type Service struct {
	registry *adapter.Registry
	store    Store
	log      zerolog.Logger
}

// NewService creates an ingestion service.
func NewService(registry *adapter.Registry, store Store, log zerolog.Logger) *Service {
	return &Service{registry: registry, store: store, log: log}
}

// File ingests one file from disk. CSV files go through the source
// adapter for the given source; anything else is treated as extracted
// statement text, with pages separated by form feeds and the fallback
// year taken from the filename.
func (s *Service) File(path, source string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		res, err := s.CSV(f, source)
		if err != nil {
			return res, fmt.Errorf("ingesting %s: %w", name, err)
		}
		return res, nil
	}

	text, err := io.ReadAll(f)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", name, err)
	}
	pages := strings.Split(string(text), "\f")
	return s.Statement(pages, statement.YearHint(name), source)
}

// CSV ingests a tabular export through the adapter registered for
// source. A schema failure aborts the whole file: nothing is partially
// imported when columns cannot be identified.
func (s *Service) CSV(r io.Reader, source string) (Result, error) {
	a := s.registry.Get(source)
	if a == nil {
		return Result{}, &adapter.UnknownSourceError{Source: source}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return Result{}, nil
	}

	rows, err := a.Map(records[0], records[1:])
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, row := range rows {
		if err := s.ingestRow(row.Date, row.Name, row.Amount, row.Source, &res); err != nil {
			return res, err
		}
	}

	s.log.Info().
		Str("source", source).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Int("duplicates", res.Duplicates).
		Msg("csv ingested")
	return res, nil
}

// Statement ingests unstructured statement page text. Lines that do not
// parse as transactions are simply absent from the output, never errors.
func (s *Service) Statement(pages []string, fallbackYear int, source string) (Result, error) {
	var res Result
	for entry := range statement.Parse(pages, fallbackYear) {
		if err := s.ingestRow(entry.Date, entry.Description, entry.Amount.StringFixed(2), source, &res); err != nil {
			return res, err
		}
	}

	s.log.Info().
		Str("source", source).
		Int("pages", len(pages)).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Int("duplicates", res.Duplicates).
		Msg("statement ingested")
	return res, nil
}

// ingestRow normalizes one canonical row, fingerprints it, and inserts.
// Row-level failures are absorbed and counted; only store errors stop an
// ingestion mid-file.
func (s *Service) ingestRow(dateText, name, amountText, source string, res *Result) error {
	rec, err := normalize.Record(dateText, name, amountText, source)
	if err != nil {
		res.Skipped++
		s.log.Debug().Err(err).Str("name", name).Msg("row skipped")
		return nil
	}

	rec.ID = fingerprint.Compute(rec.Date, rec.Name, rec.Amount)
	inserted, err := s.store.InsertTransaction(rec)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", rec.ID, err)
	}
	if inserted {
		res.Inserted++
	} else {
		res.Duplicates++
	}
	return nil
}

package adapter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// aliasAdapter is the generic adapter implementation: a fixed table of
// known header synonyms for one institution. Amount is either taken from
// a single signed column or derived as credit minus debit when the
// export splits the two.
type aliasAdapter struct {
	source  string
	aliases map[string]string // normalized raw header -> canonical field
}

// New creates an alias-table adapter for an institution. Keys of aliases
// are raw header names as they appear in exports (case and whitespace do
// not matter); values are the canonical fields "date", "name", "amount",
// or "debit"/"credit" for split-amount layouts.
func New(source string, aliases map[string]string) Adapter {
	normalized := make(map[string]string, len(aliases))
	for raw, canonical := range aliases {
		normalized[normalizeHeader(raw)] = canonical
	}
	return &aliasAdapter{source: source, aliases: normalized}
}

func (a *aliasAdapter) Source() string { return a.source }

func (a *aliasAdapter) Map(header []string, rows [][]string) ([]Row, error) {
	cols := make(map[string]int, len(header))
	present := make([]string, 0, len(header))
	for i, h := range header {
		present = append(present, strings.TrimSpace(h))
		canonical, ok := a.aliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[canonical]; !dup {
			cols[canonical] = i
		}
	}

	dateCol, ok := cols[FieldDate]
	if !ok {
		return nil, &SchemaError{Source: a.source, Missing: FieldDate, Headers: present}
	}
	nameCol, ok := cols[FieldName]
	if !ok {
		return nil, &SchemaError{Source: a.source, Missing: FieldName, Headers: present}
	}

	amountCol, hasAmount := cols[FieldAmount]
	debitCol, hasDebit := cols[fieldDebit]
	creditCol, hasCredit := cols[fieldCredit]
	if !hasAmount && !hasDebit && !hasCredit {
		return nil, &SchemaError{Source: a.source, Missing: FieldAmount, Headers: present}
	}

	out := make([]Row, 0, len(rows))
	for _, rec := range rows {
		row := Row{
			Date:   cell(rec, dateCol),
			Name:   cell(rec, nameCol),
			Source: a.source,
		}
		if hasAmount {
			row.Amount = cell(rec, amountCol)
		} else {
			row.Amount = deriveAmount(cell(rec, debitCol), cell(rec, creditCol))
		}
		out = append(out, row)
	}
	return out, nil
}

// deriveAmount computes credit - debit, treating empty cells as zero. An
// unparseable cell is passed through verbatim so the normalizer rejects
// the row instead of the whole file.
func deriveAmount(debitText, creditText string) string {
	debit, err := moneyCell(debitText)
	if err != nil {
		return debitText
	}
	credit, err := moneyCell(creditText)
	if err != nil {
		return creditText
	}
	return credit.Sub(debit).StringFixed(2)
}

func moneyCell(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// normalizeHeader lowercases a header cell, trims it, drops marker
// characters some banks decorate columns with, and collapses runs of
// whitespace.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Map(func(r rune) rune {
		switch r {
		case '*', '#', ':', '\ufeff': // BOM sneaks into the first header cell of some exports
			return -1
		}
		return r
	}, h)
	return strings.Join(strings.Fields(h), " ")
}

// Package statement extracts transaction triples from unstructured bank
// statement text, one string per page. It is a line heuristic, not a PDF
// parser: anything that does not look like a transaction line (page
// headers, balance summaries, footers) is skipped without error.
package statement

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one raw transaction triple pulled out of statement text. Date
// stays textual; the normalizer owns calendar parsing.
type Entry struct {
	Date        string // "1/5/2024" or "Jan 5, 2024"
	Description string
	Amount      decimal.Decimal
}

var (
	slashDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/(\d{4}|\d{2})$`)
	dayRe       = regexp.MustCompile(`^\d{1,2}$`)
	amountRe    = regexp.MustCompile(`^-?\d+\.\d{2}$`)
	yearRe      = regexp.MustCompile(`20\d{2}`)
)

var monthAbbrevs = map[string]bool{
	"Jan": true, "Feb": true, "Mar": true, "Apr": true,
	"May": true, "Jun": true, "Jul": true, "Aug": true,
	"Sep": true, "Oct": true, "Nov": true, "Dec": true,
}

// Parse returns the transaction entries found in pages, in order. Pages
// are independent; no state crosses a page boundary. fallbackYear is
// appended to dates like "Jan 5" that carry no year of their own.
func Parse(pages []string, fallbackYear int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, page := range pages {
			for _, line := range strings.Split(page, "\n") {
				e, ok := parseLine(strings.TrimSpace(line), fallbackYear)
				if !ok {
					continue
				}
				if !yield(e) {
					return
				}
			}
		}
	}
}

// parseLine attempts to read one transaction from a line. The date must
// lead the line; the amount is the first well-formed money token scanning
// the remainder from the end, since descriptions may themselves contain
// digits or currency-like text.
func parseLine(line string, fallbackYear int) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Entry{}, false
	}

	var date string
	var rest []string
	switch {
	case slashDateRe.MatchString(fields[0]):
		date = fields[0]
		rest = fields[1:]
	case monthAbbrevs[fields[0]] && len(fields) >= 3 && dayRe.MatchString(fields[1]):
		date = fmt.Sprintf("%s %s, %d", fields[0], fields[1], fallbackYear)
		rest = fields[2:]
	default:
		return Entry{}, false
	}

	for i := len(rest) - 1; i >= 0; i-- {
		tok := cleanMoneyToken(rest[i])
		if !amountRe.MatchString(tok) {
			continue
		}
		amount, err := decimal.NewFromString(tok)
		if err != nil {
			continue
		}
		return Entry{
			Date:        date,
			Description: strings.Join(rest[:i], " "),
			Amount:      amount,
		}, true
	}
	return Entry{}, false
}

// cleanMoneyToken strips the currency symbol and thousands separators and
// converts the parenthesized negative form: "($1,234.56)" -> "-1234.56".
func cleanMoneyToken(tok string) string {
	if strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")") {
		tok = "-" + tok[1:len(tok)-1]
	}
	tok = strings.ReplaceAll(tok, "$", "")
	return strings.ReplaceAll(tok, ",", "")
}

// YearHint extracts a four-digit year from a statement filename, e.g.
// "statement_2024_01.txt" -> 2024. Falls back to the current year, which
// matches how banks name mid-year exports with no year at all.
func YearHint(filename string) int {
	if m := yearRe.FindString(filename); m != "" {
		year, err := strconv.Atoi(m)
		if err == nil {
			return year
		}
	}
	return time.Now().Year()
}

// Package fingerprint computes the content-addressed identity of a
// transaction. The same (date, name, amount) triple always hashes to the
// same ID, which is what makes re-importing a statement idempotent. Two
// genuinely distinct transactions sharing all three fields collapse into
// one record; that is the accepted trade-off of this scheme.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// Compute returns the stable ID for a transaction triple.
//
// Canonical forms fed to the digest: date as YYYY-MM-DD, name trimmed of
// surrounding whitespace, amount with exactly two decimal places. Fields
// are joined with "|" so reordered or shifted values cannot collide.
func Compute(date time.Time, name string, amount decimal.Decimal) string {
	parts := []string{
		date.Format(dateFormat),
		strings.TrimSpace(name),
		amount.StringFixed(2),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

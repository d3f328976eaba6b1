// Package reckey derives the reconciliation key carried in the note field
// of every transaction this system posts. The key ties a set of derived
// postings back to the checking-account payment that produced them, so a
// partial failure can be audited before a re-run. Duplicate suppression
// itself still relies on the date-proximity window; the key is a trace,
// not a lock.
package reckey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Prefix marks a note as carrying a reconciliation key.
const Prefix = "loansync:"

const keyHexLen = 16

// Derive returns a stable key for the postings derived from one payment:
// "loansync:" followed by 16 hex digits of the SHA-256 of the loan account,
// payment date, and payment amount.
func Derive(loanAccountID int64, paymentDate time.Time, paymentAmount decimal.Decimal) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d|%s|%s", loanAccountID, paymentDate.Format("2006-01-02"), paymentAmount.String()))
	return Prefix + hex.EncodeToString(sum[:])[:keyHexLen]
}

// Parse extracts a reconciliation key from a note, if one is present.
func Parse(note string) (string, bool) {
	for _, field := range strings.Fields(note) {
		if strings.HasPrefix(field, Prefix) && len(field) == len(Prefix)+keyHexLen {
			return field, true
		}
	}
	return "", false
}

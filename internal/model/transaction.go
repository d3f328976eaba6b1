package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used by the remote ledger API.
const DateFormat = "2006-01-02"

// Transaction represents one entry in a remote ledger account.
// Amounts are signed: positive = credit/inflow, negative = debit/outflow.
type Transaction struct {
	ID             int64
	Date           time.Time // date only, UTC midnight
	Amount         decimal.Decimal
	Payee          string
	CategoryID     string // empty = uncategorized
	CategoryTitle  string
	IsTransfer     bool
	ClosingBalance decimal.Decimal // account balance immediately after this transaction (read only)
	AccountName    string          // display name of the originating transaction account (read only)
	Note           string
}

// TransactionDraft holds the fields this system supplies when creating
// a transaction. The ledger assigns everything else.
type TransactionDraft struct {
	Date       time.Time
	Amount     decimal.Decimal
	Payee      string
	CategoryID string
	IsTransfer bool
	Note       string
}

// ParseDate parses a ledger calendar date ("2006-01-02") into a UTC midnight time.
func ParseDate(text string) (time.Time, error) {
	return time.Parse(DateFormat, text)
}

// FormatDate renders a time as a ledger calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Date builds a UTC midnight time for a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

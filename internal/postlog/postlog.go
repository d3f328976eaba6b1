// Package postlog keeps a local CSV audit trail of every transaction the
// batch posts (or would post, in dry-run). The remote ledger is the source
// of truth; this log exists so a partial failure can be reviewed before a
// re-run.
package postlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the posting log.
type Entry struct {
	Timestamp  time.Time
	Loan       string
	AccountID  int64
	Date       time.Time // posting date, date only
	Amount     decimal.Decimal
	Payee      string
	CategoryID string
	IsTransfer bool
	Key        string // reconciliation key
	DryRun     bool
}

// Header is the CSV header for the posting log.
const Header = "timestamp,loan,account_id,date,amount,payee,category_id,is_transfer,key,dry_run"

const (
	numFields     = 10
	colTimestamp  = 0
	colLoan       = 1
	colAccountID  = 2
	colDate       = 3
	colAmount     = 4
	colPayee      = 5
	colCategoryID = 6
	colIsTransfer = 7
	colKey        = 8
	colDryRun     = 9
)

const dateOnly = "2006-01-02"

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colLoan] = e.Loan
	row[colAccountID] = strconv.FormatInt(e.AccountID, 10)
	row[colDate] = e.Date.Format(dateOnly)
	row[colAmount] = e.Amount.String()
	row[colPayee] = e.Payee
	row[colCategoryID] = e.CategoryID
	row[colIsTransfer] = strconv.FormatBool(e.IsTransfer)
	row[colKey] = e.Key
	row[colDryRun] = strconv.FormatBool(e.DryRun)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	accountID, err := strconv.ParseInt(record[colAccountID], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing account id %q: %w", record[colAccountID], err)
	}
	date, err := time.Parse(dateOnly, record[colDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	isTransfer, err := strconv.ParseBool(record[colIsTransfer])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing is_transfer %q: %w", record[colIsTransfer], err)
	}
	dryRun, err := strconv.ParseBool(record[colDryRun])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dry_run %q: %w", record[colDryRun], err)
	}

	return Entry{
		Timestamp:  ts,
		Loan:       record[colLoan],
		AccountID:  accountID,
		Date:       date,
		Amount:     amount,
		Payee:      record[colPayee],
		CategoryID: record[colCategoryID],
		IsTransfer: isTransfer,
		Key:        record[colKey],
		DryRun:     dryRun,
	}, nil
}

// Append writes entries to path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating posting log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening posting log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from path. Returns an empty slice if the file
// does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening posting log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading posting log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

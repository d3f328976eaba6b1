package reconcile

import "errors"

// Anomaly errors are fatal for the current loan type: the run aborts the
// loan immediately, with no retry and no cleanup of postings already made
// for earlier payments of the same loan.
var (
	// ErrPaymentCountAnomaly means the checking-account search returned a
	// payment count outside the expected range. Too many matches suggests
	// the search phrase caught unrelated transactions; zero suggests a feed
	// gap. Either way, guessing would risk posting against the wrong data.
	ErrPaymentCountAnomaly = errors.New("payment count outside expected range")

	// ErrEmptyLedgerWindow means the loan ledger returned no transactions
	// in the lookback window, so no current balance can be determined.
	ErrEmptyLedgerWindow = errors.New("no transactions in loan ledger window")

	// ErrLedgerOrderViolation means the ledger returned transactions that
	// are not ordered most-recent-first, so the first result cannot be
	// trusted as the latest entry.
	ErrLedgerOrderViolation = errors.New("loan ledger results not ordered most-recent-first")
)

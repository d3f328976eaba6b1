// Package reconcile matches outbound loan payments detected in a checking
// account against each loan account's remote ledger, and posts the derived
// transfer-in, interest, and secondary entries that the servicer would
// otherwise book out-of-band.
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/loansync-dev/loansync/internal/accrual"
	"github.com/loansync-dev/loansync/internal/model"
	"github.com/loansync-dev/loansync/internal/reckey"
)

const (
	// maxTransferDelayDays bounds how far a payment's posting date may lag
	// behind its appearance in the loan ledger before the payment counts as
	// already settled. This window is the sole duplicate-prevention
	// mechanism between runs.
	maxTransferDelayDays = 5

	// paymentLookbackDays is how far back the checking account is searched
	// for outgoing loan payments.
	paymentLookbackDays = 90

	// ledgerLookbackDays is how far back the loan ledger is searched when
	// establishing the balance for one payment.
	ledgerLookbackDays = 60

	// minPayments/maxPayments bound the plausible number of matched
	// payments per loan over the lookback. Counts outside this range are a
	// data anomaly, not something to reconcile through.
	minPayments = 1
	maxPayments = 3
)

// LedgerClient is the slice of the remote ledger API the reconciler
// consumes.
type LedgerClient interface {
	// Search returns one account's transactions matching query (empty = no
	// filter) within the inclusive date window, in the service's native
	// order.
	Search(ctx context.Context, accountID int64, query string, startDate, endDate time.Time) ([]model.Transaction, error)

	// Post creates one transaction. Errors are propagated, never retried.
	Post(ctx context.Context, accountID int64, draft model.TransactionDraft) (model.Transaction, error)
}

// SecondaryHandler posts loan-type-specific follow-up entries after the
// primary interest posting, dated the same as the payment.
type SecondaryHandler interface {
	PostSecondary(ctx context.Context, poster *Poster, date time.Time, key string) error
}

// Loan is one fully resolved loan type: configuration plus its accrual
// strategy and optional secondary handler.
type Loan struct {
	Name               string
	AccountID          int64
	SearchPhrase       string
	InterestRate       decimal.Decimal // annual percent
	InterestCategoryID string
	InterestPayee      string
	Strategy           accrual.Strategy
	Secondary          SecondaryHandler // nil = none
}

// Reconciler drives the reconciliation of one loan type.
type Reconciler struct {
	client            LedgerClient
	loan              Loan
	checkingAccountID int64
	poster            *Poster
	log               zerolog.Logger
}

// New creates a Reconciler for one loan.
func New(client LedgerClient, loan Loan, checkingAccountID int64, poster *Poster, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		client:            client,
		loan:              loan,
		checkingAccountID: checkingAccountID,
		poster:            poster,
		log:               log.With().Str("loan", loan.Name).Logger(),
	}
}

// Loan returns the loan this reconciler serves.
func (r *Reconciler) Loan() Loan { return r.loan }

// Run reconciles every detected payment for this loan. now is the reference
// time for all date-window queries; callers supply it explicitly so runs
// are reproducible under test. The first failure aborts the remaining
// payments for this loan; postings already made stay as they are.
func (r *Reconciler) Run(ctx context.Context, now time.Time) error {
	r.log.Info().Str("search", r.loan.SearchPhrase).Msg("searching for loan payments")

	payments, err := r.client.Search(ctx, r.checkingAccountID, r.loan.SearchPhrase,
		now.AddDate(0, 0, -paymentLookbackDays), now)
	if err != nil {
		return fmt.Errorf("searching checking account: %w", err)
	}
	for _, p := range payments {
		r.log.Info().
			Str("date", model.FormatDate(p.Date)).
			Str("amount", p.Amount.String()).
			Str("payee", p.Payee).
			Msg("detected payment")
	}

	if len(payments) < minPayments || len(payments) > maxPayments {
		return fmt.Errorf("%w: got %d, want %d to %d", ErrPaymentCountAnomaly,
			len(payments), minPayments, maxPayments)
	}

	// Oldest first: each payment's interest is computed against the loan
	// balance as of the previous posting, so order is load-bearing.
	sort.Slice(payments, func(i, j int) bool { return payments[i].Date.Before(payments[j].Date) })

	for _, payment := range payments {
		if err := r.reconcilePayment(ctx, payment); err != nil {
			return fmt.Errorf("payment dated %s: %w", model.FormatDate(payment.Date), err)
		}
	}
	return nil
}

func (r *Reconciler) reconcilePayment(ctx context.Context, payment model.Transaction) error {
	date := payment.Date
	maxRecvDate := date.AddDate(0, 0, maxTransferDelayDays)

	r.log.Info().Str("date", model.FormatDate(date)).Msg("checking loan ledger around payment")

	txns, err := r.client.Search(ctx, r.loan.AccountID, "",
		maxRecvDate.AddDate(0, 0, -ledgerLookbackDays), maxRecvDate)
	if err != nil {
		return fmt.Errorf("searching loan ledger: %w", err)
	}
	if len(txns) == 0 {
		return ErrEmptyLedgerWindow
	}

	lastTxn := txns[0]
	for _, txn := range txns {
		if txn.Date.After(lastTxn.Date) {
			return fmt.Errorf("%w: %s after %s", ErrLedgerOrderViolation,
				model.FormatDate(txn.Date), model.FormatDate(lastTxn.Date))
		}
	}

	balance := lastTxn.ClosingBalance
	r.log.Info().
		Str("date", model.FormatDate(lastTxn.Date)).
		Str("amount", lastTxn.Amount.String()).
		Str("category", lastTxn.CategoryTitle).
		Str("balance", balance.String()).
		Msg("latest loan ledger entry")

	gap := model.DaysBetween(lastTxn.Date, date)
	if gap < 0 {
		gap = -gap
	}
	if gap <= maxTransferDelayDays {
		r.log.Info().Int("gap_days", gap).Msg("nothing to do here")
		return nil
	}

	key := reckey.Derive(r.loan.AccountID, payment.Date, payment.Amount)

	// Transfer-in: mirror the outgoing payment into the loan account,
	// keeping the payment's own category and naming the source account.
	err = r.poster.Post(ctx, r.loan.AccountID, model.TransactionDraft{
		Date:       date,
		Amount:     payment.Amount.Neg(),
		Payee:      payment.AccountName,
		CategoryID: payment.CategoryID,
		IsTransfer: true,
		Note:       key,
	})
	if err != nil {
		return fmt.Errorf("posting transfer-in: %w", err)
	}

	interest := r.loan.Strategy.Accrue(balance, lastTxn.Date, r.loan.InterestRate)
	err = r.poster.Post(ctx, r.loan.AccountID, model.TransactionDraft{
		Date:       date,
		Amount:     interest,
		Payee:      r.loan.InterestPayee,
		CategoryID: r.loan.InterestCategoryID,
		Note:       key,
	})
	if err != nil {
		return fmt.Errorf("posting interest: %w", err)
	}

	if r.loan.Secondary != nil {
		if err := r.loan.Secondary.PostSecondary(ctx, r.poster, date, key); err != nil {
			return fmt.Errorf("secondary postings: %w", err)
		}
	}
	return nil
}

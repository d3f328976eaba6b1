package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loansync-dev/loansync/internal/model"
)

// EscrowHandler posts the mortgage-specific follow-up entries: a two-sided
// transfer of a fixed escrow amount from the mortgage account to the escrow
// account, then a fixed mortgage-insurance charge. All three entries are
// dated the same as the payment.
type EscrowHandler struct {
	LoanAccountID       int64
	EscrowAccountID     int64
	EscrowPayee         string
	EscrowAmount        decimal.Decimal
	TransferCategoryID  string
	InsuranceCategoryID string
	InsuranceAmount     decimal.Decimal
	InsurancePayee      string
}

// PostSecondary makes the escrow and insurance postings.
func (h *EscrowHandler) PostSecondary(ctx context.Context, poster *Poster, date time.Time, key string) error {
	// Escrow transfer, debit side out of the mortgage account.
	err := poster.Post(ctx, h.LoanAccountID, model.TransactionDraft{
		Date:       date,
		Amount:     h.EscrowAmount.Neg(),
		Payee:      h.EscrowPayee,
		CategoryID: h.TransferCategoryID,
		IsTransfer: true,
		Note:       key,
	})
	if err != nil {
		return fmt.Errorf("escrow debit: %w", err)
	}

	// Matching credit into the escrow account.
	err = poster.Post(ctx, h.EscrowAccountID, model.TransactionDraft{
		Date:       date,
		Amount:     h.EscrowAmount,
		Payee:      h.EscrowPayee,
		CategoryID: h.TransferCategoryID,
		IsTransfer: true,
		Note:       key,
	})
	if err != nil {
		return fmt.Errorf("escrow credit: %w", err)
	}

	err = poster.Post(ctx, h.LoanAccountID, model.TransactionDraft{
		Date:       date,
		Amount:     h.InsuranceAmount.Neg(),
		Payee:      h.InsurancePayee,
		CategoryID: h.InsuranceCategoryID,
		Note:       key,
	})
	if err != nil {
		return fmt.Errorf("insurance charge: %w", err)
	}
	return nil
}

package reconcile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/loansync-dev/loansync/internal/accrual"
	"github.com/loansync-dev/loansync/internal/config"
)

// BuildOptions control construction of the batch from configuration.
type BuildOptions struct {
	DryRun  bool
	LogPath string // posting log path; empty disables the log
}

// FromConfig builds one Reconciler per configured loan, in config order.
// Strategy and secondary-handler selection happens here, by configuration,
// so the reconciler itself never branches on loan names.
func FromConfig(cfg *config.Config, client LedgerClient, strategies *accrual.Registry, opts BuildOptions, log zerolog.Logger) ([]*Reconciler, error) {
	reconcilers := make([]*Reconciler, 0, len(cfg.Loans))
	for _, lc := range cfg.Loans {
		strategy := strategies.Get(lc.Accrual)
		if strategy == nil {
			return nil, fmt.Errorf("loan %s: unknown accrual strategy %q", lc.Name, lc.Accrual)
		}

		loan := Loan{
			Name:               lc.Name,
			AccountID:          lc.AccountID,
			SearchPhrase:       lc.SearchPhrase,
			InterestRate:       lc.InterestRate.Decimal,
			InterestCategoryID: lc.InterestCategoryID,
			InterestPayee:      lc.InterestPayee,
			Strategy:           strategy,
		}
		if lc.Escrow != nil {
			loan.Secondary = &EscrowHandler{
				LoanAccountID:       lc.AccountID,
				EscrowAccountID:     lc.Escrow.AccountID,
				EscrowPayee:         lc.Escrow.Payee,
				EscrowAmount:        lc.Escrow.Amount.Decimal,
				TransferCategoryID:  cfg.TransferCategoryID,
				InsuranceCategoryID: lc.Escrow.InsuranceCategoryID,
				InsuranceAmount:     lc.Escrow.InsuranceAmount.Decimal,
				InsurancePayee:      lc.Escrow.InsurancePayee,
			}
		}

		poster := NewPoster(client, lc.Name, opts.LogPath, opts.DryRun, log)
		reconcilers = append(reconcilers, New(client, loan, cfg.CheckingAccountID, poster, log))
	}
	return reconcilers, nil
}

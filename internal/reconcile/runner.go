package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes each loan's reconciliation in the configured order. Loans
// are independent units of work: one loan's failure is recorded and the
// remaining loans still run.
type Runner struct {
	reconcilers []*Reconciler
	log         zerolog.Logger
}

// NewRunner creates a Runner over the given reconcilers.
func NewRunner(reconcilers []*Reconciler, log zerolog.Logger) *Runner {
	return &Runner{reconcilers: reconcilers, log: log}
}

// Run reconciles every loan once, in order, and returns the joined per-loan
// errors, if any.
func (r *Runner) Run(ctx context.Context, now time.Time) error {
	var errs []error
	for _, rec := range r.reconcilers {
		loan := rec.Loan()
		if err := rec.Run(ctx, now); err != nil {
			r.log.Error().Str("loan", loan.Name).Err(err).Msg("loan reconciliation failed")
			errs = append(errs, fmt.Errorf("%s: %w", loan.Name, err))
			continue
		}
		r.log.Info().Str("loan", loan.Name).Msg("loan reconciled")
	}
	return errors.Join(errs...)
}

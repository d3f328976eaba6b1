package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/loansync-dev/loansync/internal/model"
	"github.com/loansync-dev/loansync/internal/postlog"
	"github.com/loansync-dev/loansync/internal/reckey"
)

// Poster performs the ledger writes for one loan: it logs every posting
// before the write is attempted, records it in the local posting log, and
// honors dry-run mode by skipping the remote write.
type Poster struct {
	client   LedgerClient
	loanName string
	logPath  string // empty = no posting log
	dryRun   bool
	log      zerolog.Logger
	now      func() time.Time
}

// NewPoster creates a Poster for one loan.
func NewPoster(client LedgerClient, loanName, logPath string, dryRun bool, log zerolog.Logger) *Poster {
	return &Poster{
		client:   client,
		loanName: loanName,
		logPath:  logPath,
		dryRun:   dryRun,
		log:      log.With().Str("loan", loanName).Logger(),
		now:      time.Now,
	}
}

// Post creates one transaction in accountID, or logs it without writing in
// dry-run mode.
func (p *Poster) Post(ctx context.Context, accountID int64, draft model.TransactionDraft) error {
	p.log.Warn().
		Int64("account", accountID).
		Str("date", model.FormatDate(draft.Date)).
		Str("amount", draft.Amount.String()).
		Str("payee", draft.Payee).
		Str("category", draft.CategoryID).
		Bool("is_transfer", draft.IsTransfer).
		Bool("dry_run", p.dryRun).
		Msg("adding transaction")

	if p.logPath != "" {
		key, _ := reckey.Parse(draft.Note)
		entry := postlog.Entry{
			Timestamp:  p.now(),
			Loan:       p.loanName,
			AccountID:  accountID,
			Date:       draft.Date,
			Amount:     draft.Amount,
			Payee:      draft.Payee,
			CategoryID: draft.CategoryID,
			IsTransfer: draft.IsTransfer,
			Key:        key,
			DryRun:     p.dryRun,
		}
		if err := postlog.Append(p.logPath, []postlog.Entry{entry}); err != nil {
			return fmt.Errorf("recording posting log: %w", err)
		}
	}

	if p.dryRun {
		return nil
	}

	if _, err := p.client.Post(ctx, accountID, draft); err != nil {
		return err
	}
	return nil
}

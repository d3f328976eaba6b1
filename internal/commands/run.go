package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loansync-dev/loansync/internal/accrual"
	"github.com/loansync-dev/loansync/internal/config"
	"github.com/loansync-dev/loansync/internal/ledger"
	"github.com/loansync-dev/loansync/internal/logging"
	"github.com/loansync-dev/loansync/internal/model"
	"github.com/loansync-dev/loansync/internal/reconcile"
)

func newRunCommand() *cobra.Command {
	var configPath string
	var postingLog string
	var asOf string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reconciliation batch once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC().Truncate(24 * time.Hour)
			if asOf != "" {
				parsed, err := model.ParseDate(asOf)
				if err != nil {
					return fmt.Errorf("parsing --as-of: %w", err)
				}
				now = parsed
			}
			return runBatch(cmd, configPath, postingLog, now, dryRun)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "loansync.yaml", "configuration file")
	cmd.Flags().StringVar(&postingLog, "posting-log", "postings.csv", "local CSV audit trail of postings (empty to disable)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date for queries (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log postings without writing them")

	return cmd
}

func runBatch(cmd *cobra.Command, configPath, postingLog string, now time.Time, dryRun bool) error {
	log := logging.New()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	client := ledger.New(ledger.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		UserID:  cfg.UserID,
		Timeout: cfg.API.Timeout(),
	})

	opts := reconcile.BuildOptions{DryRun: dryRun, LogPath: postingLog}
	reconcilers, err := reconcile.FromConfig(cfg, client, accrual.DefaultRegistry(), opts, log)
	if err != nil {
		return err
	}

	log.Info().
		Str("as_of", model.FormatDate(now)).
		Int("loans", len(reconcilers)).
		Bool("dry_run", dryRun).
		Msg("starting reconciliation batch")

	runner := reconcile.NewRunner(reconcilers, log)
	if err := runner.Run(cmd.Context(), now); err != nil {
		return fmt.Errorf("reconciliation batch: %w", err)
	}

	log.Info().Msg("reconciliation batch complete")
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loansync-dev/loansync/internal/config"
	"github.com/loansync-dev/loansync/internal/ledger"
)

func newAccountsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the remote ledger's transaction accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			accounts, err := client.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", a.ID, a.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "loansync.yaml", "configuration file")

	return cmd
}

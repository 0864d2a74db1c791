package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/saldo/internal/accounts"
)

func newSettingsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the settings of the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadAccounts(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", accounts.SettingsFile)

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(svc.Config()); err != nil {
				return fmt.Errorf("encoding settings: %w", err)
			}
			if err := enc.Close(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nrules file: %s\n", svc.RulesPath())
			fmt.Fprintf(out, "statement format file: %s\n", svc.FormatPath())
			if name, err := svc.Current(); err == nil {
				fmt.Fprintf(out, "ledger file: %s\n", svc.LedgerPath(name))
			}
			return nil
		},
	}
}

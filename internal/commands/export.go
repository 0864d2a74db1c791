package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/export"
)

func newExportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Write the current ledger and its totals to a spreadsheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.home, s.account+".xlsx")
			if len(args) > 0 {
				path = args[0]
			}

			l, err := s.engine.Current()
			if err != nil {
				return err
			}
			if err := export.WriteFile(path, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", l.Len(), path)
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/importlog"
)

func newUndoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the ledger as it was before the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			if err := s.engine.Undo(); err != nil {
				return err
			}
			l, err := s.engine.Current()
			if err != nil {
				return err
			}

			entry := s.newEntry(importlog.ActionUndo)
			entry.Total = l.Len()
			s.record(entry)

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from backup (%d transactions)\n", s.account, l.Len())
			return nil
		},
	}
}

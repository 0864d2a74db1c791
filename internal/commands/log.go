package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/importlog"
)

func newLogCommand(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the import log of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadAccounts(opts)
			if err != nil {
				return err
			}
			current := svc.Config().CurrentAccount

			entries, err := importlog.Read(opts.home)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "TIME\tACCOUNT\tACTION\tSOURCE\tADDED\tTOTAL\tDETAILS")
			for _, e := range entries {
				if !all && e.Account != current {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					e.Timestamp, e.Account, e.Action, e.Source, e.Added, e.Total, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "show entries of every account")

	return cmd
}

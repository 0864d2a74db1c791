package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/amount"
	"github.com/cleared-dev/saldo/internal/ledger"
	"github.com/cleared-dev/saldo/internal/model"
)

func newStatsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show yearly and per-group totals of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			l, err := s.engine.Current()
			if err != nil {
				return err
			}
			return printStats(cmd, s.account, l)
		},
	}
}

func printStats(cmd *cobra.Command, account string, l model.Ledger) error {
	out := cmd.OutOrStdout()
	sum := ledger.Summarize(l.Transactions)
	cur := sum.Currency

	tw := newTable(out)
	fmt.Fprintf(tw, "Account\t%s\n", account)
	fmt.Fprintf(tw, "Owner\t%s\n", l.Identity.Owner)
	fmt.Fprintf(tw, "Account number\t%s\n", l.Identity.AccountNumber)
	fmt.Fprintf(tw, "Bank\t%s\n", l.Identity.Bank)
	fmt.Fprintf(tw, "Transactions\t%d\n", l.Len())
	if l.Len() == 0 {
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Period\t%s to %s\n", sum.First.Format(model.DateFormat), sum.Last.Format(model.DateFormat))
	fmt.Fprintf(tw, "Balance\t%s\n", amount.Format(sum.Balance, cur))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = newTable(out)
	fmt.Fprintln(tw, "YEAR\tINCOME\tEXPENSES\tNET\tCOUNT")
	for _, y := range sum.Years {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", y.Year,
			amount.Format(y.Income, cur), amount.Format(y.Expenses, cur), amount.Format(y.Net(), cur), y.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = newTable(out)
	fmt.Fprintln(tw, "GROUP\tTOTAL\tCOUNT")
	for _, g := range sum.Groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", g.Group, amount.Format(g.Total, cur), g.Count)
	}
	return tw.Flush()
}

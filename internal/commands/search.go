package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/amount"
	"github.com/cleared-dev/saldo/internal/classify"
)

func newSearchCommand(opts *options) *cobra.Command {
	var q classify.Query

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find transactions by keyword and sum their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Keyword = args[0]
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			l, err := s.engine.Current()
			if err != nil {
				return err
			}

			txs, sum, err := classify.Search(l.Transactions, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintf(out, "No transactions match %q\n", q.Keyword)
				return nil
			}
			if err := printTransactions(out, txs); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d transactions, sum %s\n", len(txs), amount.Format(sum, currencyOf(txs)))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&q.Fields, "field", []string{"usage"}, "fields to search (usage, customer, type, ...)")
	cmd.Flags().BoolVar(&q.Fuzzy, "fuzzy", false, "match the keyword as a fuzzy subsequence instead of a regular expression")

	return cmd
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/amount"
	"github.com/cleared-dev/saldo/internal/importlog"
	"github.com/cleared-dev/saldo/internal/model"
)

func newGroupCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "group",
		Short: "Regroup every transaction with the current category rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			res, err := s.engine.Reclassify()
			if err != nil {
				return err
			}

			entry := s.newEntry(importlog.ActionReclassify)
			entry.Total = res.Total
			notes := make([]string, len(res.NoMatches))
			for i, n := range res.NoMatches {
				notes[i] = n.String()
			}
			entry.Details = strings.Join(notes, "; ")
			s.record(entry)

			fmt.Fprintf(cmd.OutOrStdout(), "Grouped %d of %d transactions\n", res.Classified, res.Total)
			return nil
		},
	}
}

func newUngroupedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ungrouped",
		Short: "List transactions no category rule matched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, model.Unclassified)
		},
	}
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list <group>",
		Short: "List the transactions of one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, model.Classified(args[0]))
		},
	}
}

func runList(cmd *cobra.Command, opts *options, g model.Group) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	l, err := s.engine.Current()
	if err != nil {
		return err
	}

	txs := l.InGroup(g)
	out := cmd.OutOrStdout()
	if len(txs) == 0 {
		fmt.Fprintf(out, "No transactions in group %s\n", g)
		return nil
	}
	if err := printTransactions(out, txs); err != nil {
		return err
	}
	var sum int64
	for _, tx := range txs {
		sum += tx.Value
	}
	fmt.Fprintf(out, "\n%d transactions, sum %s\n", len(txs), amount.Format(sum, currencyOf(txs)))
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "use <account>",
		Short: "Select the account later commands work on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadAccounts(opts)
			if err != nil {
				return err
			}
			if err := svc.Use(args[0]); err != nil {
				return err
			}
			if err := svc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Using account %s\n", args[0])
			return nil
		},
	}
}

func newAccountsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts, marking the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadAccounts(opts)
			if err != nil {
				return err
			}
			current := svc.Config().CurrentAccount
			for _, name := range svc.All() {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

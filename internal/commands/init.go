package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/accounts"
	"github.com/cleared-dev/saldo/internal/gitops"
	"github.com/cleared-dev/saldo/internal/importlog"
	"github.com/cleared-dev/saldo/internal/ledger"
	"github.com/cleared-dev/saldo/internal/logger"
	"github.com/cleared-dev/saldo/internal/model"
)

func newInitCommand(opts *options) *cobra.Command {
	var id model.Identity
	var git bool

	cmd := &cobra.Command{
		Use:   "init <account>",
		Short: "Create an account with an empty ledger",
		Long: "Create an account with an empty ledger and select it. The home directory\n" +
			"is prepared with default settings, category rules and statement format\n" +
			"on first use.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, args[0], id, git)
		},
	}

	cmd.Flags().StringVar(&id.Owner, "owner", "", "account owner")
	cmd.Flags().StringVar(&id.AccountNumber, "account-number", "", "account number or IBAN")
	cmd.Flags().StringVar(&id.Bank, "bank", "", "bank name")
	cmd.Flags().BoolVar(&git, "git", false, "version the home directory with git")

	return cmd
}

func runInit(cmd *cobra.Command, opts *options, name string, id model.Identity, git bool) error {
	log := logger.FromContext(cmd.Context())

	svc, err := accounts.Init(opts.home)
	if err != nil {
		return err
	}
	if err := svc.Add(name); err != nil {
		return err
	}
	if git {
		if !gitops.Available() {
			return errors.New("--git needs a git binary on the PATH")
		}
		if !gitops.IsRepo(opts.home) {
			if err := gitops.Init(opts.home); err != nil {
				return err
			}
		}
		svc.Config().Git.Enabled = true
	}
	store, err := svc.Store(name)
	if err != nil {
		return err
	}
	if err := ledger.NewEngine(store, nil, log).Initialize(id); err != nil {
		return err
	}
	if err := svc.Save(); err != nil {
		return err
	}

	recordChange(svc, log, importlog.NewEntry(time.Now(), name, importlog.ActionInit))

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized account %s at %s\n", name, store.Path())
	return nil
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/saldo/internal/accounts"
	"github.com/cleared-dev/saldo/internal/amount"
	"github.com/cleared-dev/saldo/internal/classify"
	"github.com/cleared-dev/saldo/internal/gitops"
	"github.com/cleared-dev/saldo/internal/importlog"
	"github.com/cleared-dev/saldo/internal/ledger"
	"github.com/cleared-dev/saldo/internal/logger"
	"github.com/cleared-dev/saldo/internal/model"
)

// session is the state of a command working on the current account.
type session struct {
	home     string
	accounts *accounts.Service
	account  string
	store    *ledger.Store
	engine   *ledger.Engine
	log      zerolog.Logger
}

func loadAccounts(opts *options) (*accounts.Service, error) {
	svc, err := accounts.Load(opts.home)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'saldo init <account>' first)", err)
	}
	return svc, nil
}

// openSession loads settings, rules and the ledger store of the current
// account.
func openSession(cmd *cobra.Command, opts *options) (*session, error) {
	svc, err := loadAccounts(opts)
	if err != nil {
		return nil, err
	}
	name, err := svc.Current()
	if err != nil {
		return nil, err
	}
	store, err := svc.Store(name)
	if err != nil {
		return nil, err
	}
	if !store.Exists() {
		return nil, fmt.Errorf("ledger of account %q not found at %s", name, store.Path())
	}

	log := logger.FromContext(cmd.Context()).With().Str("account", name).Logger()

	var rules *classify.RuleSet
	r, err := svc.Rules()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", svc.RulesPath()).Msg("no category rules, transactions stay ungrouped")
	case err != nil:
		return nil, err
	default:
		rules, err = classify.Compile(r)
		if err != nil {
			return nil, fmt.Errorf("category rules: %w", err)
		}
	}

	return &session{
		home:     opts.home,
		accounts: svc,
		account:  name,
		store:    store,
		engine:   ledger.NewEngine(store, rules, log),
		log:      log,
	}, nil
}

// record logs a ledger change.
func (s *session) record(e importlog.Entry) {
	recordChange(s.accounts, s.log, e)
}

// recordChange appends e to the import log and commits the home directory
// when git versioning is enabled. Failures only warn.
func recordChange(svc *accounts.Service, log zerolog.Logger, e importlog.Entry) {
	if err := importlog.Append(svc.Home(), []importlog.Entry{e}); err != nil {
		log.Warn().Err(err).Msg("failed to write import log")
	}

	git := svc.Config().Git
	if !git.Enabled {
		return
	}
	msg := e.Action + ": " + e.Account
	if e.Source != "" {
		msg += " " + e.Source
	}
	hash, err := gitops.CommitAll(svc.Home(), msg, gitops.Author{Name: git.AuthorName, Email: git.AuthorEmail})
	if err != nil {
		log.Warn().Err(err).Msg("failed to commit home directory")
		return
	}
	if hash != "" {
		log.Debug().Str("commit", hash).Msg("home directory committed")
	}
}

func (s *session) newEntry(action string) importlog.Entry {
	return importlog.NewEntry(time.Now(), s.account, action)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printTransactions writes records as an aligned table.
func printTransactions(w io.Writer, txs []model.Transaction) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tCUSTOMER\tUSAGE\tVALUE\tGROUP")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format(model.DateFormat),
			truncate(tx.Customer, 30),
			truncate(tx.Usage, 40),
			amount.Format(tx.Value, tx.ValueCurrency),
			tx.Group)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func currencyOf(txs []model.Transaction) string {
	if len(txs) == 0 {
		return ""
	}
	return txs[0].ValueCurrency
}

package ledger

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/saldo/internal/classify"
	"github.com/cleared-dev/saldo/internal/model"
)

// ErrLedgerExists is returned by Initialize when the ledger file is present.
var ErrLedgerExists = errors.New("ledger already exists")

// Result summarizes one engine operation.
type Result struct {
	Added      int // records new to the ledger
	Overlap    int // batch records already in the ledger
	Total      int // ledger size afterwards
	Classified int // records that received a group
	Written    bool

	IdentityMismatches []IdentityMismatchWarning
	PossibleGaps       []PossibleGapWarning
	NoMatches          []classify.NoMatchWarning
}

// Engine runs reconciliation against one persisted ledger. Every mutating
// operation works on an in-memory copy and writes only a validated result.
type Engine struct {
	store *Store
	rules *classify.RuleSet // nil disables classification
	log   zerolog.Logger
}

// NewEngine creates an Engine.
func NewEngine(store *Store, rules *classify.RuleSet, log zerolog.Logger) *Engine {
	return &Engine{store: store, rules: rules, log: log}
}

// Initialize writes an empty ledger for the given identity.
func (e *Engine) Initialize(id model.Identity) error {
	if e.store.Exists() {
		return fmt.Errorf("%s: %w", e.store.Path(), ErrLedgerExists)
	}
	if err := e.store.Save(model.Ledger{Identity: id}); err != nil {
		return err
	}
	e.log.Info().Str("path", e.store.Path()).Msg("ledger initialized")
	return nil
}

// Current returns a snapshot of the persisted ledger.
func (e *Engine) Current() (model.Ledger, error) {
	return e.store.Load()
}

// Update merges a statement batch into the ledger, validates the balance,
// classifies new records and writes the result. On any error the ledger
// file is left untouched.
func (e *Engine) Update(id model.Identity, batch []model.Transaction) (*Result, error) {
	current, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	work := current.Clone()
	res := &Result{}

	res.IdentityMismatches = reconcileIdentity(&work.Identity, id)
	for _, w := range res.IdentityMismatches {
		e.log.Warn().Str("field", w.Field).Str("ledger", w.History).Str("statement", w.Batch).Msg("identity mismatch")
	}

	mr, err := Merge(work.Transactions, batch)
	res.PossibleGaps = mr.Warnings
	for _, w := range res.PossibleGaps {
		e.log.Warn().Time("history_end", w.HistoryEnd).Time("batch_start", w.BatchStart).Msg("possible gap")
	}
	if err != nil {
		return res, fmt.Errorf("merging statement: %w", err)
	}
	if err := Validate(mr.Transactions); err != nil {
		return res, fmt.Errorf("validating merged ledger: %w", err)
	}
	work.Transactions = mr.Transactions
	res.Added, res.Overlap, res.Total = mr.Added, mr.Overlap, len(mr.Transactions)

	_, res.NoMatches = e.classify(work.Transactions, false)
	res.Classified = newlyGrouped(current.Transactions, work.Transactions)

	if work.Identity == current.Identity && sameRecords(work.Transactions, current.Transactions) {
		e.log.Info().Int("overlap", res.Overlap).Msg("ledger already up to date")
		return res, nil
	}
	if err := e.store.Save(work); err != nil {
		return res, err
	}
	res.Written = true
	e.log.Info().Int("added", res.Added).Int("overlap", res.Overlap).Int("total", res.Total).
		Int("classified", res.Classified).Msg("ledger updated")
	return res, nil
}

// Reclassify resets every group and reruns the rule set.
func (e *Engine) Reclassify() (*Result, error) {
	if e.rules == nil {
		return nil, errors.New("no category rules configured")
	}
	current, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	if err := Validate(current.Transactions); err != nil {
		return nil, fmt.Errorf("validating ledger: %w", err)
	}
	work := current.Clone()
	res := &Result{Total: work.Len()}
	res.Classified, res.NoMatches = e.classify(work.Transactions, true)

	if err := e.store.Save(work); err != nil {
		return res, err
	}
	res.Written = true
	e.log.Info().Int("classified", res.Classified).Int("total", res.Total).Msg("ledger regrouped")
	return res, nil
}

// Undo restores the ledger as it was before the last write.
func (e *Engine) Undo() error {
	if err := e.store.Restore(); err != nil {
		return err
	}
	e.log.Info().Str("path", e.store.Path()).Msg("ledger restored from backup")
	return nil
}

func (e *Engine) classify(txs []model.Transaction, reset bool) (int, []classify.NoMatchWarning) {
	if e.rules == nil {
		return 0, nil
	}
	before := countClassified(txs)
	if reset {
		before = 0
		model.ResetGroups(txs)
	}
	notes := e.rules.Classify(txs)
	for _, n := range notes {
		e.log.Info().Str("group", n.Group).Msg("group matched nothing")
	}
	return countClassified(txs) - before, notes
}

// newlyGrouped counts records of after that are classified but were not in
// before.
func newlyGrouped(before, after []model.Transaction) int {
	had := make(map[string]bool, len(before))
	for _, tx := range before {
		had[tx.UID] = tx.Group.IsClassified()
	}
	n := 0
	for _, tx := range after {
		if tx.Group.IsClassified() && !had[tx.UID] {
			n++
		}
	}
	return n
}

// sameRecords reports whether two ledgers hold the same records in the same
// order with the same groups and balances.
func sameRecords(a, b []model.Transaction) bool {
	return slices.EqualFunc(a, b, func(x, y model.Transaction) bool {
		return x.UID == y.UID && x.Group == y.Group && x.Saldo == y.Saldo
	})
}

func countClassified(txs []model.Transaction) int {
	n := 0
	for _, tx := range txs {
		if tx.Group.IsClassified() {
			n++
		}
	}
	return n
}

// reconcileIdentity fills empty ledger identity fields from the statement
// and reports fields where both are set and differ.
func reconcileIdentity(ledger *model.Identity, stmt model.Identity) []IdentityMismatchWarning {
	var warnings []IdentityMismatchWarning
	fields := []struct {
		name      string
		have      *string
		statement string
	}{
		{"owner", &ledger.Owner, stmt.Owner},
		{"account number", &ledger.AccountNumber, stmt.AccountNumber},
		{"bank", &ledger.Bank, stmt.Bank},
	}
	for _, f := range fields {
		switch {
		case f.statement == "" || *f.have == f.statement:
		case *f.have == "":
			*f.have = f.statement
		default:
			warnings = append(warnings, IdentityMismatchWarning{Field: f.name, History: *f.have, Batch: f.statement})
		}
	}
	return warnings
}

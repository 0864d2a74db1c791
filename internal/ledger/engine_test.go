package ledger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/saldo/internal/classify"
	"github.com/cleared-dev/saldo/internal/config"
	"github.com/cleared-dev/saldo/internal/model"
)

var testIdentity = model.Identity{Owner: "Max Mustermann", AccountNumber: "DE12 3456", Bank: "Testbank"}

func testRules(t *testing.T, groups config.Groups) *classify.RuleSet {
	t.Helper()
	rs, err := classify.Compile(&config.Rules{Identifiers: []string{"usage", "customer"}, Groups: groups})
	require.NoError(t, err)
	return rs
}

func defaultGroups() config.Groups {
	return config.Groups{
		{Name: "income", Patterns: []string{"paycheck", "bonus"}},
		{Name: "friends", Patterns: []string{"frank"}},
		{Name: "hobby", Patterns: []string{"climbing"}},
	}
}

type engineFixture struct {
	engine *Engine
	store  *Store
	logs   *bytes.Buffer
}

func newEngine(t *testing.T, rules *classify.RuleSet) engineFixture {
	t.Helper()
	var logs bytes.Buffer
	store := newTestStore(t)
	e := NewEngine(store, rules, zerolog.New(&logs))
	require.NoError(t, e.Initialize(model.Identity{}))
	return engineFixture{engine: e, store: store, logs: &logs}
}

func (f engineFixture) fileBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	return data
}

func TestEngine_Initialize(t *testing.T) {
	f := newEngine(t, nil)

	l, err := f.engine.Current()
	require.NoError(t, err)
	assert.Empty(t, l.Transactions)
	assert.True(t, l.Identity.IsZero())

	err = f.engine.Initialize(testIdentity)
	assert.True(t, errors.Is(err, ErrLedgerExists))
}

func TestEngine_UpdateScenario(t *testing.T) {
	f := newEngine(t, testRules(t, defaultGroups()))

	res, err := f.engine.Update(testIdentity, chain(310000, rowPaycheck, rowFrank, rowStore))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Classified)
	assert.True(t, res.Written)
	assert.Equal(t, []classify.NoMatchWarning{{Group: "hobby"}}, res.NoMatches)

	res, err = f.engine.Update(testIdentity, scenarioBatch())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Overlap)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Classified)

	l, err := f.engine.Current()
	require.NoError(t, err)
	assert.Equal(t, testIdentity, l.Identity)
	require.Len(t, l.Transactions, 4)
	assert.Equal(t, []string{"Bonus", "Paycheck", "Sending your money", "Your friendly store nearby"}, usages(l.Transactions))
	assert.Equal(t, []model.Group{
		model.Classified("income"), model.Classified("income"), model.Classified("friends"), model.Unclassified,
	}, []model.Group{l.Transactions[0].Group, l.Transactions[1].Group, l.Transactions[2].Group, l.Transactions[3].Group})
	assert.NoError(t, Validate(l.Transactions))

	backup, err := NewStore(f.store.BackupPath(), testFormat).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, backup.Len())
	assert.Contains(t, f.logs.String(), "ledger updated")
}

func TestEngine_UpdateUnchanged(t *testing.T) {
	f := newEngine(t, testRules(t, defaultGroups()))
	_, err := f.engine.Update(testIdentity, scenarioHistory())
	require.NoError(t, err)
	_, err = f.engine.Update(testIdentity, scenarioBatch())
	require.NoError(t, err)
	before := f.fileBytes(t)
	backup, err := os.ReadFile(f.store.BackupPath())
	require.NoError(t, err)

	res, err := f.engine.Update(testIdentity, scenarioBatch())
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Zero(t, res.Added)
	assert.Zero(t, res.Classified)
	assert.Equal(t, 2, res.Overlap)
	assert.Equal(t, before, f.fileBytes(t))

	afterBackup, err := os.ReadFile(f.store.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, backup, afterBackup, "backup must survive a no-op update")
}

func TestEngine_UpdateFailuresLeaveFileUntouched(t *testing.T) {
	tests := []struct {
		name  string
		batch []model.Transaction
		check func(t *testing.T, err error)
	}{
		{
			name:  "already included",
			batch: chain(310000, rowFrank, rowStore),
			check: func(t *testing.T, err error) {
				var target *AlreadyIncludedError
				assert.True(t, errors.As(err, &target), "got %v", err)
			},
		},
		{
			name: "gap",
			batch: chain(500000,
				row{"2021-03-28", "myCompany", "Paycheck", 200000},
				row{"2021-03-02", "Book Store", "Book Order 3435", -3500},
			),
			check: func(t *testing.T, err error) {
				var target *GapError
				assert.True(t, errors.As(err, &target), "got %v", err)
			},
		},
		{
			name: "balance break",
			batch: func() []model.Transaction {
				b := scenarioBatch()
				b[0].Saldo += 1
				b[0].Value += 2
				return b
			}(),
			check: func(t *testing.T, err error) {
				var target *BalanceTraceError
				require.True(t, errors.As(err, &target), "got %v", err)
				assert.Equal(t, int64(-1), target.Discrepancy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngine(t, testRules(t, defaultGroups()))
			_, err := f.engine.Update(testIdentity, scenarioHistory())
			require.NoError(t, err)
			before := f.fileBytes(t)

			_, err = f.engine.Update(testIdentity, tt.batch)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, before, f.fileBytes(t))
		})
	}
}

func TestEngine_GapReportsPossibleGap(t *testing.T) {
	f := newEngine(t, nil)
	_, err := f.engine.Update(testIdentity, scenarioHistory())
	require.NoError(t, err)

	res, err := f.engine.Update(testIdentity, chain(0, row{"2021-03-02", "Book Store", "Book Order 3435", -3500}))
	require.Error(t, err)
	require.Len(t, res.PossibleGaps, 1)
	assert.Contains(t, f.logs.String(), "possible gap")
}

func TestEngine_IdentityMismatch(t *testing.T) {
	f := newEngine(t, nil)
	_, err := f.engine.Update(model.Identity{Owner: "Max Mustermann"}, scenarioHistory())
	require.NoError(t, err)

	other := model.Identity{Owner: "Erika Mustermann", AccountNumber: "DE12 3456"}
	res, err := f.engine.Update(other, scenarioBatch())
	require.NoError(t, err)
	assert.Equal(t, []IdentityMismatchWarning{
		{Field: "owner", History: "Max Mustermann", Batch: "Erika Mustermann"},
	}, res.IdentityMismatches)
	assert.Contains(t, f.logs.String(), "identity mismatch")

	l, err := f.engine.Current()
	require.NoError(t, err)
	assert.Equal(t, "Max Mustermann", l.Identity.Owner, "mismatches are never corrected")
	assert.Equal(t, "DE12 3456", l.Identity.AccountNumber, "empty fields are filled")
}

func TestEngine_Reclassify(t *testing.T) {
	f := newEngine(t, testRules(t, defaultGroups()))
	_, err := f.engine.Update(testIdentity, scenarioHistory())
	require.NoError(t, err)

	f.engine.rules = testRules(t, config.Groups{
		{Name: "shopping", Patterns: []string{"store"}},
		{Name: "income", Patterns: []string{"paycheck"}},
	})
	res, err := f.engine.Reclassify()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Classified)
	assert.Equal(t, 3, res.Total)
	assert.Empty(t, res.NoMatches)

	l, err := f.engine.Current()
	require.NoError(t, err)
	assert.Equal(t, model.Classified("income"), l.Transactions[0].Group)
	assert.Equal(t, model.Unclassified, l.Transactions[1].Group)
	assert.Equal(t, model.Classified("shopping"), l.Transactions[2].Group)

	again, err := f.engine.Reclassify()
	require.NoError(t, err)
	assert.Equal(t, res.Classified, again.Classified)
	l2, err := f.engine.Current()
	require.NoError(t, err)
	assert.Equal(t, l.Transactions, l2.Transactions)
}

func TestEngine_ReclassifyWithoutRules(t *testing.T) {
	f := newEngine(t, nil)
	_, err := f.engine.Reclassify()
	assert.Error(t, err)
}

func TestEngine_Undo(t *testing.T) {
	f := newEngine(t, nil)
	_, err := f.engine.Update(testIdentity, scenarioHistory())
	require.NoError(t, err)
	_, err = f.engine.Update(testIdentity, scenarioBatch())
	require.NoError(t, err)

	require.NoError(t, f.engine.Undo())
	l, err := f.engine.Current()
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())
}

func TestEngine_UndoWithoutBackup(t *testing.T) {
	var logs bytes.Buffer
	e := NewEngine(newTestStore(t), nil, zerolog.New(&logs))
	require.NoError(t, e.Initialize(testIdentity))
	assert.True(t, errors.Is(e.Undo(), ErrNoBackup))
}

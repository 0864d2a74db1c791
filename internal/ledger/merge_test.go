package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/saldo/internal/model"
)

func TestMerge_Scenario(t *testing.T) {
	res, err := Merge(scenarioHistory(), scenarioBatch())
	require.NoError(t, err)

	require.Len(t, res.Transactions, 4)
	assert.Equal(t, []string{"Bonus", "Paycheck", "Sending your money", "Your friendly store nearby"}, usages(res.Transactions))
	assert.Equal(t, []int64{510000, 500000, 300000, 295000}, []int64{
		res.Transactions[0].Saldo, res.Transactions[1].Saldo, res.Transactions[2].Saldo, res.Transactions[3].Saldo,
	})
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Overlap)
	assert.Empty(t, res.Warnings)
	assert.NoError(t, Validate(res.Transactions))
}

func TestMerge_EmptyHistory(t *testing.T) {
	batch := chain(0, rowStore, rowPaycheck, rowFrank) // out of order on purpose
	res, err := Merge(nil, batch)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 3)
	assert.Equal(t, []string{"Paycheck", "Sending your money", "Your friendly store nearby"}, usages(res.Transactions))
	assert.Equal(t, 3, res.Added)
	for _, tx := range res.Transactions {
		assert.NotEmpty(t, tx.UID)
	}
}

func TestMerge_EmptyBatch(t *testing.T) {
	history := scenarioHistory()
	res, err := Merge(history, nil)
	require.NoError(t, err)
	assert.Equal(t, history, res.Transactions)
	assert.Zero(t, res.Added)
}

func TestMerge_AlreadyIncluded(t *testing.T) {
	history := stamped(chain(300000, rowBonus, rowPaycheck))
	batch := chain(310000, rowPaycheck, rowFrank, rowStore)

	_, err := Merge(history, batch)
	var inc *AlreadyIncludedError
	require.True(t, errors.As(err, &inc), "got %v", err)
	assert.Equal(t, date("2021-02-28"), inc.HistoryEnd)
	assert.Equal(t, date("2021-02-25"), inc.BatchEnd)
}

func TestMerge_Gap(t *testing.T) {
	batch := chain(500000,
		row{"2021-03-28", "myCompany", "Paycheck", 200000},
		row{"2021-03-02", "Book Store", "Book Order 3435", -3500},
	)
	res, err := Merge(scenarioHistory(), batch)

	var gap *GapError
	require.True(t, errors.As(err, &gap), "got %v", err)
	assert.Equal(t, "Book Order 3435", gap.Anchor.Usage)
	require.Len(t, res.Warnings, 1, "batch starts after history ends")
	assert.Equal(t, date("2021-02-25"), res.Warnings[0].HistoryEnd)
	assert.Equal(t, date("2021-03-02"), res.Warnings[0].BatchStart)
}

func TestMerge_GapInsideRange(t *testing.T) {
	// Anchor date lies inside history but the record itself is unknown.
	batch := chain(290000,
		rowBonus,
		row{"2021-02-20", "Someone", "unknown", 1000},
	)
	res, err := Merge(scenarioHistory(), batch)
	var gap *GapError
	require.True(t, errors.As(err, &gap))
	assert.Empty(t, res.Warnings)
}

func TestMerge_SelfMergeIsIdentity(t *testing.T) {
	history := stamped(chain(0,
		rowBonus, rowPaycheck, rowFrank, rowStore,
		row{"2021-02-01", "Landlord", "Rent", -50000},
	))
	for k := 1; k <= len(history); k++ {
		batch := append([]model.Transaction(nil), history[:k]...)
		res, err := Merge(history, batch)
		require.NoError(t, err, "suffix length %d", k)
		assert.Equal(t, history, res.Transactions, "suffix length %d", k)
		assert.Zero(t, res.Added)
		assert.Equal(t, k, res.Overlap)
	}
}

func TestMerge_Sizing(t *testing.T) {
	history := stamped(chain(100000,
		row{"2021-02-25", "myCompany", "Paycheck", 200000},
		row{"2021-02-18", "Gas Station", "Thank you!", -5000},
		row{"2021-02-17", "Frank", "Sending your money", 5000},
		row{"2021-02-11", "Store", "Your friendly store nearby", -15000},
		row{"2021-02-01", "Landlord", "Rent", -50000},
		row{"2021-01-25", "myCompany", "Paycheck", 200000},
		row{"2021-01-23", "Taxi", "Thank you for riding the cab", -1200},
		row{"2020-12-31", "Book Store", "Book Order 1234", -2500},
	))
	batch := chain(history[2].Saldo,
		row{"2021-03-28", "myCompany", "Paycheck", 200000},
		row{"2021-03-11", "Store", "Your friendly store nearby", -12000},
		row{"2021-03-06", "Gas Station", "Thank you!", -5000},
		row{"2021-03-02", "Book Store", "Book Order 3435", -3500},
		row{"2021-03-01", "Landlord", "Rent", -50000},
		row{"2021-02-25", "myCompany", "Paycheck", 200000},
		row{"2021-02-18", "Gas Station", "Thank you!", -5000},
	)

	res, err := Merge(history, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Overlap)
	assert.Len(t, res.Transactions, len(history)+len(batch)-res.Overlap)
	assert.Equal(t, 5, res.Added)
	assert.Equal(t, "myCompany", res.Transactions[0].Customer)
	assert.Equal(t, "Book Store", res.Transactions[len(res.Transactions)-1].Customer)
	assert.NoError(t, Validate(res.Transactions))

	for i := 1; i < len(res.Transactions); i++ {
		assert.False(t, res.Transactions[i].Date.After(res.Transactions[i-1].Date), "not newest first at %d", i)
	}
}

func TestMerge_DuplicatesCollapse(t *testing.T) {
	batch := chain(0, rowBonus, rowPaycheck)
	batch = append(batch, batch[1])
	res, err := Merge(nil, batch)
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 2)
}

func TestMerge_PrefersBatchCopy(t *testing.T) {
	history := scenarioHistory()
	history[0].Group = model.Classified("income")
	history[0].Saldo = 1 // corrupted, replaced by the batch copy

	batch := scenarioBatch()
	res, err := Merge(history, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(500000), res.Transactions[1].Saldo)
	assert.Equal(t, model.Unclassified, res.Transactions[1].Group)
}

func TestMerge_LostRecords(t *testing.T) {
	// The batch skips two history records newer than its anchor.
	history := stamped(chain(310000,
		rowPaycheck,
		row{"2021-02-20", "Gas Station", "Thank you!", -5000},
		rowFrank,
		rowStore,
	))
	batch := chain(295000, rowBonus, rowFrank)

	_, err := Merge(history, batch)
	var size *MergeSizeError
	require.True(t, errors.As(err, &size), "got %v", err)
	assert.Equal(t, 4, size.History)
	assert.Equal(t, 2, size.Batch)
	assert.Equal(t, 3, size.Merged)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	history := scenarioHistory()
	batch := scenarioBatch()
	historyCopy := append([]model.Transaction(nil), history...)
	batchCopy := append([]model.Transaction(nil), batch...)

	_, err := Merge(history, batch)
	require.NoError(t, err)
	assert.Equal(t, historyCopy, history)
	assert.Equal(t, batchCopy, batch)
}

func TestMerge_SameDayOrderKept(t *testing.T) {
	history := stamped(chain(0,
		row{"2021-02-25", "A", "first", 100},
		row{"2021-02-25", "B", "second", 200},
		row{"2021-02-20", "C", "third", 300},
	))
	batch := chain(300,
		row{"2021-02-26", "D", "fourth", 400},
		row{"2021-02-25", "A", "first", 100},
		row{"2021-02-25", "B", "second", 200},
	)
	res, err := Merge(history, batch)
	require.NoError(t, err)
	assert.Equal(t, []string{"fourth", "first", "second", "third"}, usages(res.Transactions))
	assert.NoError(t, Validate(res.Transactions))
}

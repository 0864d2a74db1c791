package model

import (
	"slices"
	"time"
)

// Ledger is the ordered collection of records for one account, newest
// first.
type Ledger struct {
	Identity     Identity
	Transactions []Transaction
}

// Clone returns a deep copy safe to mutate.
func (l Ledger) Clone() Ledger {
	return Ledger{
		Identity:     l.Identity,
		Transactions: slices.Clone(l.Transactions),
	}
}

// Len returns the number of records.
func (l Ledger) Len() int { return len(l.Transactions) }

// SortNewestFirst orders records by descending date. Records sharing a date
// keep their relative order.
func SortNewestFirst(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return b.Date.Compare(a.Date)
	})
}

// DateRange returns the oldest and newest booking dates. ok is false for an
// empty slice.
func DateRange(txs []Transaction) (oldest, newest time.Time, ok bool) {
	if len(txs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	oldest, newest = txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(oldest) {
			oldest = tx.Date
		}
		if tx.Date.After(newest) {
			newest = tx.Date
		}
	}
	return oldest, newest, true
}

// ResetGroups marks every record Unclassified.
func ResetGroups(txs []Transaction) {
	for i := range txs {
		txs[i].Group = Unclassified
	}
}

// Unclassified returns the records no rule has matched.
func (l Ledger) Unclassified() []Transaction {
	return l.InGroup(Unclassified)
}

// InGroup returns the records assigned to g.
func (l Ledger) InGroup(g Group) []Transaction {
	var out []Transaction
	for _, tx := range l.Transactions {
		if tx.Group == g {
			out = append(out, tx)
		}
	}
	return out
}

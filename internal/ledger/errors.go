package ledger

import (
	"fmt"
	"time"

	"github.com/cleared-dev/saldo/internal/model"
)

// GapError is returned when the oldest record of a batch does not occur in
// the history, so the two cannot be shown to share a boundary.
type GapError struct {
	Anchor model.Transaction
}

func (e *GapError) Error() string {
	return fmt.Sprintf("gap between history and batch: anchor %s %q (%s) not found in history",
		e.Anchor.Date.Format(model.DateFormat), e.Anchor.Usage, e.Anchor.UID)
}

// AlreadyIncludedError is returned when a batch ends before the history
// does; merging it would move the ledger backwards.
type AlreadyIncludedError struct {
	HistoryEnd time.Time
	BatchEnd   time.Time
}

func (e *AlreadyIncludedError) Error() string {
	return fmt.Sprintf("batch ending %s is already included in history ending %s",
		e.BatchEnd.Format(model.DateFormat), e.HistoryEnd.Format(model.DateFormat))
}

// BalanceTraceError reports the first record whose stored saldo does not
// follow from its predecessor and its value.
type BalanceTraceError struct {
	Position    int   // index of Record, newest first
	Discrepancy int64 // stored delta minus value
	Record      model.Transaction
	Neighbor    model.Transaction // the next older record
}

func (e *BalanceTraceError) Error() string {
	return fmt.Sprintf("balance trace broken at %s (position %d): saldo %d follows %d but value is %d, off by %d; record %q / %q, previous %s %q",
		e.Record.Date.Format(model.DateFormat), e.Position,
		e.Record.Saldo, e.Neighbor.Saldo, e.Record.Value, e.Discrepancy,
		e.Record.Customer, e.Record.Usage,
		e.Neighbor.Date.Format(model.DateFormat), e.Neighbor.Usage)
}

// MergeSizeError is returned when a merge would lose or invent records.
type MergeSizeError struct {
	History, Batch, Merged int
}

func (e *MergeSizeError) Error() string {
	return fmt.Sprintf("merge of %d history and %d batch records produced %d records", e.History, e.Batch, e.Merged)
}

// IdentityMismatchWarning notes a statement whose account identity differs
// from the ledger's.
type IdentityMismatchWarning struct {
	Field   string
	History string
	Batch   string
}

func (w IdentityMismatchWarning) String() string {
	return fmt.Sprintf("%s is mismatching: ledger has %q, statement has %q", w.Field, w.History, w.Batch)
}

// PossibleGapWarning notes a batch that starts after the history ends.
type PossibleGapWarning struct {
	HistoryEnd time.Time
	BatchStart time.Time
}

func (w PossibleGapWarning) String() string {
	return fmt.Sprintf("batch starts %s, after history ends %s",
		w.BatchStart.Format(model.DateFormat), w.HistoryEnd.Format(model.DateFormat))
}

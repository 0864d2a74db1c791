package ledger

import (
	"slices"

	"github.com/cleared-dev/saldo/internal/model"
	"github.com/cleared-dev/saldo/internal/uid"
)

// MergeResult is the outcome of reconciling a batch against history.
type MergeResult struct {
	Transactions []model.Transaction // merged, newest first
	Added        int                 // records not previously in history
	Overlap      int                 // records shared by history and batch
	Warnings     []PossibleGapWarning
}

// Merge reconciles a statement batch with the existing history. Neither
// input is modified.
//
// The oldest batch record is the anchor: history is cut just below it and the
// full batch is placed on top. A batch whose anchor is not in history fails
// with *GapError; a batch ending before history fails with
// *AlreadyIncludedError.
func Merge(history, batch []model.Transaction) (MergeResult, error) {
	batch = slices.Clone(batch)
	uid.Stamp(batch)
	model.SortNewestFirst(batch)

	if len(history) == 0 {
		merged := dedupe(batch)
		return MergeResult{Transactions: merged, Added: len(merged)}, nil
	}
	if len(batch) == 0 {
		return MergeResult{Transactions: slices.Clone(history)}, nil
	}

	history = slices.Clone(history)
	model.SortNewestFirst(history)

	var res MergeResult
	historyEnd := history[0].Date
	batchStart, batchEnd := batch[len(batch)-1].Date, batch[0].Date
	if historyEnd.After(batchEnd) {
		return res, &AlreadyIncludedError{HistoryEnd: historyEnd, BatchEnd: batchEnd}
	}
	if batchStart.After(historyEnd) {
		res.Warnings = append(res.Warnings, PossibleGapWarning{HistoryEnd: historyEnd, BatchStart: batchStart})
	}

	anchor := batch[len(batch)-1]
	p, ok := indexByUID(history)[anchor.UID]
	if !ok {
		return res, &GapError{Anchor: anchor}
	}

	merged := make([]model.Transaction, 0, len(batch)+len(history)-p-1)
	merged = append(merged, batch...)
	merged = append(merged, history[p+1:]...)
	model.SortNewestFirst(merged)
	merged = dedupe(merged)

	if len(merged) > len(history)+len(batch) || len(merged) < max(len(history), len(batch)) {
		return res, &MergeSizeError{History: len(history), Batch: len(batch), Merged: len(merged)}
	}

	res.Transactions = merged
	res.Added = len(merged) - len(history)
	res.Overlap = len(history) + len(batch) - len(merged)
	return res, nil
}

// indexByUID maps each uid to its first position.
func indexByUID(txs []model.Transaction) map[string]int {
	idx := make(map[string]int, len(txs))
	for i, tx := range txs {
		if _, seen := idx[tx.UID]; !seen {
			idx[tx.UID] = i
		}
	}
	return idx
}

// dedupe drops every record whose uid already occurred earlier.
func dedupe(txs []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(txs))
	out := txs[:0]
	for _, tx := range txs {
		if seen[tx.UID] {
			continue
		}
		seen[tx.UID] = true
		out = append(out, tx)
	}
	return out
}

package ledger

import (
	"github.com/cleared-dev/saldo/internal/model"
)

// Validate checks the running balance of a newest-first ledger. Walking
// from the oldest record, each saldo must equal the previous saldo plus the
// record's value. The first divergence is returned as *BalanceTraceError.
func Validate(txs []model.Transaction) error {
	for i := len(txs) - 2; i >= 0; i-- {
		older, tx := txs[i+1], txs[i]
		delta := tx.Saldo - older.Saldo
		if delta != tx.Value {
			return &BalanceTraceError{
				Position:    i,
				Discrepancy: delta - tx.Value,
				Record:      tx,
				Neighbor:    older,
			}
		}
	}
	return nil
}

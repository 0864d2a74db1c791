package ledger

import (
	"time"

	"github.com/cleared-dev/saldo/internal/model"
	"github.com/cleared-dev/saldo/internal/uid"
)

type row struct {
	date     string
	customer string
	usage    string
	value    int64
}

func date(s string) time.Time {
	t, err := time.Parse(model.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

// chain builds a newest-first ledger whose saldo column follows from the
// opening balance and the values.
func chain(opening int64, rows ...row) []model.Transaction {
	txs := make([]model.Transaction, len(rows))
	saldo := opening
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		saldo += r.value
		txs[i] = model.Transaction{
			Date:          date(r.date),
			Valuta:        date(r.date),
			Customer:      r.customer,
			Type:          "transfer",
			Usage:         r.usage,
			Value:         r.value,
			ValueCurrency: "EUR",
			Saldo:         saldo,
			SaldoCurrency: "EUR",
		}
	}
	return txs
}

func stamped(txs []model.Transaction) []model.Transaction {
	uid.Stamp(txs)
	return txs
}

var (
	rowBonus    = row{"2021-02-28", "myCompany", "Bonus", 10000}
	rowPaycheck = row{"2021-02-25", "myCompany", "Paycheck", 200000}
	rowFrank    = row{"2021-02-17", "Frank", "Sending your money", 5000}
	rowStore    = row{"2021-02-11", "Store", "Your friendly store nearby", -15000}
)

// scenarioHistory is the three-record history of the reference scenario.
func scenarioHistory() []model.Transaction {
	return stamped(chain(310000, rowPaycheck, rowFrank, rowStore))
}

// scenarioBatch extends scenarioHistory by one record, anchored on the
// paycheck.
func scenarioBatch() []model.Transaction {
	return chain(300000, rowBonus, rowPaycheck)
}

func usages(txs []model.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Usage
	}
	return out
}

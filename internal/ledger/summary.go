package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/cleared-dev/saldo/internal/model"
)

// YearSummary totals one calendar year.
type YearSummary struct {
	Year     int
	Income   int64
	Expenses int64 // negative
	Count    int
}

// Net returns income plus expenses.
func (y YearSummary) Net() int64 { return y.Income + y.Expenses }

// GroupSummary totals one category.
type GroupSummary struct {
	Group string
	Total int64
	Count int
}

// Summary aggregates a newest-first ledger for reports.
type Summary struct {
	First, Last time.Time
	Balance     int64 // saldo of the newest record
	Currency    string
	Years       []YearSummary  // ascending
	Groups      []GroupSummary // most negative first
}

// Summarize computes yearly and per-group totals.
func Summarize(txs []model.Transaction) Summary {
	var s Summary
	if len(txs) == 0 {
		return s
	}
	s.First, s.Last, _ = model.DateRange(txs)
	s.Balance = txs[0].Saldo
	s.Currency = txs[0].SaldoCurrency

	years := make(map[int]*YearSummary)
	groups := make(map[string]*GroupSummary)
	for _, tx := range txs {
		y := years[tx.Date.Year()]
		if y == nil {
			y = &YearSummary{Year: tx.Date.Year()}
			years[tx.Date.Year()] = y
		}
		y.Count++
		if tx.Value >= 0 {
			y.Income += tx.Value
		} else {
			y.Expenses += tx.Value
		}

		name := tx.Group.String()
		g := groups[name]
		if g == nil {
			g = &GroupSummary{Group: name}
			groups[name] = g
		}
		g.Total += tx.Value
		g.Count++
	}

	for _, y := range years {
		s.Years = append(s.Years, *y)
	}
	slices.SortFunc(s.Years, func(a, b YearSummary) int { return cmp.Compare(a.Year, b.Year) })

	for _, g := range groups {
		s.Groups = append(s.Groups, *g)
	}
	slices.SortFunc(s.Groups, func(a, b GroupSummary) int {
		if c := cmp.Compare(a.Total, b.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Group, b.Group)
	})
	return s
}

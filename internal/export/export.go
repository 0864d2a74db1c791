// Package export writes ledgers to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/saldo/internal/amount"
	"github.com/cleared-dev/saldo/internal/ledger"
	"github.com/cleared-dev/saldo/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetTransactions = "Transactions"
	SheetSummary      = "Summary"
)

// numFmtAmount is the built-in "#,##0.00" format.
const numFmtAmount = 4

var transactionHeader = []any{"Date", "Valuta", "Customer", "Type", "Usage", "Value", "Currency", "Saldo", "Group", "UID"}

// Write encodes l as an xlsx workbook.
func Write(w io.Writer, l model.Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeTransactions(f, l.Transactions, amountStyle); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := writeSummary(f, l, amountStyle); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to path.
func WriteFile(path string, l model.Ledger) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	if err := Write(out, l); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeTransactions(f *excelize.File, txs []model.Transaction, amountStyle int) error {
	sh := SheetTransactions
	if err := f.SetSheetRow(sh, "A1", &transactionHeader); err != nil {
		return err
	}
	for i, tx := range txs {
		valuta := ""
		if !tx.Valuta.IsZero() {
			valuta = tx.Valuta.Format(model.DateFormat)
		}
		row := []any{
			tx.Date.Format(model.DateFormat),
			valuta,
			tx.Customer,
			tx.Type,
			tx.Usage,
			major(tx.Value, tx.ValueCurrency),
			tx.ValueCurrency,
			major(tx.Saldo, tx.SaldoCurrency),
			tx.Group.String(),
			tx.UID,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh, cell, &row); err != nil {
			return err
		}
	}

	for _, col := range []string{"F", "H"} {
		if err := f.SetColStyle(sh, col, amountStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sh, "C", "E", 30); err != nil {
		return err
	}
	if len(txs) > 0 {
		last, err := excelize.CoordinatesToCellName(len(transactionHeader), len(txs)+1)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(sh, "A1:"+last, nil); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, l model.Ledger, amountStyle int) error {
	sh := SheetSummary
	s := ledger.Summarize(l.Transactions)

	rows := [][]any{
		{"Owner", l.Identity.Owner},
		{"Account number", l.Identity.AccountNumber},
		{"Bank", l.Identity.Bank},
		{"Transactions", len(l.Transactions)},
	}
	if len(l.Transactions) > 0 {
		rows = append(rows,
			[]any{"From", s.First.Format(model.DateFormat)},
			[]any{"To", s.Last.Format(model.DateFormat)},
			[]any{"Balance", major(s.Balance, s.Currency)},
		)
	}
	rows = append(rows, nil, []any{"Year", "Income", "Expenses", "Net", "Count"})
	for _, y := range s.Years {
		rows = append(rows, []any{y.Year, major(y.Income, s.Currency), major(y.Expenses, s.Currency), major(y.Net(), s.Currency), y.Count})
	}
	rows = append(rows, nil, []any{"Group", "Total", "Count"})
	for _, g := range s.Groups {
		rows = append(rows, []any{g.Group, major(g.Total, s.Currency), g.Count})
	}

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(sh, "B:D", amountStyle); err != nil {
		return err
	}
	return f.SetColWidth(sh, "A", "A", 18)
}

// major converts minor units to a float for spreadsheet cells.
func major(minor int64, currency string) float64 {
	return amount.Decimal(minor, amount.Fraction(currency)).InexactFloat64()
}

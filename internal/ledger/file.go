package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/cleared-dev/saldo/internal/config"
	"github.com/cleared-dev/saldo/internal/model"
)

// Marker lines of the ledger file header.
const (
	FileMarker    = "##SALDO DATABASE"
	SectionInfo   = "#GENERALINFO"
	SectionStats  = "#STATS"
	SectionTable  = "#TRANSACTIONS"
	createdLayout = "File created at 2006-01-02 15:04:05"
)

// Columns is the header of the transaction table.
var Columns = []string{"date", "valuta", "customer", "type", "usage", "saldo", "saldoCurrency", "value", "valueCurrency", "groupID", "uid"}

const (
	numFields    = 11
	colDate      = 0
	colValuta    = 1
	colCustomer  = 2
	colType      = 3
	colUsage     = 4
	colSaldo     = 5
	colSaldoCur  = 6
	colValue     = 7
	colValueCur  = 8
	colGroup     = 9
	colUID       = 10
	keyOwner     = "owner"
	keyAccountNo = "account number"
	keyBank      = "bank"
)

// Format is the delimiter and date layout of a ledger file.
type Format struct {
	Comma      rune
	DateFormat string
}

// FormatFromConfig builds a Format from the database settings.
func FormatFromConfig(db config.DatabaseConfig) (Format, error) {
	comma, err := db.Comma()
	if err != nil {
		return Format{}, fmt.Errorf("database delimiter: %w", err)
	}
	layout := db.DateFormat
	if layout == "" {
		layout = model.DateFormat
	}
	return Format{Comma: comma, DateFormat: layout}, nil
}

// Write encodes a ledger: header block, then the transaction table.
func Write(w io.Writer, l model.Ledger, f Format, created time.Time) error {
	cw := csv.NewWriter(w)
	cw.Comma = f.Comma

	header := [][]string{
		{FileMarker},
		{created.Format(createdLayout)},
		{SectionInfo},
		{keyOwner, l.Identity.Owner},
		{keyAccountNo, l.Identity.AccountNumber},
		{keyBank, l.Identity.Bank},
		{SectionStats},
		{"totalSum", "..."},
		{"expenseGroupNames", "..."},
		{"expenseGroupValues", "..."},
		{SectionTable},
		Columns,
	}
	if err := cw.WriteAll(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range l.Transactions {
		if err := cw.Write(marshalRow(tx, f)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read decodes a ledger written by Write.
func Read(r io.Reader, f Format) (model.Ledger, error) {
	cr := csv.NewReader(r)
	cr.Comma = f.Comma
	cr.FieldsPerRecord = -1

	var l model.Ledger
	first, err := cr.Read()
	if err != nil {
		return l, fmt.Errorf("reading ledger header: %w", err)
	}
	if first[0] != FileMarker {
		return l, fmt.Errorf("not a ledger file: first line is %q", first[0])
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return l, fmt.Errorf("missing %s section", SectionTable)
		}
		if err != nil {
			return l, fmt.Errorf("reading ledger header: %w", err)
		}
		if rec[0] == SectionTable {
			break
		}
		if len(rec) < 2 {
			continue
		}
		switch rec[0] {
		case keyOwner:
			l.Identity.Owner = rec[1]
		case keyAccountNo:
			l.Identity.AccountNumber = rec[1]
		case keyBank:
			l.Identity.Bank = rec[1]
		}
	}

	cols, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return l, fmt.Errorf("missing table header")
	}
	if err != nil {
		return l, fmt.Errorf("reading table header: %w", err)
	}
	if !slices.Equal(cols, Columns) {
		return l, fmt.Errorf("unexpected table columns %v", cols)
	}

	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l, fmt.Errorf("reading row %d: %w", row, err)
		}
		tx, err := unmarshalRow(rec, f)
		if err != nil {
			return l, fmt.Errorf("row %d: %w", row, err)
		}
		l.Transactions = append(l.Transactions, tx)
	}
	return l, nil
}

func marshalRow(tx model.Transaction, f Format) []string {
	row := make([]string, numFields)
	row[colDate] = tx.Date.Format(f.DateFormat)
	if !tx.Valuta.IsZero() {
		row[colValuta] = tx.Valuta.Format(f.DateFormat)
	}
	row[colCustomer] = tx.Customer
	row[colType] = tx.Type
	row[colUsage] = tx.Usage
	row[colSaldo] = strconv.FormatInt(tx.Saldo, 10)
	row[colSaldoCur] = tx.SaldoCurrency
	row[colValue] = strconv.FormatInt(tx.Value, 10)
	row[colValueCur] = tx.ValueCurrency
	row[colGroup] = tx.Group.String()
	row[colUID] = tx.UID
	return row
}

func unmarshalRow(rec []string, f Format) (model.Transaction, error) {
	if len(rec) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	date, err := time.Parse(f.DateFormat, rec[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}

	var valuta time.Time
	if rec[colValuta] != "" {
		valuta, err = time.Parse(f.DateFormat, rec[colValuta])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing valuta %q: %w", rec[colValuta], err)
		}
	}

	saldo, err := strconv.ParseInt(rec[colSaldo], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing saldo %q: %w", rec[colSaldo], err)
	}

	value, err := strconv.ParseInt(rec[colValue], 10, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing value %q: %w", rec[colValue], err)
	}

	return model.Transaction{
		Date:          model.Day(date),
		Valuta:        valuta,
		Customer:      rec[colCustomer],
		Type:          rec[colType],
		Usage:         rec[colUsage],
		Value:         value,
		ValueCurrency: rec[colValueCur],
		Saldo:         saldo,
		SaldoCurrency: rec[colSaldoCur],
		Group:         model.Classified(rec[colGroup]),
		UID:           rec[colUID],
	}, nil
}

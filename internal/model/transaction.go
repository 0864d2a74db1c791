package model

import (
	"time"
)

// DateFormat is the canonical ISO-8601 date layout.
const DateFormat = "2006-01-02"

// Transaction is one ledger line. Amounts are fixed-point integers in minor
// currency units (cents).
type Transaction struct {
	Date          time.Time // booking date
	Valuta        time.Time // value/settlement date
	Customer      string    // counterparty
	Type          string
	Usage         string // free-text memo
	Value         int64  // signed amount of this transaction
	ValueCurrency string
	Saldo         int64 // running balance after this transaction
	SaldoCurrency string
	Group         Group
	UID           string
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Field returns the text value of a named record field, as used by
// classification rules and search. ok is false for unknown names.
func (t Transaction) Field(name string) (value string, ok bool) {
	switch name {
	case "customer":
		return t.Customer, true
	case "usage":
		return t.Usage, true
	case "type":
		return t.Type, true
	case "valueCurrency":
		return t.ValueCurrency, true
	case "saldoCurrency":
		return t.SaldoCurrency, true
	case "groupID":
		return t.Group.String(), true
	case "uid":
		return t.UID, true
	}
	return "", false
}

// TextFields lists the field names accepted by Field.
var TextFields = []string{"customer", "usage", "type", "valueCurrency", "saldoCurrency", "groupID", "uid"}

package config

// StatementFormat describes the layout of one bank's statement export.
type StatementFormat struct {
	Name             string            `yaml:"name"`
	Delimiter        string            `yaml:"delimiter"`
	Encoding         string            `yaml:"encoding"`          // "utf-8", "iso-8859-1", "windows-1252"
	DateFormat       string            `yaml:"date_format"`       // Go reference layout
	DecimalSeparator string            `yaml:"decimal_separator"` // "," or "."
	Currency         string            `yaml:"currency"`          // used when no currency column is mapped
	Header           HeaderKeys        `yaml:"header"`
	TableRow         int               `yaml:"table_row"` // zero-based line of the column names, -1 to detect
	Columns          map[string]string `yaml:"columns"`   // statement column -> ledger field
}

// HeaderKeys names the first field of the header lines holding the account
// identity. The value is the second field of that line. An empty key means
// the bank does not provide the value.
type HeaderKeys struct {
	Owner         string `yaml:"owner"`
	AccountNumber string `yaml:"account_number"`
	Bank          string `yaml:"bank"`
}

// DetectTableRow selects the header line with the most delimiters.
const DetectTableRow = -1

// Comma returns the delimiter as a rune for encoding/csv.
func (f StatementFormat) Comma() (rune, error) {
	return parseDelimiter(f.Delimiter)
}

// DecimalRune returns the configured decimal separator, defaulting to ','.
func (f StatementFormat) DecimalRune() rune {
	if f.DecimalSeparator == "." {
		return '.'
	}
	return ','
}

// LoadStatementFormat reads a statement format file.
func LoadStatementFormat(path string) (*StatementFormat, error) {
	var f StatementFormat
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveStatementFormat writes a statement format file.
func SaveStatementFormat(path string, f *StatementFormat) error {
	return saveYAML(path, f)
}

// DefaultStatementFormat matches the CSV export of a German direct bank:
// semicolon separated, Latin-1, with duplicate "Währung" columns.
func DefaultStatementFormat() *StatementFormat {
	return &StatementFormat{
		Name:             "default",
		Delimiter:        ";",
		Encoding:         "iso-8859-1",
		DateFormat:       "02.01.2006",
		DecimalSeparator: ",",
		Currency:         "EUR",
		Header: HeaderKeys{
			Owner:         "Kunde",
			AccountNumber: "IBAN",
			Bank:          "Bank",
		},
		TableRow: DetectTableRow,
		Columns: map[string]string{
			"Buchung":                "date",
			"Valuta":                 "valuta",
			"Auftraggeber/Empfänger": "customer",
			"Buchungstext":           "type",
			"Verwendungszweck":       "usage",
			"Saldo":                  "saldo",
			"Währung":                "saldoCurrency",
			"Betrag":                 "value",
			"Währung.1":              "valueCurrency",
		},
	}
}

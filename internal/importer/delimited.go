package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/saldo/internal/amount"
	"github.com/cleared-dev/saldo/internal/config"
	"github.com/cleared-dev/saldo/internal/model"
)

// detectLines is how many leading lines are searched for the table header.
const detectLines = 20

// ledgerFields are the record fields a statement column can map to.
var ledgerFields = map[string]bool{
	"date": true, "valuta": true, "customer": true, "type": true, "usage": true,
	"saldo": true, "saldoCurrency": true, "value": true, "valueCurrency": true,
}

// requiredFields must be mapped by every statement format.
var requiredFields = []string{"date", "value", "saldo"}

// DelimitedParser reads delimiter-separated statement exports laid out as
// a free-form header block followed by a table.
type DelimitedParser struct {
	format  *config.StatementFormat
	comma   rune
	decoder *encoding.Decoder // nil for UTF-8
}

// NewDelimitedParser validates f and builds a parser for it.
func NewDelimitedParser(f *config.StatementFormat) (*DelimitedParser, error) {
	comma, err := f.Comma()
	if err != nil {
		return nil, fmt.Errorf("statement delimiter: %w", err)
	}
	dec, err := decoderFor(f.Encoding)
	if err != nil {
		return nil, err
	}
	if f.DateFormat == "" {
		return nil, errors.New("statement format has no date_format")
	}

	mapped := make(map[string]bool)
	for col, field := range f.Columns {
		if !ledgerFields[field] {
			return nil, fmt.Errorf("column %q maps to unknown field %q", col, field)
		}
		if mapped[field] {
			return nil, fmt.Errorf("field %q is mapped twice", field)
		}
		mapped[field] = true
	}
	for _, field := range requiredFields {
		if !mapped[field] {
			return nil, fmt.Errorf("no column maps to %q", field)
		}
	}
	return &DelimitedParser{format: f, comma: comma, decoder: dec}, nil
}

// Format returns the statement format name.
func (p *DelimitedParser) Format() string { return p.format.Name }

// Parse reads a statement. Header lines before the table are scanned for
// the identity keys; the table is read from the configured or detected
// header line on.
func (p *DelimitedParser) Parse(r io.Reader) (Statement, error) {
	if p.decoder != nil {
		r = transform.NewReader(r, p.decoder)
	}
	lines, err := readLines(r)
	if err != nil {
		return Statement{}, fmt.Errorf("reading statement: %w", err)
	}

	table := p.format.TableRow
	if table == config.DetectTableRow {
		table = detectTable(lines, p.comma)
	}
	if table < 0 || table >= len(lines) {
		return Statement{}, fmt.Errorf("table header line %d is outside the file (%d lines)", table+1, len(lines))
	}

	var st Statement
	st.Identity = p.readIdentity(lines[:table])

	cr := csv.NewReader(strings.NewReader(strings.Join(lines[table:], "\n")))
	cr.Comma = p.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return Statement{}, fmt.Errorf("reading table header: %w", err)
	}
	cols, err := p.columnIndex(header)
	if err != nil {
		return Statement{}, err
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Statement{}, fmt.Errorf("reading table: %w", err)
		}
		if blank(rec) {
			continue
		}
		tx, err := p.parseRow(rec, cols)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return Statement{}, fmt.Errorf("line %d: %w", table+line, err)
		}
		st.Transactions = append(st.Transactions, tx)
	}
	return st, nil
}

func (p *DelimitedParser) readIdentity(header []string) model.Identity {
	keys := p.format.Header
	var id model.Identity
	for _, line := range header {
		rec := splitLine(line, p.comma)
		if len(rec) < 2 {
			continue
		}
		key := strings.TrimSuffix(strings.TrimSpace(rec[0]), ":")
		value := strings.TrimSpace(rec[1])
		switch {
		case key == "":
		case key == keys.Owner && id.Owner == "":
			id.Owner = value
		case key == keys.AccountNumber && id.AccountNumber == "":
			id.AccountNumber = value
		case key == keys.Bank && id.Bank == "":
			id.Bank = value
		}
	}
	return id
}

// columnIndex maps ledger fields to table positions. Repeated column names
// get ".1", ".2", ... suffixes in order of appearance.
func (p *DelimitedParser) columnIndex(header []string) (map[string]int, error) {
	seen := make(map[string]int)
	cols := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		if field, ok := p.format.Columns[name]; ok {
			cols[field] = i
		}
	}
	for _, field := range requiredFields {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("table has no column for %q (columns: %s)", field, strings.Join(header, ", "))
		}
	}
	return cols, nil
}

func (p *DelimitedParser) parseRow(rec []string, cols map[string]int) (model.Transaction, error) {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := time.Parse(p.format.DateFormat, get("date"))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", get("date"), err)
	}
	var valuta time.Time
	if s := get("valuta"); s != "" {
		valuta, err = time.Parse(p.format.DateFormat, s)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing valuta %q: %w", s, err)
		}
	}

	valueCur := p.currency(get("valueCurrency"))
	saldoCur := p.currency(get("saldoCurrency"))

	value, err := amount.Parse(get("value"), p.format.DecimalRune(), amount.Fraction(valueCur))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing value: %w", err)
	}
	saldo, err := amount.Parse(get("saldo"), p.format.DecimalRune(), amount.Fraction(saldoCur))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing saldo: %w", err)
	}

	return model.Transaction{
		Date:          model.Day(date),
		Valuta:        valuta,
		Customer:      get("customer"),
		Type:          get("type"),
		Usage:         get("usage"),
		Value:         value,
		ValueCurrency: valueCur,
		Saldo:         saldo,
		SaldoCurrency: saldoCur,
	}, nil
}

func (p *DelimitedParser) currency(s string) string {
	if s == "" {
		return p.format.Currency
	}
	return strings.ToUpper(s)
}

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "latin-1", "latin1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "iso-8859-15", "latin-9":
		return charmap.ISO8859_15.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported statement encoding %q", name)
	}
}

// readLines keeps blank lines so that line numbers match the file.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// detectTable returns the first of the leading lines with the most
// delimiters.
func detectTable(lines []string, comma rune) int {
	best, bestCount := 0, -1
	for i, line := range lines[:min(len(lines), detectLines)] {
		if n := strings.Count(line, string(comma)); n > bestCount {
			best, bestCount = i, n
		}
	}
	return best
}

func splitLine(line string, comma rune) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rec, err := cr.Read()
	if err != nil {
		return strings.Split(line, string(comma))
	}
	return rec
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

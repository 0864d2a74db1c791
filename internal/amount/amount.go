// Package amount converts between locale formatted money strings and the
// fixed-point minor-unit integers stored in the ledger.
package amount

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultFraction is used for currencies unknown to the ISO-4217 table.
const DefaultFraction = 2

// Fraction returns the number of minor-unit digits of a currency code.
func Fraction(code string) int {
	if c := money.GetCurrency(strings.ToUpper(code)); c != nil {
		return c.Fraction
	}
	return DefaultFraction
}

// Parse converts a bank formatted amount such as "-1.234,56" or "1,234.56"
// into minor units with the given number of fraction digits.
//
// decimalSep is the separator the bank normally uses. When both '.' and ','
// occur, the last one is the decimal separator. When only the other
// separator occurs, it is read as a thousands separator if it repeats or is
// followed by exactly three digits, and as the decimal separator otherwise.
func Parse(s string, decimalSep rune, fraction int) (int64, error) {
	raw := s
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	dec := resolveDecimal(s, decimalSep)
	thousands := ","
	if dec == ',' {
		thousands = "."
	}
	s = strings.ReplaceAll(s, thousands, "")
	s = strings.Replace(s, string(dec), ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	scaled := d.Shift(int32(fraction))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", raw, fraction)
	}
	return scaled.IntPart(), nil
}

func resolveDecimal(s string, decimalSep rune) rune {
	if decimalSep != ',' {
		decimalSep = '.'
	}
	other := ','
	if decimalSep == ',' {
		other = '.'
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	if lastDot >= 0 && lastComma >= 0 {
		if lastDot > lastComma {
			return '.'
		}
		return ','
	}

	if strings.ContainsRune(s, decimalSep) {
		return decimalSep
	}
	if n := strings.Count(s, string(other)); n == 1 {
		i := strings.IndexRune(s, other)
		if len(s)-i-1 != 3 {
			return other
		}
	}
	return decimalSep
}

// Decimal returns minor units as a decimal value in major units.
func Decimal(minor int64, fraction int) decimal.Decimal {
	return decimal.New(minor, -int32(fraction))
}

// Format renders minor units for display, using the currency's symbol and
// separators when the code is known.
func Format(minor int64, code string) string {
	code = strings.ToUpper(code)
	if money.GetCurrency(code) != nil {
		return money.New(minor, code).Display()
	}
	s := Decimal(minor, DefaultFraction).StringFixed(DefaultFraction)
	if code == "" {
		return s
	}
	return s + " " + code
}

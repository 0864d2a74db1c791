package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		sep   rune
		want  int64
	}{
		{"5.000,00", ',', 500000},
		{"-15,00", ',', -1500},
		{"1,5", ',', 150},
		{"2.000", ',', 200000},
		{"1.234.567,89", ',', 123456789},
		{"+50,00", ',', 5000},
		{"5.0", ',', 500},
		{"1 234,56", ',', 123456},
		{"1,234.56", '.', 123456},
		{"-4.00", '.', -400},
		{"3500", '.', 350000},
		{"1,234", '.', 123400},
		{"1.234,56", '.', 123456},
		{"0,01", ',', 1},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input, tt.sep, 2)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got, "input: %s", tt.input)
	}
}

func TestParse_ZeroFraction(t *testing.T) {
	got, err := Parse("1.500", ',', 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got)
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{"", "asd", "1,234,5x", "0,001"} {
		_, err := Parse(input, ',', 2)
		assert.Error(t, err, "expected error for input: %q", input)
	}
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 2, Fraction("EUR"))
	assert.Equal(t, 2, Fraction("eur"))
	assert.Equal(t, 0, Fraction("JPY"))
	assert.Equal(t, DefaultFraction, Fraction("XXX-unknown"))
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "-150.00", Decimal(-15000, 2).StringFixed(2))
}

func TestFormat(t *testing.T) {
	assert.Contains(t, Format(510000, "EUR"), "5,100.00")
	assert.Equal(t, "12.34", Format(1234, ""))
	assert.Equal(t, "12.34 PTS", Format(1234, "PTS"))
}

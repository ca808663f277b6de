package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"R$ 2.500,00", "2500"},
		{"R$ 625,00", "625"},
		{"R$ 0,5", "0.5"},
		{"1234", "1234"},
		{"R$ 12,34,56", "12.34"},
		{"", "0"},
		{"abc", "0"},
		{"R$ ,", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.in).String())
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"0", "R$ 0,00"},
		{"500", "R$ 500,00"},
		{"2000", "R$ 2.000,00"},
		{"2500", "R$ 2.500,00"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"0.005", "R$ 0,01"},
		{"-250", "R$ -250,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []string{"0", "0.01", "1.5", "625", "999.999", "2500", "1000000.10"} {
		t.Run(v, func(t *testing.T) {
			x := decimal.RequireFromString(v)
			assert.True(t, Parse(Format(x)).Equal(x.Round(2)), "round trip of %s", v)
		})
	}
}

func TestCurrency_CustomLayout(t *testing.T) {
	usd := Currency{Symbol: "$", Decimal: ".", Thousands: ","}
	assert.Equal(t, "$ 1,250.50", usd.Format(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "1250.5", usd.Parse("$ 1,250.50").String())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "R$ 250,00", FormatFloat(250))
}

// Package money converts between localized currency text and decimal amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes how amounts are rendered.
type Currency struct {
	Symbol    string
	Decimal   string
	Thousands string
}

// BRL is the Brazilian real layout used across the dashboard: "R$ 2.500,00".
var BRL = Currency{Symbol: "R$", Decimal: ",", Thousands: "."}

// Default is the layout Parse and Format use. It starts as BRL.
var Default = BRL

// Parse reads a currency string such as "R$ 2.500,00". Everything other than
// digits and the decimal separator is dropped. Malformed input yields zero.
func Parse(text string) decimal.Decimal {
	return Default.Parse(text)
}

// Format renders amount with two decimal places using the Default currency.
func Format(amount decimal.Decimal) string {
	return Default.Format(amount)
}

// FormatFloat is a convenience for callers holding plain numbers.
func FormatFloat(amount float64) string {
	return Default.Format(decimal.NewFromFloat(amount))
}

// Parse reads text using c's decimal separator.
func (c Currency) Parse(text string) decimal.Decimal {
	sep := c.Decimal
	if sep == "" {
		sep = ","
	}
	var b strings.Builder
	seenSep := false
scan:
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case string(r) == sep:
			if seenSep {
				// a second separator ends the number
				break scan
			}
			seenSep = true
			b.WriteByte('.')
		}
	}
	cleaned := strings.TrimSuffix(b.String(), ".")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders amount as "<symbol> <grouped int><decimal><2 digits>".
func (c Currency) Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart, c.Thousands)

	var b strings.Builder
	if c.Symbol != "" {
		b.WriteString(c.Symbol)
		b.WriteByte(' ')
	}
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(grouped)
	b.WriteString(c.Decimal)
	b.WriteString(fracPart)
	return b.String()
}

func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

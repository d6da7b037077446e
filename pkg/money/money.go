// Package money formatea importes para documentos y correos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format devuelve el importe con separador de miles y 2 decimales, precedido del símbolo.
// Ej: ("₵", 1234.5) → "₵1,234.50".
func Format(symbol string, amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + symbol + printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// Percent formatea un porcentaje sin ceros de relleno: 5.00 → "5%", 12.50 → "12.5%".
func Percent(p decimal.Decimal) string {
	return p.Round(2).String() + "%"
}

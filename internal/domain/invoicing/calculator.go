// Package invoicing contiene las reglas del ciclo de vida de una factura:
// cálculo de totales, numeración, referencia de cliente, conciliación de ítems,
// detección de cambios y transiciones de estado.
package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Límites de las columnas NUMERIC(5,2) y NUMERIC(15,2).
var (
	maxTaxPercent = decimal.RequireFromString("999.99")
	maxAmount     = decimal.RequireFromString("9999999999999.99")
)

// Line par cantidad/precio de una línea de factura.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals resultado del cálculo de una factura.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxPercent decimal.Decimal
	TaxAmount  decimal.Decimal
	Total      decimal.Decimal
}

// Calculate calcula subtotal, impuesto y total.
//
// El orden de redondeo es parte del contrato: se suman las líneas sin redondear,
// luego se redondean subtotal y porcentaje por separado, después el impuesto y
// por último el total. Redondeo a 2 decimales, mitad alejándose de cero.
func Calculate(lines []Line, taxPercent decimal.Decimal) (Totals, error) {
	verr := domain.NewValidationError()
	if len(lines) == 0 {
		verr.Add("items", "debe incluir al menos un ítem")
	}
	for i, l := range lines {
		switch {
		case l.Quantity.LessThan(decimal.NewFromInt(1)):
			verr.Add(fmt.Sprintf("items.%d.quantity", i), "la cantidad debe ser al menos 1")
		case !l.Quantity.Equal(l.Quantity.Round(2)):
			verr.Add(fmt.Sprintf("items.%d.quantity", i), "la cantidad admite como máximo 2 decimales")
		case l.Quantity.GreaterThan(maxAmount):
			verr.Add(fmt.Sprintf("items.%d.quantity", i), "cantidad fuera de rango")
		}
		switch {
		case l.UnitPrice.IsNegative():
			verr.Add(fmt.Sprintf("items.%d.unit_price", i), "el precio unitario no puede ser negativo")
		case l.UnitPrice.Round(2).GreaterThan(maxAmount):
			verr.Add(fmt.Sprintf("items.%d.unit_price", i), "precio fuera de rango")
		}
	}
	switch {
	case taxPercent.IsNegative():
		verr.Add("tax_percent", "el impuesto no puede ser negativo")
	case taxPercent.Round(2).GreaterThan(maxTaxPercent):
		verr.Add("tax_percent", "el impuesto no puede superar 999.99")
	}
	if err := verr.OrNil(); err != nil {
		return Totals{}, err
	}

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Quantity.Mul(l.UnitPrice))
	}
	subtotal := sum.Round(2)
	tp := taxPercent.Round(2)
	taxAmount := subtotal.Mul(tp).Div(hundred).Round(2)
	total := subtotal.Add(taxAmount).Round(2)
	if total.GreaterThan(maxAmount) {
		return Totals{}, verr.Add("items", "el total de la factura está fuera de rango")
	}
	return Totals{
		Subtotal:   subtotal,
		TaxPercent: tp,
		TaxAmount:  taxAmount,
		Total:      total,
	}, nil
}

// LineTotal total persistido de una línea: round(q*p, 2) con el precio sin redondear.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

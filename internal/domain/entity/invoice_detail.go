package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea de una factura. Total = round(Quantity*UnitPrice, 2).
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice representa la cabecera de una factura.
// Number es único e inmutable una vez asignado; Seq es el consecutivo global usado para generarlo.
type Invoice struct {
	ID          string
	Seq         int64
	UserID      string
	CustomerID  string
	Number      string
	InvoiceDate time.Time
	DueDate     time.Time
	Status      string
	Subtotal    decimal.Decimal
	TaxPercent  decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Notes       string
	SentAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer // cargado bajo demanda
	Items    []InvoiceItem
}

// Clone devuelve una copia profunda (items y SentAt incluidos).
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	c := *i
	if i.SentAt != nil {
		t := *i.SentAt
		c.SentAt = &t
	}
	if i.Customer != nil {
		cust := *i.Customer
		c.Customer = &cust
	}
	c.Items = append([]InvoiceItem(nil), i.Items...)
	return &c
}

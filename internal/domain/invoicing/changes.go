package invoicing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// ChangeSet campo → nuevo valor.
type ChangeSet map[string]any

// Empty indica que no hubo cambios.
func (c ChangeSet) Empty() bool { return len(c) == 0 }

func (c ChangeSet) str(field, before, after string) {
	if before != after {
		c[field] = after
	}
}

func (c ChangeSet) dec(field string, before, after decimal.Decimal) {
	if !before.Equal(after) {
		c[field] = after.StringFixed(2)
	}
}

func (c ChangeSet) date(field string, before, after time.Time) {
	if !sameDay(before, after) {
		c[field] = after.Format(time.DateOnly)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DiffInvoice compara los campos escalares de la cabecera.
// Los decimales se comparan por valor (10 == 10.00).
func DiffInvoice(before, after *entity.Invoice) ChangeSet {
	c := ChangeSet{}
	c.str("customer_id", before.CustomerID, after.CustomerID)
	c.date("invoice_date", before.InvoiceDate, after.InvoiceDate)
	c.date("due_date", before.DueDate, after.DueDate)
	c.str("status", before.Status, after.Status)
	c.str("notes", before.Notes, after.Notes)
	c.dec("subtotal", before.Subtotal, after.Subtotal)
	c.dec("tax_percent", before.TaxPercent, after.TaxPercent)
	c.dec("tax_amount", before.TaxAmount, after.TaxAmount)
	c.dec("total", before.Total, after.Total)
	return c
}

// DiffItem compara los campos de una línea.
func DiffItem(before, after entity.InvoiceItem) ChangeSet {
	c := ChangeSet{}
	c.str("description", before.Description, after.Description)
	c.dec("quantity", before.Quantity, after.Quantity)
	c.dec("unit_price", before.UnitPrice, after.UnitPrice)
	c.dec("total", before.Total, after.Total)
	return c
}

// EditChanges resumen de una edición de factura, apto para auditoría.
type EditChanges struct {
	Invoice         ChangeSet
	ItemsUpdated    map[string]ChangeSet
	ItemsInserted   []string
	ItemsDeleted    []string
	CustomerCreated bool
}

// NewEditChanges combina el diff de cabecera, la conciliación de ítems y la creación de cliente.
func NewEditChanges(invoice ChangeSet, items ReconcileResult, customerCreated bool) EditChanges {
	ec := EditChanges{
		Invoice:         invoice,
		ItemsUpdated:    make(map[string]ChangeSet, len(items.Updated)),
		ItemsDeleted:    items.Deleted,
		CustomerCreated: customerCreated,
	}
	for _, u := range items.Updated {
		ec.ItemsUpdated[u.Item.ID] = u.Changes
	}
	for _, it := range items.Inserted {
		ec.ItemsInserted = append(ec.ItemsInserted, it.ID)
	}
	return ec
}

// HasChanges es falso solo si no cambió la cabecera, ni los ítems, ni se creó cliente.
func (e EditChanges) HasChanges() bool {
	return !e.Invoice.Empty() || len(e.ItemsUpdated) > 0 || len(e.ItemsInserted) > 0 ||
		len(e.ItemsDeleted) > 0 || e.CustomerCreated
}

// AsMap representación para la respuesta HTTP y la bitácora.
func (e EditChanges) AsMap() map[string]any {
	inserted := e.ItemsInserted
	if inserted == nil {
		inserted = []string{}
	}
	deleted := e.ItemsDeleted
	if deleted == nil {
		deleted = []string{}
	}
	inv := e.Invoice
	if inv == nil {
		inv = ChangeSet{}
	}
	return map[string]any{
		"invoice": inv,
		"items": map[string]any{
			"updated":  e.ItemsUpdated,
			"inserted": inserted,
			"deleted":  deleted,
		},
		"customer_created": e.CustomerCreated,
	}
}

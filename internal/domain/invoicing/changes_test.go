package invoicing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
)

func baseInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID: "inv-1", CustomerID: "c-1", Number: "INV20240501-0001",
		InvoiceDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Status:      entity.InvoiceStatusPending,
		Subtotal:    d("100.00"), TaxPercent: d("5.00"), TaxAmount: d("5.00"), Total: d("105.00"),
	}
}

func TestDiffInvoice_SinCambios(t *testing.T) {
	before := baseInvoice()
	after := before.Clone()
	after.Subtotal = d("100")
	after.InvoiceDate = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, invoicing.DiffInvoice(before, after).Empty())
}

func TestDiffInvoice_DetectaCampos(t *testing.T) {
	before := baseInvoice()
	after := before.Clone()
	after.Status = entity.InvoiceStatusOverdue
	after.Notes = "pagar pronto"
	after.DueDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	after.Total = d("106")

	cs := invoicing.DiffInvoice(before, after)
	assert.Equal(t, invoicing.ChangeSet{
		"status":   "overdue",
		"notes":    "pagar pronto",
		"due_date": "2024-06-15",
		"total":    "106.00",
	}, cs)
}

func TestEditChanges_HasChanges(t *testing.T) {
	empty := invoicing.NewEditChanges(invoicing.ChangeSet{}, invoicing.ReconcileResult{}, false)
	assert.False(t, empty.HasChanges())

	withCustomer := invoicing.NewEditChanges(invoicing.ChangeSet{}, invoicing.ReconcileResult{}, true)
	assert.True(t, withCustomer.HasChanges())

	m := withCustomer.AsMap()
	assert.Equal(t, true, m["customer_created"])
	items := m["items"].(map[string]any)
	assert.Equal(t, []string{}, items["inserted"])
}

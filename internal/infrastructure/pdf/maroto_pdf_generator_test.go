package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, &props.Color{Red: 17, Green: 34, Blue: 51}, parseHexColor("#112233"))
	assert.Equal(t, defaultPrimary, parseHexColor(""))
	assert.Equal(t, defaultPrimary, parseHexColor("#12"))
	assert.Equal(t, defaultPrimary, parseHexColor("#zzzzzz"))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a | c", joinNonEmpty(" | ", "a", " ", "c"))
	assert.Empty(t, joinNonEmpty(" | "))
}

func TestGenerateInvoicePDF(t *testing.T) {
	d := decimal.RequireFromString
	inv := &entity.Invoice{
		Number:      "INV20240501-0042",
		InvoiceDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		Status:      entity.InvoiceStatusPending,
		Subtotal:    d("29.99"),
		TaxPercent:  d("5"),
		TaxAmount:   d("1.50"),
		Total:       d("31.49"),
		Notes:       "Gracias",
		Customer:    &entity.Customer{Name: "Acme", Email: "a@acme.io"},
		Items: []entity.InvoiceItem{
			{Description: "Servicio", Quantity: d("3"), UnitPrice: d("9.995"), Total: d("29.99")},
		},
	}

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), billing.InvoiceDocument{
		Invoice: inv,
		Company: &entity.CompanySetting{CompanyName: "Beehive", PrimaryColor: "#112233", InvoiceFooter: "Pie", TIN: "C0001"},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_SinFactura(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), billing.InvoiceDocument{})
	assert.Error(t, err)
}

package invoicing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
)

func item(id, desc, q, p string) entity.InvoiceItem {
	return entity.InvoiceItem{
		ID: id, InvoiceID: "inv-1", Description: desc,
		Quantity: d(q), UnitPrice: d(p), Total: invoicing.LineTotal(d(q), d(p)),
	}
}

func TestReconcile_ActualizaInsertaYElimina(t *testing.T) {
	persisted := []entity.InvoiceItem{
		item("A", "Diseño", "1", "100"),
		item("B", "Hosting", "12", "5"),
		item("C", "Dominio", "1", "15"),
	}
	incoming := []invoicing.ItemInput{
		{ID: "A", Description: "Diseño web", Quantity: d("2"), UnitPrice: d("100")},
		{Description: "Soporte", Quantity: d("3"), UnitPrice: d("9.995")},
	}

	res := invoicing.Reconcile("inv-1", persisted, incoming)

	assert.True(t, res.Changed)
	assert.ElementsMatch(t, []string{"B", "C"}, res.Deleted)
	require.Len(t, res.Updated, 1)
	assert.Equal(t, "A", res.Updated[0].Item.ID)
	assert.Equal(t, "Diseño web", res.Updated[0].Changes["description"])
	assert.Equal(t, "2.00", res.Updated[0].Changes["quantity"])
	assert.Equal(t, "200.00", res.Updated[0].Changes["total"])
	assert.NotContains(t, res.Updated[0].Changes, "unit_price")

	require.Len(t, res.Inserted, 1)
	ins := res.Inserted[0]
	assert.NotEmpty(t, ins.ID)
	assert.Equal(t, "inv-1", ins.InvoiceID)
	assert.Equal(t, "10.00", ins.UnitPrice.StringFixed(2))
	assert.Equal(t, "29.99", ins.Total.StringFixed(2))

	require.Len(t, res.Items, 2)
	assert.Equal(t, "A", res.Items[0].ID)
	assert.Equal(t, ins.ID, res.Items[1].ID)
}

func TestReconcile_IDDesconocidoSeIgnora(t *testing.T) {
	persisted := []entity.InvoiceItem{item("A", "Diseño", "1", "100")}
	incoming := []invoicing.ItemInput{
		{ID: "A", Description: "Diseño", Quantity: d("1"), UnitPrice: d("100")},
		{ID: "Z", Description: "Fantasma", Quantity: d("1"), UnitPrice: d("1")},
	}

	res := invoicing.Reconcile("inv-1", persisted, incoming)

	assert.False(t, res.Changed)
	assert.Empty(t, res.Inserted)
	assert.Empty(t, res.Deleted)
	assert.Empty(t, res.Updated)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "A", res.Items[0].ID)
}

func TestReconcile_SinCambiosComparaPorValor(t *testing.T) {
	persisted := []entity.InvoiceItem{item("A", "Diseño", "2.00", "10.00")}
	incoming := []invoicing.ItemInput{{ID: "A", Description: "Diseño", Quantity: d("2"), UnitPrice: d("10")}}

	res := invoicing.Reconcile("inv-1", persisted, incoming)

	assert.False(t, res.Changed)
	assert.Len(t, res.Unchanged, 1)
}

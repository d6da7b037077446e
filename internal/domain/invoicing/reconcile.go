package invoicing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// ItemInput línea entrante en una edición. ID vacío = línea nueva.
type ItemInput struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ItemUpdate línea existente cuyos valores cambiaron.
type ItemUpdate struct {
	Item    entity.InvoiceItem
	Changes ChangeSet
}

// ReconcileResult conjuntos a persistir tras comparar los ítems guardados con los entrantes.
type ReconcileResult struct {
	Items     []entity.InvoiceItem // conjunto final, en el orden de entrada
	Updated   []ItemUpdate
	Inserted  []entity.InvoiceItem
	Deleted   []string
	Unchanged []entity.InvoiceItem
	Changed   bool
}

// NewItem construye una línea normalizada: precio a 2 decimales y total round(q*p, 2)
// calculado con el precio recibido.
func NewItem(invoiceID string, in ItemInput) entity.InvoiceItem {
	return entity.InvoiceItem{
		ID:          newID(),
		InvoiceID:   invoiceID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice.Round(2),
		Total:       LineTotal(in.Quantity, in.UnitPrice),
	}
}

// Reconcile compara los ítems persistidos con los entrantes:
//   - los persistidos que no se referencian se eliminan;
//   - los referenciados se actualizan campo a campo y solo cuentan como cambio si algún valor difiere;
//   - los entrantes sin ID se insertan;
//   - un ID que no coincide con ningún ítem persistido se ignora.
func Reconcile(invoiceID string, persisted []entity.InvoiceItem, incoming []ItemInput) ReconcileResult {
	byID := make(map[string]entity.InvoiceItem, len(persisted))
	for _, it := range persisted {
		byID[it.ID] = it
	}
	referenced := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		if in.ID != "" {
			referenced[in.ID] = true
		}
	}

	var res ReconcileResult
	for _, it := range persisted {
		if !referenced[it.ID] {
			res.Deleted = append(res.Deleted, it.ID)
		}
	}

	for _, in := range incoming {
		if in.ID == "" {
			item := NewItem(invoiceID, in)
			res.Inserted = append(res.Inserted, item)
			res.Items = append(res.Items, item)
			continue
		}
		current, ok := byID[in.ID]
		if !ok {
			continue
		}
		next := current
		next.Description = in.Description
		next.Quantity = in.Quantity
		next.UnitPrice = in.UnitPrice.Round(2)
		next.Total = LineTotal(in.Quantity, in.UnitPrice)
		if changes := DiffItem(current, next); !changes.Empty() {
			res.Updated = append(res.Updated, ItemUpdate{Item: next, Changes: changes})
		} else {
			res.Unchanged = append(res.Unchanged, current)
		}
		res.Items = append(res.Items, next)
	}

	res.Changed = len(res.Deleted) > 0 || len(res.Inserted) > 0 || len(res.Updated) > 0
	return res
}

func newID() string { return uuid.New().String() }

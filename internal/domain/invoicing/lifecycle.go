package invoicing

import (
	"fmt"
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// transitions flujo esperado de estados. Solo la anulación se valida de forma estricta;
// el resto de cambios se permiten y CanTransition sirve para registrar los atípicos.
var transitions = map[string][]string{
	entity.InvoiceStatusPending: {entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue, entity.InvoiceStatusSent, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusSent:    {entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusOverdue: {entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled},
}

// ValidStatus indica si s es un estado conocido.
func ValidStatus(s string) bool {
	switch s {
	case entity.InvoiceStatusPending, entity.InvoiceStatusSent, entity.InvoiceStatusPaid,
		entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanTransition indica si from → to pertenece al flujo esperado.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EditableStatus indica si s se puede fijar desde el formulario de la factura.
// sent y cancelled solo se alcanzan con Send y Void.
func EditableStatus(s string) bool {
	switch s {
	case entity.InvoiceStatusPending, entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue:
		return true
	}
	return false
}

// EditStatus resuelve el estado de una factura editada. Vacío o igual al actual conserva el
// estado; cualquier otro cambio debe ser editable y no puede reabrir una factura anulada.
func EditStatus(current, requested string) (string, error) {
	if requested == "" || requested == current {
		return current, nil
	}
	if !EditableStatus(requested) {
		return "", domain.NewValidationError().Add("status", "use las acciones de enviar o anular para este estado")
	}
	if current == entity.InvoiceStatusCancelled {
		return "", fmt.Errorf("%w: la factura está anulada", domain.ErrInvalidTransition)
	}
	return requested, nil
}

// Void anula la factura. Una factura pagada no se puede anular.
func Void(inv *entity.Invoice, now time.Time) error {
	if inv.Status == entity.InvoiceStatusPaid {
		return fmt.Errorf("%w: no se puede anular una factura pagada", domain.ErrInvalidTransition)
	}
	inv.Status = entity.InvoiceStatusCancelled
	inv.UpdatedAt = now
	return nil
}

// MarkPaid marca la factura como pagada.
func MarkPaid(inv *entity.Invoice, now time.Time) {
	inv.Status = entity.InvoiceStatusPaid
	inv.UpdatedAt = now
}

// MarkSent marca la factura como enviada y registra la fecha de envío.
func MarkSent(inv *entity.Invoice, now time.Time) {
	inv.Status = entity.InvoiceStatusSent
	t := now
	inv.SentAt = &t
	inv.UpdatedAt = now
}

// Duplicate copia la factura y sus ítems con nuevos IDs, número nuevo y estado pending.
func Duplicate(src *entity.Invoice, seq int64, number string, now time.Time) *entity.Invoice {
	dup := src.Clone()
	dup.ID = newID()
	dup.Seq = seq
	dup.Number = number
	dup.Status = entity.InvoiceStatusPending
	dup.SentAt = nil
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.Items = make([]entity.InvoiceItem, len(src.Items))
	for i, it := range src.Items {
		it.ID = newID()
		it.InvoiceID = dup.ID
		dup.Items[i] = it
	}
	return dup
}

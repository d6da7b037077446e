package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// InvoiceFilter criterios de listado. UserID vacío = todas las facturas (admin).
type InvoiceFilter struct {
	UserID string
	Search string // número, estado, fecha o nombre/email del cliente
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice e InvoiceItem.
// Los Get* devuelven (nil, nil) si la factura no existe.
type InvoiceRepository interface {
	// LastSequence toma el lock de numeración de la transacción y devuelve el mayor consecutivo (0 si no hay).
	LastSequence(ctx context.Context) (int64, error)
	// Create inserta la cabecera; un número repetido devuelve domain.ErrInvoiceNumberTaken.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update actualiza los campos escalares (el número no cambia nunca).
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete elimina los ítems y luego la factura.
	Delete(ctx context.Context, id string) error
	// GetByID y GetByNumber cargan la factura con cliente e ítems.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)
	// Recent últimas facturas (con cliente); userID vacío = de todos los usuarios.
	Recent(ctx context.Context, userID string, limit int) ([]*entity.Invoice, error)

	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	UpdateItem(ctx context.Context, item *entity.InvoiceItem) error
	DeleteItems(ctx context.Context, invoiceID string, ids []string) error
	ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error)
}

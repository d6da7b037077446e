package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// invoiceNumberLock clave del advisory lock que serializa la numeración de facturas.
const invoiceNumberLock int64 = 0x494e56 // "INV"

const invoiceColumns = `
	i.id, i.seq, i.user_id, i.customer_id, i.number, i.invoice_date, i.due_date, i.status,
	i.subtotal, i.tax_percent, i.tax_amount, i.total, i.notes, i.sent_at, i.created_at, i.updated_at,
	c.id, c.user_id, c.name, c.email, c.address, c.phone, c.created_at, c.updated_at`

const invoiceFrom = `
	FROM invoices i
	JOIN customers c ON c.id = i.customer_id`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// LastSequence toma pg_advisory_xact_lock y lee MAX(seq). Debe llamarse dentro de la
// transacción que inserta la factura: el lock se libera en su commit/rollback.
func (r *InvoiceRepo) LastSequence(ctx context.Context) (int64, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, invoiceNumberLock); err != nil {
		return 0, fmt.Errorf("lock invoice sequence: %w", err)
	}
	var last int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(seq), 0) FROM invoices`).Scan(&last); err != nil {
		return 0, fmt.Errorf("last invoice sequence: %w", err)
	}
	return last, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO invoices (id, seq, user_id, customer_id, number, invoice_date, due_date, status,
		                      subtotal, tax_percent, tax_amount, total, notes, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Seq, inv.UserID, inv.CustomerID, inv.Number, inv.InvoiceDate, inv.DueDate, inv.Status,
		inv.Subtotal, inv.TaxPercent, inv.TaxAmount, inv.Total, inv.Notes, inv.SentAt,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert invoice %s (%s): %w", inv.Number, constraintName(err), domain.ErrInvoiceNumberTaken)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza los campos escalares de la factura.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		UPDATE invoices
		SET customer_id  = $2,
		    invoice_date = $3,
		    due_date     = $4,
		    status       = $5,
		    subtotal     = $6,
		    tax_percent  = $7,
		    tax_amount   = $8,
		    total        = $9,
		    notes        = $10,
		    sent_at      = $11,
		    updated_at   = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.CustomerID, inv.InvoiceDate, inv.DueDate, inv.Status,
		inv.Subtotal, inv.TaxPercent, inv.TaxAmount, inv.Total, inv.Notes, inv.SentAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina los ítems y la factura.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura con cliente e ítems.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `WHERE i.id::TEXT = $1`, id)
}

// GetByNumber obtiene una factura por número con cliente e ítems.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.getOne(ctx, `WHERE i.number = $1`, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, where string, arg string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+invoiceFrom+` `+where, arg)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.ListItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// List lista facturas con búsqueda y paginación, más recientes primero. Devuelve también el total.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	limit, offset := page(f.Limit, f.Offset)
	query := `SELECT ` + invoiceColumns + `, COUNT(*) OVER() ` + invoiceFrom + `
		WHERE ($1 = '' OR i.user_id::TEXT = $1)
		  AND ($2 = '' OR i.number ILIKE $3 OR i.status ILIKE $3 OR i.invoice_date::TEXT ILIKE $3
		       OR c.name ILIKE $3 OR c.email ILIKE $3)
		ORDER BY i.created_at DESC, i.seq DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.UserID, f.Search, likePattern(f.Search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Invoice
		total int
	)
	for rows.Next() {
		inv, err := scanInvoice(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Recent últimas facturas con su cliente (sin ítems).
func (r *InvoiceRepo) Recent(ctx context.Context, userID string, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + invoiceFrom + `
		WHERE ($1 = '' OR i.user_id::TEXT = $1)
		ORDER BY i.created_at DESC, i.seq DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateItem persiste una línea.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// UpdateItem sobrescribe descripción, cantidad, precio y total de una línea.
func (r *InvoiceRepo) UpdateItem(ctx context.Context, item *entity.InvoiceItem) error {
	const query = `
		UPDATE invoice_items SET description = $3, quantity = $4, unit_price = $5, total = $6
		WHERE id = $1 AND invoice_id = $2`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("update invoice item: %w", err)
	}
	return nil
}

// DeleteItems elimina las líneas indicadas de la factura.
func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1 AND id::TEXT = ANY($2)`, invoiceID, ids)
	if err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// ListItems obtiene las líneas de una factura en orden de inserción.
func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	const query = `
		SELECT id, invoice_id, description, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// attachItems carga los ítems de varias facturas con una sola consulta.
func (r *InvoiceRepo) attachItems(ctx context.Context, list []*entity.Invoice) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	byID := make(map[string]*entity.Invoice, len(list))
	for i, inv := range list {
		ids[i] = inv.ID
		byID[inv.ID] = inv
	}
	const query = `
		SELECT id, invoice_id, description, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id::TEXT = ANY($1) ORDER BY position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return fmt.Errorf("scan invoice item: %w", err)
		}
		if inv := byID[it.InvoiceID]; inv != nil {
			inv.Items = append(inv.Items, it)
		}
	}
	return rows.Err()
}

// scanInvoice lee las columnas de invoiceColumns; extra recibe columnas adicionales al final.
func scanInvoice(row pgx.Row, extra ...any) (*entity.Invoice, error) {
	var (
		inv  entity.Invoice
		cust entity.Customer
	)
	dest := []any{
		&inv.ID, &inv.Seq, &inv.UserID, &inv.CustomerID, &inv.Number, &inv.InvoiceDate, &inv.DueDate, &inv.Status,
		&inv.Subtotal, &inv.TaxPercent, &inv.TaxAmount, &inv.Total, &inv.Notes, &inv.SentAt,
		&inv.CreatedAt, &inv.UpdatedAt,
		&cust.ID, &cust.UserID, &cust.Name, &cust.Email, &cust.Address, &cust.Phone,
		&cust.CreatedAt, &cust.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	inv.Customer = &cust
	return &inv, nil
}

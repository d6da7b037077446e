package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para estadísticas de facturación y el tablero de admin.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// InvoiceStats ingresos y conteos por estado, clientes y cliente principal.
// userID vacío agrega todo el sistema.
func (r *AnalyticsRepo) InvoiceStats(ctx context.Context, userID string, monthStart time.Time) (*repository.InvoiceStatsResult, error) {
	const totals = `
	SELECT
	    COALESCE(SUM(total), 0)                                        AS total_revenue,
	    COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0)         AS paid_revenue,
	    COALESCE(SUM(total) FILTER (WHERE status = 'pending'), 0)      AS pending_revenue,
	    COALESCE(SUM(total) FILTER (WHERE status = 'overdue'), 0)      AS overdue_revenue,
	    COUNT(*)                                                       AS total_invoices,
	    COUNT(*) FILTER (WHERE status = 'paid')                        AS paid_invoices,
	    COUNT(*) FILTER (WHERE status = 'pending')                     AS pending_invoices,
	    COUNT(*) FILTER (WHERE status = 'overdue')                     AS overdue_invoices
	FROM invoices
	WHERE ($1 = '' OR user_id::TEXT = $1)`

	var res repository.InvoiceStatsResult
	err := r.q.QueryRow(ctx, totals, userID).Scan(
		&res.TotalRevenue, &res.PaidRevenue, &res.PendingRevenue, &res.OverdueRevenue,
		&res.TotalInvoices, &res.PaidInvoices, &res.PendingInvoices, &res.OverdueInvoices,
	)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}

	const clients = `
	SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $2)
	FROM customers
	WHERE ($1 = '' OR user_id::TEXT = $1)`
	if err := r.q.QueryRow(ctx, clients, userID, monthStart).Scan(&res.TotalClients, &res.ClientsThisMonth); err != nil {
		return nil, fmt.Errorf("client stats: %w", err)
	}

	const top = `
	SELECT c.id, c.name, COUNT(i.id) AS invoices_count
	FROM customers c
	JOIN invoices i ON i.customer_id = c.id
	WHERE ($1 = '' OR c.user_id::TEXT = $1)
	GROUP BY c.id, c.name
	ORDER BY invoices_count DESC, c.name
	LIMIT 1`
	var tc repository.TopClientResult
	err = r.q.QueryRow(ctx, top, userID).Scan(&tc.ID, &tc.Name, &tc.InvoicesCount)
	switch {
	case err == nil:
		res.TopClient = &tc
	case !isNoRows(err):
		return nil, fmt.Errorf("top client: %w", err)
	}
	return &res, nil
}

// TopCustomers clientes ordenados por total facturado.
func (r *AnalyticsRepo) TopCustomers(ctx context.Context, limit int) ([]repository.CustomerSpendResult, error) {
	const query = `
	SELECT c.id, c.name, c.email, COALESCE(SUM(i.total), 0) AS total_spent, COUNT(i.id) AS invoices
	FROM customers c
	LEFT JOIN invoices i ON i.customer_id = c.id
	GROUP BY c.id, c.name, c.email
	ORDER BY total_spent DESC, invoices DESC
	LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()
	var list []repository.CustomerSpendResult
	for rows.Next() {
		var c repository.CustomerSpendResult
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.TotalSpent, &c.Invoices); err != nil {
			return nil, fmt.Errorf("scan top customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// PendingDueBetween facturas pending que vencen en [from, to].
func (r *AnalyticsRepo) PendingDueBetween(ctx context.Context, from, to time.Time, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + invoiceFrom + `
	WHERE i.status = 'pending' AND i.due_date BETWEEN $1 AND $2
	ORDER BY i.due_date ASC
	LIMIT $3`
	return r.invoices(ctx, query, from, to, limit)
}

// PendingPastDue facturas pending con vencimiento anterior a before.
func (r *AnalyticsRepo) PendingPastDue(ctx context.Context, before time.Time, limit int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + invoiceFrom + `
	WHERE i.status = 'pending' AND i.due_date < $1
	ORDER BY i.due_date ASC
	LIMIT $2`
	return r.invoices(ctx, query, before, limit)
}

func (r *AnalyticsRepo) invoices(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
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

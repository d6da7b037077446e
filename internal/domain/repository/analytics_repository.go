package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// InvoiceStatsResult resultado crudo de las métricas de facturación.
// Lo produce la DB; el use case lo convierte en DTO.
type InvoiceStatsResult struct {
	TotalRevenue     decimal.Decimal
	PaidRevenue      decimal.Decimal
	PendingRevenue   decimal.Decimal
	OverdueRevenue   decimal.Decimal
	TotalInvoices    int
	PaidInvoices     int
	PendingInvoices  int
	OverdueInvoices  int
	TotalClients     int
	ClientsThisMonth int
	TopClient        *TopClientResult
}

// TopClientResult cliente con más facturas.
type TopClientResult struct {
	ID            string
	Name          string
	InvoicesCount int
}

// CustomerSpendResult total facturado a un cliente.
type CustomerSpendResult struct {
	ID         string
	Name       string
	Email      string
	TotalSpent decimal.Decimal
	Invoices   int
}

// AnalyticsRepository consultas de solo lectura para estadísticas y tablero.
type AnalyticsRepository interface {
	// InvoiceStats métricas de un usuario; userID vacío = todo el sistema.
	// monthStart delimita "clientes de este mes".
	InvoiceStats(ctx context.Context, userID string, monthStart time.Time) (*InvoiceStatsResult, error)

	// TopCustomers los `limit` clientes con mayor total facturado.
	TopCustomers(ctx context.Context, limit int) ([]CustomerSpendResult, error)

	// PendingDueBetween facturas pending con vencimiento en [from, to], las más próximas primero.
	PendingDueBetween(ctx context.Context, from, to time.Time, limit int) ([]*entity.Invoice, error)

	// PendingPastDue facturas pending vencidas antes de `before`, las más antiguas primero.
	PendingPastDue(ctx context.Context, before time.Time, limit int) ([]*entity.Invoice, error)
}

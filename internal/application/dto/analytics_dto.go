package dto

import "github.com/shopspring/decimal"

// InvoiceStatsResponse respuesta de GET /api/invoices/stats y GET /api/admin/stats.
type InvoiceStatsResponse struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	PaidRevenue      decimal.Decimal `json:"paid_revenue"`
	PendingRevenue   decimal.Decimal `json:"pending_revenue"`
	OverdueRevenue   decimal.Decimal `json:"overdue_revenue"`
	TotalInvoices    int             `json:"total_invoices"`
	PaidInvoices     int             `json:"paid_invoices"`
	PendingInvoices  int             `json:"pending_invoices"`
	OverdueInvoices  int             `json:"overdue_invoices"`
	TotalClients     int             `json:"total_clients"`
	ClientsThisMonth int             `json:"clients_this_month"`
	TopClient        *TopClientDTO   `json:"top_client"`
	CurrencySymbol   string          `json:"currency_symbol"`
}

// TopClientDTO cliente con más facturas.
type TopClientDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	InvoicesCount int    `json:"invoices_count"`
}

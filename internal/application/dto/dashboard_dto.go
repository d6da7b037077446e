package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/admin/dashboard-summary.
type DashboardSummaryDTO struct {
	TopCustomers    []TopCustomerDTO      `json:"top_customers"`
	DueSoonInvoices []DashboardInvoiceDTO `json:"due_soon_invoices"`
	OverdueInvoices []DashboardInvoiceDTO `json:"overdue_invoices"`
}

// TopCustomerDTO cliente por total facturado.
type TopCustomerDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Invoices int             `json:"invoices"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardInvoiceDTO factura resumida para los widgets del tablero.
type DashboardInvoiceDTO struct {
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	DueDate       string          `json:"due_date"`
	Total         decimal.Decimal `json:"total"`
}

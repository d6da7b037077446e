package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewCustomerRequest cliente creado junto con la factura cuando no se envía customer_id.
type NewCustomerRequest struct {
	Name    string `json:"name" validate:"omitempty,max=255"`
	Email   string `json:"email" validate:"omitempty,email,max=255"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Address string `json:"address" validate:"required,max=500"`
	Phone   string `json:"phone" validate:"required,max=50"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:number.
// Con customer_id se usa un cliente existente; sin él, new_customer es obligatorio.
type InvoiceRequest struct {
	CustomerID  string               `json:"customer_id" validate:"omitempty,uuid"`
	NewCustomer *NewCustomerRequest  `json:"new_customer,omitempty"`
	InvoiceDate string               `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	DueDate     string               `json:"due_date" validate:"required,datetime=2006-01-02"`
	// Status vacío conserva el estado actual (pending al crear). sent y cancelled solo se
	// aceptan si coinciden con el estado actual.
	Status      string               `json:"status" validate:"omitempty,oneof=pending paid overdue sent cancelled"`
	TaxPercent  decimal.Decimal      `json:"tax_percent"`
	Notes       string               `json:"notes" validate:"max=2000"`
	Items       []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest línea de factura. ID solo al editar una línea existente.
type InvoiceItemRequest struct {
	ID          string          `json:"id,omitempty" validate:"omitempty,uuid"`
	Description string          `json:"description" validate:"required,max=255"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceResponse factura con cliente e ítems.
type InvoiceResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"invoice_number"`
	UserID      string                `json:"user_id"`
	CustomerID  string                `json:"customer_id"`
	Customer    *CustomerResponse     `json:"customer,omitempty"`
	InvoiceDate string                `json:"invoice_date"`
	DueDate     string                `json:"due_date"`
	Status      string                `json:"status"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	TaxPercent  decimal.Decimal       `json:"tax_percent"`
	TaxAmount   decimal.Decimal       `json:"tax_amount"`
	Total       decimal.Decimal       `json:"total"`
	Notes       string                `json:"notes"`
	SentAt      *time.Time            `json:"sent_at"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Items       []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceCreatedResponse respuesta de POST /api/invoices.
type InvoiceCreatedResponse struct {
	Message       string          `json:"message"`
	InvoiceNumber string          `json:"invoice_number"`
	Invoice       InvoiceResponse `json:"invoice"`
}

// InvoiceUpdatedResponse respuesta de PUT /api/invoices/:number.
// Changes se omite cuando la edición no cambió nada.
type InvoiceUpdatedResponse struct {
	Message string          `json:"message"`
	Invoice InvoiceResponse `json:"invoice"`
	Changes map[string]any  `json:"changes,omitempty"`
}

// InvoiceActionResponse respuesta de send, mark-paid, void y duplicate.
type InvoiceActionResponse struct {
	Message string          `json:"message"`
	Invoice InvoiceResponse `json:"invoice"`
}

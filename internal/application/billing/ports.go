package billing

import (
	"context"
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con los repos de facturación.
// Si fn devuelve error la transacción se revierte.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		logRepo repository.ActivityLogRepository,
	) error) error
}

// CompanySettingsReader lectura de la configuración de empresa (repo o caché).
type CompanySettingsReader interface {
	GetByUserID(ctx context.Context, userID string) (*entity.CompanySetting, error)
}

// InvoiceDocument datos que necesita el renderizador de PDF.
type InvoiceDocument struct {
	Invoice        *entity.Invoice
	Company        *entity.CompanySetting
	CurrencySymbol string
}

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceMail correo de envío de una factura, con el PDF adjunto.
type InvoiceMail struct {
	To             string
	Invoice        *entity.Invoice
	Company        *entity.CompanySetting
	CurrencySymbol string
	DownloadURL    string
	PDF            []byte
	PDFName        string
}

// InvoiceMailer envía la factura al cliente.
type InvoiceMailer interface {
	SendInvoice(ctx context.Context, mail InvoiceMail) error
}

// InvoiceMetrics contadores de negocio (created, updated, sent, paid, voided, duplicated, deleted).
type InvoiceMetrics interface {
	InvoiceEvent(action string)
}

type noopMetrics struct{}

func (noopMetrics) InvoiceEvent(string) {}

// Actor usuario que ejecuta la operación. Admin solo se activa en las rutas /api/admin.
type Actor struct {
	UserID    string
	Admin     bool
	IP        string
	UserAgent string
}

// Owns indica si el actor puede operar sobre un recurso del usuario ownerID.
func (a Actor) Owns(ownerID string) bool {
	return a.Admin || a.UserID == ownerID
}

// Scope devuelve el filtro de usuario para listados: vacío = todos (admin).
func (a Actor) Scope() string {
	if a.Admin {
		return ""
	}
	return a.UserID
}

// Activity construye el registro de bitácora de una mutación hecha por el actor.
func (a Actor) Activity(action, model, modelID string, changes map[string]any, now time.Time) *entity.ActivityLog {
	if changes == nil {
		changes = map[string]any{}
	}
	return &entity.ActivityLog{
		ActorID:   a.UserID,
		Action:    action,
		Model:     model,
		ModelID:   modelID,
		Changes:   changes,
		IPAddress: a.IP,
		UserAgent: a.UserAgent,
		CreatedAt: now,
	}
}

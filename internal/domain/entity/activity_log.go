package entity

import "time"

// Acciones registradas en la bitácora.
const (
	ActionCreated    = "created"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionSent       = "sent"
	ActionPaid       = "paid"
	ActionVoided     = "voided"
	ActionDuplicated = "duplicated"
)

// Modelos auditados.
const (
	ModelInvoice        = "invoice"
	ModelCustomer       = "customer"
	ModelUser           = "user"
	ModelCompanySetting = "company_setting"
)

// ActivityLog registro de auditoría de una mutación.
type ActivityLog struct {
	ID        string
	ActorID   string
	Action    string
	Model     string
	ModelID   string
	Changes   map[string]any
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

package dto

import "time"

// CompanySettingsRequest campos de POST /api/company-settings (multipart; el logo va aparte).
type CompanySettingsRequest struct {
	CompanyName    string `json:"company_name" form:"company_name" validate:"required,max=255"`
	CompanyEmail   string `json:"company_email" form:"company_email" validate:"omitempty,email,max=255"`
	CompanyPhone   string `json:"company_phone" form:"company_phone" validate:"omitempty,max=50"`
	CompanyAddress string `json:"company_address" form:"company_address" validate:"omitempty,max=500"`
	InvoicePrefix  string `json:"invoice_prefix" form:"invoice_prefix" validate:"omitempty,alphanum,max=10"`
	InvoiceFooter  string `json:"invoice_footer" form:"invoice_footer" validate:"omitempty,max=1000"`
	TIN            string `json:"tin" form:"tin" validate:"omitempty,max=50"`
	Currency       string `json:"currency" form:"currency" validate:"omitempty,len=3,alpha"`
	CurrencySymbol string `json:"currency_symbol" form:"currency_symbol" validate:"omitempty,max=5"`
}

// WhiteLabelRequest body de PUT /api/admin/company-settings/white-label.
type WhiteLabelRequest struct {
	UserID         string `json:"user_id" validate:"omitempty,uuid"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
	CustomCSS      string `json:"custom_css" validate:"omitempty,max=10000"`
}

// Upload archivo recibido por multipart, ya leído en memoria.
type Upload struct {
	Filename string
	Content  []byte
}

// CompanySettingsResponse configuración de empresa (valores por defecto si aún no se guardó).
type CompanySettingsResponse struct {
	CompanyName    string     `json:"company_name"`
	CompanyEmail   string     `json:"company_email"`
	CompanyPhone   string     `json:"company_phone"`
	CompanyAddress string     `json:"company_address"`
	Logo           string     `json:"logo"`
	LogoURL        string     `json:"logo_url,omitempty"`
	PrimaryColor   string     `json:"primary_color"`
	SecondaryColor string     `json:"secondary_color"`
	CustomCSS      string     `json:"custom_css"`
	InvoicePrefix  string     `json:"invoice_prefix"`
	InvoiceFooter  string     `json:"invoice_footer"`
	TIN            string     `json:"tin"`
	Currency       string     `json:"currency"`
	CurrencySymbol string     `json:"currency_symbol"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

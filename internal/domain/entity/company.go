package entity

import "time"

// Valores por defecto de la configuración de empresa.
const (
	DefaultInvoicePrefix  = "INV"
	DefaultCurrency       = "GHS"
	DefaultCurrencySymbol = "₵"
	DefaultPrimaryColor   = "#0d6efd"
	DefaultSecondaryColor = "#6c757d"
	DefaultCompanyName    = "My Company"
)

// CompanySetting configuración de marca y facturación de un usuario (una fila por usuario).
// Se crea en la primera escritura.
type CompanySetting struct {
	ID             string
	UserID         string
	CompanyName    string
	CompanyEmail   string
	CompanyPhone   string
	CompanyAddress string
	Logo           string // clave en el almacenamiento de archivos
	PrimaryColor   string
	SecondaryColor string
	CustomCSS      string
	InvoicePrefix  string
	InvoiceFooter  string
	TIN            string
	Currency       string
	CurrencySymbol string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DefaultCompanySetting devuelve la configuración usada cuando el usuario aún no ha guardado la suya.
func DefaultCompanySetting(userID string) *CompanySetting {
	return &CompanySetting{
		UserID:         userID,
		CompanyName:    DefaultCompanyName,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		InvoicePrefix:  DefaultInvoicePrefix,
		Currency:       DefaultCurrency,
		CurrencySymbol: DefaultCurrencySymbol,
	}
}

// Prefix devuelve el prefijo de factura o el valor por defecto.
func (s *CompanySetting) Prefix() string {
	if s == nil || s.InvoicePrefix == "" {
		return DefaultInvoicePrefix
	}
	return s.InvoicePrefix
}

// Symbol devuelve el símbolo de moneda o el valor por defecto.
func (s *CompanySetting) Symbol() string {
	if s == nil || s.CurrencySymbol == "" {
		return DefaultCurrencySymbol
	}
	return s.CurrencySymbol
}

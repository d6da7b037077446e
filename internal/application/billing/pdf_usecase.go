package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura con la marca del dueño de la factura.
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	settings  CompanySettingsReader
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	settings CompanySettingsReader,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, settings: settings, generator: generator}
}

// PDFFilename nombre del adjunto/descarga de una factura.
func PDFFilename(number string) string {
	return fmt.Sprintf("invoice-%s.pdf", number)
}

// Download devuelve (pdfBytes, filename). domain.ErrNotFound si la factura no existe o no es del actor.
func (uc *PDFUseCase) Download(ctx context.Context, actor Actor, number string) ([]byte, string, error) {
	inv, err := uc.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil || !actor.Owns(inv.UserID) {
		return nil, "", notFound("factura", number)
	}
	pdf, _, err := uc.Render(ctx, inv)
	if err != nil {
		return nil, "", err
	}
	return pdf, PDFFilename(inv.Number), nil
}

// Render genera el PDF y devuelve también la configuración de empresa usada.
func (uc *PDFUseCase) Render(ctx context.Context, inv *entity.Invoice) ([]byte, *entity.CompanySetting, error) {
	company, err := companyFor(ctx, uc.settings, inv.UserID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Invoice:        inv,
		Company:        company,
		CurrencySymbol: company.Symbol(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdf, company, nil
}

// companyFor devuelve la configuración del usuario o los valores por defecto.
func companyFor(ctx context.Context, settings CompanySettingsReader, userID string) (*entity.CompanySetting, error) {
	s, err := settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener configuración de empresa: %w", err)
	}
	if s == nil {
		s = entity.DefaultCompanySetting(userID)
	}
	return s, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// Asegura que CompanySettingRepo implementa repository.CompanySettingRepository.
var _ repository.CompanySettingRepository = (*CompanySettingRepo)(nil)

// CompanySettingRepo implementación del puerto CompanySettingRepository sobre PostgreSQL.
type CompanySettingRepo struct {
	q Querier
}

// NewCompanySettingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanySettingRepository(q Querier) *CompanySettingRepo {
	return &CompanySettingRepo{q: q}
}

// GetByUserID obtiene la configuración del usuario; (nil, nil) si aún no existe.
func (r *CompanySettingRepo) GetByUserID(ctx context.Context, userID string) (*entity.CompanySetting, error) {
	const query = `
		SELECT id, user_id, company_name, company_email, company_phone, company_address, logo,
		       primary_color, secondary_color, custom_css, invoice_prefix, invoice_footer, tin,
		       currency, currency_symbol, created_at, updated_at
		FROM company_settings WHERE user_id::TEXT = $1`
	var s entity.CompanySetting
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.CompanyName, &s.CompanyEmail, &s.CompanyPhone, &s.CompanyAddress, &s.Logo,
		&s.PrimaryColor, &s.SecondaryColor, &s.CustomCSS, &s.InvoicePrefix, &s.InvoiceFooter, &s.TIN,
		&s.Currency, &s.CurrencySymbol, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company settings: %w", err)
	}
	return &s, nil
}

// Upsert crea la fila del usuario o la actualiza (ON CONFLICT user_id).
func (r *CompanySettingRepo) Upsert(ctx context.Context, s *entity.CompanySetting) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO company_settings (id, user_id, company_name, company_email, company_phone, company_address,
		                              logo, primary_color, secondary_color, custom_css, invoice_prefix,
		                              invoice_footer, tin, currency, currency_symbol, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (user_id) DO UPDATE SET
		    company_name    = EXCLUDED.company_name,
		    company_email   = EXCLUDED.company_email,
		    company_phone   = EXCLUDED.company_phone,
		    company_address = EXCLUDED.company_address,
		    logo            = EXCLUDED.logo,
		    primary_color   = EXCLUDED.primary_color,
		    secondary_color = EXCLUDED.secondary_color,
		    custom_css      = EXCLUDED.custom_css,
		    invoice_prefix  = EXCLUDED.invoice_prefix,
		    invoice_footer  = EXCLUDED.invoice_footer,
		    tin             = EXCLUDED.tin,
		    currency        = EXCLUDED.currency,
		    currency_symbol = EXCLUDED.currency_symbol,
		    updated_at      = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		s.ID, s.UserID, s.CompanyName, s.CompanyEmail, s.CompanyPhone, s.CompanyAddress,
		s.Logo, s.PrimaryColor, s.SecondaryColor, s.CustomCSS, s.InvoicePrefix,
		s.InvoiceFooter, s.TIN, s.Currency, s.CurrencySymbol, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert company settings: %w", err)
	}
	return nil
}

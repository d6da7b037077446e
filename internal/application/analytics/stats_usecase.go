package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// StatsUseCase métricas de facturación del usuario (o de todo el sistema para admin).
type StatsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	settings      billing.CompanySettingsReader
	now           func() time.Time
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(analyticsRepo repository.AnalyticsRepository, settings billing.CompanySettingsReader) *StatsUseCase {
	return &StatsUseCase{analyticsRepo: analyticsRepo, settings: settings, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *StatsUseCase) WithClock(now func() time.Time) *StatsUseCase {
	uc.now = now
	return uc
}

// Get devuelve ingresos por estado, conteos, clientes y el cliente con más facturas.
// El símbolo de moneda sale de la configuración del actor.
func (uc *StatsUseCase) Get(ctx context.Context, actor billing.Actor) (*dto.InvoiceStatsResponse, error) {
	now := uc.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	res, err := uc.analyticsRepo.InvoiceStats(ctx, actor.Scope(), monthStart)
	if err != nil {
		return nil, err
	}
	company, err := uc.settings.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	out := &dto.InvoiceStatsResponse{
		TotalRevenue:     res.TotalRevenue,
		PaidRevenue:      res.PaidRevenue,
		PendingRevenue:   res.PendingRevenue,
		OverdueRevenue:   res.OverdueRevenue,
		TotalInvoices:    res.TotalInvoices,
		PaidInvoices:     res.PaidInvoices,
		PendingInvoices:  res.PendingInvoices,
		OverdueInvoices:  res.OverdueInvoices,
		TotalClients:     res.TotalClients,
		ClientsThisMonth: res.ClientsThisMonth,
		CurrencySymbol:   company.Symbol(),
	}
	if res.TopClient != nil {
		out.TopClient = &dto.TopClientDTO{
			ID:            res.TopClient.ID,
			Name:          res.TopClient.Name,
			InvoicesCount: res.TopClient.InvoicesCount,
		}
	}
	return out, nil
}

// Package analytics contiene los casos de uso de estadísticas de facturación y
// el tablero de administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

const (
	dashboardLimit = 5 // filas por widget del tablero
	dueSoonDays    = 7
)

// DashboardUseCase genera el resumen del tablero de administración.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres consultas en paralelo:
//  1. TopCustomers(5)                  → clientes por total facturado
//  2. PendingDueBetween(hoy, hoy+7, 5) → pendientes que vencen pronto
//  3. PendingPastDue(hoy, 5)           → pendientes vencidas
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueLimit := today.AddDate(0, 0, dueSoonDays)

	type customersResult struct {
		rows []repository.CustomerSpendResult
		err  error
	}
	type invoicesResult struct {
		rows []*entity.Invoice
		err  error
	}

	topCh := make(chan customersResult, 1)
	soonCh := make(chan invoicesResult, 1)
	pastCh := make(chan invoicesResult, 1)

	go func() {
		rows, err := uc.analyticsRepo.TopCustomers(ctx, dashboardLimit)
		topCh <- customersResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.PendingDueBetween(ctx, today, dueLimit, dashboardLimit)
		soonCh <- invoicesResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.PendingPastDue(ctx, today, dashboardLimit)
		pastCh <- invoicesResult{rows, err}
	}()

	top := <-topCh
	soon := <-soonCh
	past := <-pastCh

	if top.err != nil {
		return nil, fmt.Errorf("dashboard top customers: %w", top.err)
	}
	if soon.err != nil {
		return nil, fmt.Errorf("dashboard due soon: %w", soon.err)
	}
	if past.err != nil {
		return nil, fmt.Errorf("dashboard past due: %w", past.err)
	}

	out := &dto.DashboardSummaryDTO{
		TopCustomers:    make([]dto.TopCustomerDTO, 0, len(top.rows)),
		DueSoonInvoices: toDashboardInvoices(soon.rows),
		OverdueInvoices: toDashboardInvoices(past.rows),
	}
	for _, c := range top.rows {
		out.TopCustomers = append(out.TopCustomers, dto.TopCustomerDTO{
			ID:       c.ID,
			Name:     c.Name,
			Email:    c.Email,
			Invoices: c.Invoices,
			Total:    c.TotalSpent,
		})
	}
	return out, nil
}

func toDashboardInvoices(list []*entity.Invoice) []dto.DashboardInvoiceDTO {
	out := make([]dto.DashboardInvoiceDTO, 0, len(list))
	for _, inv := range list {
		row := dto.DashboardInvoiceDTO{
			InvoiceNumber: inv.Number,
			DueDate:       inv.DueDate.Format("2006-01-02"),
			Total:         inv.Total,
		}
		if inv.Customer != nil {
			row.CustomerName = inv.Customer.Name
		}
		out = append(out, row)
	}
	return out
}

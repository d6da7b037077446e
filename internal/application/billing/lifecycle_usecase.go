package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// Mensajes de las acciones de ciclo de vida.
const (
	MsgInvoicePaid       = "Invoice marked as paid"
	MsgInvoiceVoided     = "Invoice voided successfully"
	MsgInvoiceDuplicated = "Invoice duplicated successfully"
)

// LifecycleUseCase acciones de estado sobre una factura: enviar, marcar pagada, anular y duplicar.
type LifecycleUseCase struct {
	tx          InvoiceTxRunner
	invoices    repository.InvoiceRepository
	settings    CompanySettingsReader
	pdf         *PDFUseCase
	mailer      InvoiceMailer
	frontendURL string
	metrics     InvoiceMetrics
	log         zerolog.Logger
	now         func() time.Time
}

// NewLifecycleUseCase construye el caso de uso. frontendURL es la base del enlace de descarga.
func NewLifecycleUseCase(
	tx InvoiceTxRunner,
	invoices repository.InvoiceRepository,
	settings CompanySettingsReader,
	pdf *PDFUseCase,
	mailer InvoiceMailer,
	frontendURL string,
	metrics InvoiceMetrics,
	log zerolog.Logger,
) *LifecycleUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &LifecycleUseCase{
		tx:          tx,
		invoices:    invoices,
		settings:    settings,
		pdf:         pdf,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		metrics:     metrics,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LifecycleUseCase) WithClock(now func() time.Time) *LifecycleUseCase {
	uc.now = now
	return uc
}

// DownloadURL enlace del frontend a la factura.
func (uc *LifecycleUseCase) DownloadURL(number string) string {
	return uc.frontendURL + "/user/dashboard/invoice/" + number
}

// Send envía la factura por correo al cliente con el PDF adjunto y la marca como enviada.
// Si el correo falla la factura no cambia.
func (uc *LifecycleUseCase) Send(ctx context.Context, actor Actor, number string) (*dto.InvoiceActionResponse, error) {
	inv, err := uc.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if inv == nil || !actor.Owns(inv.UserID) {
		return nil, notFound("factura", number)
	}
	if inv.Customer == nil || strings.TrimSpace(inv.Customer.Email) == "" {
		return nil, domain.NewValidationError().Add("customer.email", "el cliente no tiene email registrado")
	}

	pdf, company, err := uc.pdf.Render(ctx, inv)
	if err != nil {
		return nil, err
	}
	err = uc.mailer.SendInvoice(ctx, InvoiceMail{
		To:             inv.Customer.Email,
		Invoice:        inv,
		Company:        company,
		CurrencySymbol: company.Symbol(),
		DownloadURL:    uc.DownloadURL(inv.Number),
		PDF:            pdf,
		PDFName:        PDFFilename(inv.Number),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_number", number).Msg("envío de factura fallido")
		return nil, fmt.Errorf("enviar factura %s: %w", number, err)
	}

	updated, err := uc.transition(ctx, actor, number, entity.ActionSent, func(inv *entity.Invoice, now time.Time) error {
		invoicing.MarkSent(inv, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceActionResponse{
		Message: "Invoice sent successfully to " + inv.Customer.Email,
		Invoice: ToInvoiceResponse(updated),
	}, nil
}

// MarkPaid marca la factura como pagada.
func (uc *LifecycleUseCase) MarkPaid(ctx context.Context, actor Actor, number string) (*dto.InvoiceActionResponse, error) {
	inv, err := uc.transition(ctx, actor, number, entity.ActionPaid, func(inv *entity.Invoice, now time.Time) error {
		invoicing.MarkPaid(inv, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceActionResponse{Message: MsgInvoicePaid, Invoice: ToInvoiceResponse(inv)}, nil
}

// Void anula la factura; falla con domain.ErrInvalidTransition si está pagada.
func (uc *LifecycleUseCase) Void(ctx context.Context, actor Actor, number string) (*dto.InvoiceActionResponse, error) {
	inv, err := uc.transition(ctx, actor, number, entity.ActionVoided, invoicing.Void)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceActionResponse{Message: MsgInvoiceVoided, Invoice: ToInvoiceResponse(inv)}, nil
}

// transition carga la factura en una transacción, aplica apply, persiste y registra la bitácora.
func (uc *LifecycleUseCase) transition(
	ctx context.Context,
	actor Actor,
	number, action string,
	apply func(inv *entity.Invoice, now time.Time) error,
) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := uc.tx.RunInvoice(ctx, func(
		_ repository.CustomerRepository,
		invoices repository.InvoiceRepository,
		logs repository.ActivityLogRepository,
	) error {
		inv, err := invoices.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if inv == nil || !actor.Owns(inv.UserID) {
			return notFound("factura", number)
		}
		from := inv.Status
		now := uc.now()
		if err := apply(inv, now); err != nil {
			return err
		}
		if from != inv.Status && !invoicing.CanTransition(from, inv.Status) {
			uc.log.Warn().Str("invoice_number", number).Str("from", from).Str("to", inv.Status).
				Msg("cambio de estado fuera del flujo habitual")
		}
		if err := invoices.Update(ctx, inv); err != nil {
			return err
		}
		changes := map[string]any{"status": inv.Status}
		if inv.SentAt != nil && action == entity.ActionSent {
			changes["sent_at"] = inv.SentAt.Format(time.RFC3339)
		}
		out = inv
		return logs.Create(ctx, actor.Activity(action, entity.ModelInvoice, inv.ID, changes, now))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.InvoiceEvent(action)
	uc.log.Info().Str("invoice_number", number).Str("action", action).Msg("estado de factura actualizado")
	return out, nil
}

// Duplicate copia la factura y sus ítems con un número nuevo y estado pending.
func (uc *LifecycleUseCase) Duplicate(ctx context.Context, actor Actor, number string) (*dto.InvoiceActionResponse, error) {
	company, err := companyFor(ctx, uc.settings, actor.UserID)
	if err != nil {
		return nil, err
	}

	var dup *entity.Invoice
	err = uc.tx.RunInvoice(ctx, func(
		_ repository.CustomerRepository,
		invoices repository.InvoiceRepository,
		logs repository.ActivityLogRepository,
	) error {
		src, err := invoices.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if src == nil || !actor.Owns(src.UserID) {
			return notFound("factura", number)
		}
		last, err := invoices.LastSequence(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		seq := invoicing.NextSequence(last)
		dup = invoicing.Duplicate(src, seq, invoicing.FormatNumber(company.Prefix(), now, seq), now)
		if err := invoices.Create(ctx, dup); err != nil {
			return err
		}
		for i := range dup.Items {
			if err := invoices.CreateItem(ctx, &dup.Items[i]); err != nil {
				return err
			}
		}
		changes := map[string]any{"source": src.Number, "invoice_number": dup.Number}
		return logs.Create(ctx, actor.Activity(entity.ActionDuplicated, entity.ModelInvoice, dup.ID, changes, now))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.InvoiceEvent(entity.ActionDuplicated)
	return &dto.InvoiceActionResponse{Message: MsgInvoiceDuplicated, Invoice: ToInvoiceResponse(dup)}, nil
}

func notFound(what, key string) error {
	return fmt.Errorf("%s %s: %w", what, key, domain.ErrNotFound)
}

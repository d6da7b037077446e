package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// Mensajes de respuesta de las operaciones de facturas.
const (
	MsgInvoiceCreated = "Invoice created successfully"
	MsgInvoiceUpdated = "Invoice updated successfully"
	MsgNoChanges      = "No changes were made"
	MsgInvoiceDeleted = "Invoice deleted successfully"
)

const (
	recentUserLimit  = 3
	recentAdminLimit = 5
)

// errNoChanges aborta la transacción de una edición que no modificó nada.
var errNoChanges = errors.New("sin cambios")

// InvoiceUseCase alta, edición, consulta y borrado de facturas.
type InvoiceUseCase struct {
	tx       InvoiceTxRunner
	invoices repository.InvoiceRepository
	settings CompanySettingsReader
	resolver *CustomerResolver
	metrics  InvoiceMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. metrics puede ser nil.
func NewInvoiceUseCase(
	tx InvoiceTxRunner,
	invoices repository.InvoiceRepository,
	settings CompanySettingsReader,
	metrics InvoiceMetrics,
	log zerolog.Logger,
) *InvoiceUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	uc := &InvoiceUseCase{
		tx:       tx,
		invoices: invoices,
		settings: settings,
		metrics:  metrics,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	uc.resolver = NewCustomerResolver(func() time.Time { return uc.now() })
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// invoiceInput petición ya validada.
type invoiceInput struct {
	customer    invoicing.CustomerRef
	invoiceDate time.Time
	dueDate     time.Time
	status      string
	notes       string
	totals      invoicing.Totals
	items       []invoicing.ItemInput
}

// parseInvoiceRequest valida la petición completa y acumula todos los errores por campo.
func parseInvoiceRequest(req dto.InvoiceRequest) (*invoiceInput, error) {
	verr := domain.NewValidationError()
	in := &invoiceInput{notes: strings.TrimSpace(req.Notes)}

	var inline *invoicing.NewCustomer
	if req.NewCustomer != nil {
		inline = &invoicing.NewCustomer{
			Name:    req.NewCustomer.Name,
			Email:   req.NewCustomer.Email,
			Address: req.NewCustomer.Address,
			Phone:   req.NewCustomer.Phone,
		}
	}
	ref, err := invoicing.ParseCustomerRef(req.CustomerID, inline)
	if err != nil {
		verr.Merge(err)
	}
	in.customer = ref

	invDate, errInv := time.Parse(time.DateOnly, req.InvoiceDate)
	if errInv != nil {
		verr.Add("invoice_date", "fecha inválida, use AAAA-MM-DD")
	}
	dueDate, errDue := time.Parse(time.DateOnly, req.DueDate)
	if errDue != nil {
		verr.Add("due_date", "fecha inválida, use AAAA-MM-DD")
	}
	if errInv == nil && errDue == nil && dueDate.Before(invDate) {
		verr.Add("due_date", "debe ser igual o posterior a invoice_date")
	}
	in.invoiceDate, in.dueDate = invDate, dueDate

	in.status = req.Status
	if in.status != "" && !invoicing.ValidStatus(in.status) {
		verr.Add("status", "estado desconocido")
	}

	lines := make([]invoicing.Line, 0, len(req.Items))
	for i, it := range req.Items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			verr.Add(fmt.Sprintf("items.%d.description", i), "requerido")
		}
		lines = append(lines, invoicing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice})
		in.items = append(in.items, invoicing.ItemInput{
			ID:          strings.TrimSpace(it.ID),
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	totals, err := invoicing.Calculate(lines, req.TaxPercent)
	if err != nil && !verr.Merge(err) {
		return nil, err
	}
	in.totals = totals

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return in, nil
}

// apply copia la petición validada sobre la cabecera.
func (in *invoiceInput) apply(inv *entity.Invoice, customer *entity.Customer) {
	inv.CustomerID = customer.ID
	inv.Customer = customer
	inv.InvoiceDate = in.invoiceDate
	inv.DueDate = in.dueDate
	inv.Notes = in.notes
	inv.Subtotal = in.totals.Subtotal
	inv.TaxPercent = in.totals.TaxPercent
	inv.TaxAmount = in.totals.TaxAmount
	inv.Total = in.totals.Total
}

// prefix devuelve el prefijo de numeración del usuario ("INV" si no tiene configuración).
func (uc *InvoiceUseCase) prefix(ctx context.Context, userID string) (string, error) {
	s, err := uc.settings.GetByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("obtener configuración de empresa: %w", err)
	}
	return s.Prefix(), nil
}

// Create valida la petición, resuelve el cliente, numera la factura y la guarda con sus ítems
// en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor Actor, req dto.InvoiceRequest) (*dto.InvoiceCreatedResponse, error) {
	in, err := parseInvoiceRequest(req)
	if err != nil {
		return nil, err
	}
	status, err := invoicing.EditStatus(entity.InvoiceStatusPending, in.status)
	if err != nil {
		return nil, err
	}
	prefix, err := uc.prefix(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var created *entity.Invoice
	err = uc.tx.RunInvoice(ctx, func(
		customers repository.CustomerRepository,
		invoices repository.InvoiceRepository,
		logs repository.ActivityLogRepository,
	) error {
		customer, customerCreated, err := uc.resolver.Resolve(ctx, customers, actor.UserID, in.customer)
		if err != nil {
			return err
		}

		last, err := invoices.LastSequence(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		seq := invoicing.NextSequence(last)
		inv := &entity.Invoice{
			ID:        uuid.New().String(),
			Seq:       seq,
			UserID:    actor.UserID,
			Number:    invoicing.FormatNumber(prefix, now, seq),
			CreatedAt: now,
			UpdatedAt: now,
		}
		in.apply(inv, customer)
		inv.Status = status
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, itemIn := range in.items {
			item := invoicing.NewItem(inv.ID, itemIn)
			if err := invoices.CreateItem(ctx, &item); err != nil {
				return err
			}
			inv.Items = append(inv.Items, item)
		}

		changes := map[string]any{
			"invoice_number":   inv.Number,
			"total":            inv.Total.StringFixed(2),
			"customer_created": customerCreated,
		}
		if err := logs.Create(ctx, actor.Activity(entity.ActionCreated, entity.ModelInvoice, inv.ID, changes, now)); err != nil {
			return err
		}
		created = inv
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNumberTaken) {
			uc.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("colisión de número de factura")
		}
		return nil, err
	}

	uc.metrics.InvoiceEvent(entity.ActionCreated)
	uc.log.Info().Str("invoice_number", created.Number).Str("user_id", actor.UserID).Msg("factura creada")
	return &dto.InvoiceCreatedResponse{
		Message:       MsgInvoiceCreated,
		InvoiceNumber: created.Number,
		Invoice:       ToInvoiceResponse(created),
	}, nil
}

// Update aplica una edición completa. Si la cabecera, los ítems y el cliente quedan iguales,
// la transacción se revierte y se devuelve la factura sin cambios.
func (uc *InvoiceUseCase) Update(ctx context.Context, actor Actor, number string, req dto.InvoiceRequest) (*dto.InvoiceUpdatedResponse, error) {
	in, err := parseInvoiceRequest(req)
	if err != nil {
		return nil, err
	}

	var (
		before  *entity.Invoice
		after   *entity.Invoice
		changes invoicing.EditChanges
	)
	err = uc.tx.RunInvoice(ctx, func(
		customers repository.CustomerRepository,
		invoices repository.InvoiceRepository,
		logs repository.ActivityLogRepository,
	) error {
		inv, err := invoices.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if inv == nil || !actor.Owns(inv.UserID) {
			return domain.ErrNotFound
		}
		before = inv.Clone()

		customer, customerCreated, err := uc.resolver.Resolve(ctx, customers, inv.UserID, in.customer)
		if err != nil {
			return err
		}

		status, err := invoicing.EditStatus(before.Status, in.status)
		if err != nil {
			return err
		}

		after = inv.Clone()
		in.apply(after, customer)
		after.Status = status
		if before.Status != after.Status && !invoicing.CanTransition(before.Status, after.Status) {
			uc.log.Warn().Str("invoice_number", number).Str("from", before.Status).Str("to", after.Status).
				Msg("cambio de estado fuera del flujo habitual")
		}

		rec := invoicing.Reconcile(inv.ID, before.Items, in.items)
		changes = invoicing.NewEditChanges(invoicing.DiffInvoice(before, after), rec, customerCreated)
		if !changes.HasChanges() {
			return errNoChanges
		}

		now := uc.now()
		after.UpdatedAt = now
		after.Items = rec.Items
		if err := invoices.Update(ctx, after); err != nil {
			return err
		}
		if err := invoices.DeleteItems(ctx, inv.ID, rec.Deleted); err != nil {
			return err
		}
		for _, u := range rec.Updated {
			item := u.Item
			if err := invoices.UpdateItem(ctx, &item); err != nil {
				return err
			}
		}
		for i := range rec.Inserted {
			if err := invoices.CreateItem(ctx, &rec.Inserted[i]); err != nil {
				return err
			}
		}
		return logs.Create(ctx, actor.Activity(entity.ActionUpdated, entity.ModelInvoice, inv.ID, changes.AsMap(), now))
	})
	if errors.Is(err, errNoChanges) {
		return &dto.InvoiceUpdatedResponse{Message: MsgNoChanges, Invoice: ToInvoiceResponse(before)}, nil
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.InvoiceEvent(entity.ActionUpdated)
	return &dto.InvoiceUpdatedResponse{
		Message: MsgInvoiceUpdated,
		Invoice: ToInvoiceResponse(after),
		Changes: changes.AsMap(),
	}, nil
}

// Get obtiene una factura por número.
func (uc *InvoiceUseCase) Get(ctx context.Context, actor Actor, number string) (*dto.InvoiceResponse, error) {
	inv, err := uc.find(ctx, actor, number)
	if err != nil {
		return nil, err
	}
	out := ToInvoiceResponse(inv)
	return &out, nil
}

func (uc *InvoiceUseCase) find(ctx context.Context, actor Actor, number string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if inv == nil || !actor.Owns(inv.UserID) {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// List lista las facturas del actor (todas si es admin).
func (uc *InvoiceUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.invoices.List(ctx, repository.InvoiceFilter{
		UserID: actor.Scope(),
		Search: page.Search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceListResponse{
		Items: toInvoiceResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Recent últimas facturas: 3 del usuario o 5 del sistema para admin.
func (uc *InvoiceUseCase) Recent(ctx context.Context, actor Actor) ([]dto.InvoiceResponse, error) {
	limit := recentUserLimit
	if actor.Admin {
		limit = recentAdminLimit
	}
	list, err := uc.invoices.Recent(ctx, actor.Scope(), limit)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(list), nil
}

// Delete elimina una factura (por número en rutas de usuario).
func (uc *InvoiceUseCase) Delete(ctx context.Context, actor Actor, number string) error {
	return uc.delete(ctx, actor, func(repo repository.InvoiceRepository) (*entity.Invoice, error) {
		return repo.GetByNumber(ctx, number)
	})
}

// DeleteByID elimina una factura por ID (rutas de admin).
func (uc *InvoiceUseCase) DeleteByID(ctx context.Context, actor Actor, id string) error {
	return uc.delete(ctx, actor, func(repo repository.InvoiceRepository) (*entity.Invoice, error) {
		return repo.GetByID(ctx, id)
	})
}

func (uc *InvoiceUseCase) delete(ctx context.Context, actor Actor, load func(repository.InvoiceRepository) (*entity.Invoice, error)) error {
	var number string
	err := uc.tx.RunInvoice(ctx, func(
		_ repository.CustomerRepository,
		invoices repository.InvoiceRepository,
		logs repository.ActivityLogRepository,
	) error {
		inv, err := load(invoices)
		if err != nil {
			return err
		}
		if inv == nil || !actor.Owns(inv.UserID) {
			return domain.ErrNotFound
		}
		if err := invoices.Delete(ctx, inv.ID); err != nil {
			return err
		}
		number = inv.Number
		changes := map[string]any{"invoice_number": inv.Number, "total": inv.Total.StringFixed(2)}
		return logs.Create(ctx, actor.Activity(entity.ActionDeleted, entity.ModelInvoice, inv.ID, changes, uc.now()))
	})
	if err != nil {
		return err
	}
	uc.metrics.InvoiceEvent(entity.ActionDeleted)
	uc.log.Info().Str("invoice_number", number).Str("user_id", actor.UserID).Msg("factura eliminada")
	return nil
}

package billing_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// ── store en memoria ────────────────────────────────────────────────────────

type store struct {
	customers map[string]entity.Customer
	invoices  map[string]entity.Invoice
	items     map[string][]entity.InvoiceItem
	logs      []entity.ActivityLog
}

func newStore() *store {
	return &store{
		customers: map[string]entity.Customer{},
		invoices:  map[string]entity.Invoice{},
		items:     map[string][]entity.InvoiceItem{},
	}
}

func (s *store) clone() *store {
	c := newStore()
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.InvoiceItem(nil), v...)
	}
	c.logs = append([]entity.ActivityLog(nil), s.logs...)
	return c
}

// fakeTx simula la transacción: si fn falla, restaura la copia previa del store.
type fakeTx struct {
	s         *store
	commits   int
	rollbacks int
}

func (f *fakeTx) RunInvoice(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	logRepo repository.ActivityLogRepository,
) error) error {
	snap := f.s.clone()
	if err := fn(&customerRepo{f.s}, &invoiceRepo{f.s}, &logRepo{f.s}); err != nil {
		*f.s = *snap
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

// ── repos ───────────────────────────────────────────────────────────────────

type customerRepo struct{ s *store }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	var out []*entity.Customer
	for _, c := range r.s.customers {
		c := c
		if f.UserID == "" || c.UserID == f.UserID {
			out = append(out, &c)
		}
	}
	return out, len(out), nil
}

func (r *customerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}

type invoiceRepo struct{ s *store }

func (r *invoiceRepo) LastSequence(context.Context) (int64, error) {
	var last int64
	for _, inv := range r.s.invoices {
		if inv.Seq > last {
			last = inv.Seq
		}
	}
	return last, nil
}

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	for _, other := range r.s.invoices {
		if other.Number == inv.Number {
			return domain.ErrInvoiceNumberTaken
		}
	}
	row := *inv
	row.Customer, row.Items = nil, nil
	r.s.invoices[inv.ID] = row
	return nil
}

func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	row := *inv
	row.Customer, row.Items = nil, nil
	r.s.invoices[inv.ID] = row
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	delete(r.s.items, id)
	delete(r.s.invoices, id)
	return nil
}

func (r *invoiceRepo) load(row entity.Invoice) *entity.Invoice {
	inv := row
	if c, ok := r.s.customers[inv.CustomerID]; ok {
		inv.Customer = &c
	}
	inv.Items = append([]entity.InvoiceItem(nil), r.s.items[inv.ID]...)
	return &inv
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	row, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return r.load(row), nil
}

func (r *invoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	for _, row := range r.s.invoices {
		if row.Number == number {
			return r.load(row), nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) filtered(userID string) []*entity.Invoice {
	var out []*entity.Invoice
	for _, row := range r.s.invoices {
		if userID == "" || row.UserID == userID {
			out = append(out, r.load(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	return out
}

func (r *invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	for _, inv := range r.filtered(f.UserID) {
		if f.Search == "" || strings.Contains(inv.Number, f.Search) {
			out = append(out, inv)
		}
	}
	return out, len(out), nil
}

func (r *invoiceRepo) Recent(_ context.Context, userID string, limit int) ([]*entity.Invoice, error) {
	out := r.filtered(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *invoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], *item)
	return nil
}

func (r *invoiceRepo) UpdateItem(_ context.Context, item *entity.InvoiceItem) error {
	list := r.s.items[item.InvoiceID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = *item
		}
	}
	return nil
}

func (r *invoiceRepo) DeleteItems(_ context.Context, invoiceID string, ids []string) error {
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var keep []entity.InvoiceItem
	for _, it := range r.s.items[invoiceID] {
		if !drop[it.ID] {
			keep = append(keep, it)
		}
	}
	r.s.items[invoiceID] = keep
	return nil
}

func (r *invoiceRepo) ListItems(_ context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	return append([]entity.InvoiceItem(nil), r.s.items[invoiceID]...), nil
}

type logRepo struct{ s *store }

func (r *logRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	r.s.logs = append(r.s.logs, *l)
	return nil
}

func (r *logRepo) List(_ context.Context, _ repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	out := make([]*entity.ActivityLog, 0, len(r.s.logs))
	for i := range r.s.logs {
		out = append(out, &r.s.logs[i])
	}
	return out, len(out), nil
}

// ── colaboradores externos ──────────────────────────────────────────────────

type fakeSettings map[string]*entity.CompanySetting

func (f fakeSettings) GetByUserID(_ context.Context, userID string) (*entity.CompanySetting, error) {
	return f[userID], nil
}

type fakePDF struct{ docs []billing.InvoiceDocument }

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	f.docs = append(f.docs, doc)
	return []byte("%PDF-1.4 " + doc.Invoice.Number), nil
}

type fakeMailer struct {
	sent []billing.InvoiceMail
	err  error
}

func (f *fakeMailer) SendInvoice(_ context.Context, mail billing.InvoiceMail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, mail)
	return nil
}

type countingMetrics map[string]int

func (m countingMetrics) InvoiceEvent(action string) { m[action]++ }

// Package pdf genera la representación PDF de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto   │  INVOICE + N° + fechas      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: Nombre + email + dirección + teléfono             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | P.Unit | Total                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto (x%) / TOTAL                  │
//	│  NOTAS + PIE (invoice_footer, TIN)                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	defaultPrimary = &props.Color{Red: 13, Green: 110, Blue: 253}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, fmt.Errorf("pdf: factura vacía")
	}
	company := doc.Company
	if company == nil {
		company = entity.DefaultCompanySetting(inv.UserID)
	}
	symbol := doc.CurrencySymbol
	if symbol == "" {
		symbol = company.Symbol()
	}
	primary := parseHexColor(company.PrimaryColor)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.Number, true).
		WithAuthor(company.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, company, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(billToRow(inv.Customer, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(primary))
	m.AddRows(itemRows(inv.Items, symbol)...)

	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, symbol, primary))

	if inv.Notes != "" {
		m.AddRows(notesRows("Notes", inv.Notes, primary)...)
	}
	m.AddRows(footerRows(company)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa y contacto (izq), número, estado y fechas (der).
func headerRow(inv *entity.Invoice, company *entity.CompanySetting, primary *props.Color) core.Row {
	contact := joinNonEmpty("  |  ", company.CompanyAddress, company.CompanyPhone, company.CompanyEmail)
	return row.New(24).Add(
		col.New(7).Add(
			text.New(company.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1,
			}),
			text.New(contact, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: primary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Date: "+inv.InvoiceDate.Format("02 Jan 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Due: "+inv.DueDate.Format("02 Jan 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
			text.New("Status: "+strings.ToUpper(inv.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 21,
			}),
		),
	)
}

// billToRow: datos del cliente.
func billToRow(c *entity.Customer, primary *props.Color) core.Row {
	if c == nil {
		c = &entity.Customer{}
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1,
			}),
			text.New(nonEmpty(c.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New(joinNonEmpty("  |  ", c.Email, c.Phone, c.Address), props.Text{
				Size: 8, Top: 11, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow(primary *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: primary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// itemRows: una fila por ítem.
func itemRows(items []entity.InvoiceItem, symbol string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.Format(symbol, it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.Format(symbol, it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(inv *entity.Invoice, symbol string, primary *props.Color) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Tax ("+money.Percent(inv.TaxPercent)+"):", 7),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: primary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(money.Format(symbol, inv.Subtotal), 1),
			value(money.Format(symbol, inv.TaxAmount), 7),
			text.New(money.Format(symbol, inv.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: primary, Right: 1, Top: 13,
			}),
		),
	)
}

func notesRows(title, body string, primary *props.Color) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1,
		}))),
		row.New(12).Add(col.New(12).Add(text.New(body, props.Text{
			Size: 8, Color: colorGray, Top: 1,
		}))),
	}
}

// footerRows: pie configurado por el usuario y TIN.
func footerRows(company *entity.CompanySetting) []core.Row {
	rows := []core.Row{row.New(4), line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3})}
	if company.InvoiceFooter != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(text.New(company.InvoiceFooter, props.Text{
			Size: 7, Color: colorGray, Align: align.Center, Top: 2,
		}))))
	}
	if company.TIN != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(text.New("TIN: "+company.TIN, props.Text{
			Size: 7, Color: colorGray, Align: align.Center, Top: 1,
		}))))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// parseHexColor convierte "#rrggbb" en props.Color; cualquier otro valor usa el color por defecto.
func parseHexColor(hex string) *props.Color {
	var r, g, b int
	if len(hex) != 7 || hex[0] != '#' {
		return defaultPrimary
	}
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return defaultPrimary
	}
	return &props.Color{Red: r, Green: g, Blue: b}
}

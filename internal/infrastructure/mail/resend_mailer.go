// Package mail envía las facturas por correo a través de Resend.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/pkg/money"
)

// emailSender subconjunto de resend.EmailsSvc que usa el mailer.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer implementa billing.InvoiceMailer.
// Sin API key solo registra el envío en el log (desarrollo).
type ResendMailer struct {
	emails    emailSender
	fromEmail string
	fromName  string
	log       zerolog.Logger
}

var _ billing.InvoiceMailer = (*ResendMailer)(nil)

// NewResendMailer construye el mailer.
func NewResendMailer(apiKey, fromEmail, fromName string, log zerolog.Logger) *ResendMailer {
	m := &ResendMailer{fromEmail: fromEmail, fromName: fromName, log: log}
	if apiKey != "" {
		m.emails = resend.NewClient(apiKey).Emails
	}
	return m
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #333;">
  <h2 style="color: {{.Color}};">{{.Company}}</h2>
  <p>Hello {{.Customer}},</p>
  <p>Please find attached invoice <strong>{{.Number}}</strong> for <strong>{{.Total}}</strong>, due on {{.DueDate}}.</p>
  {{if .DownloadURL}}<p><a href="{{.DownloadURL}}">View invoice online</a></p>{{end}}
  {{if .Footer}}<p style="font-size: 12px; color: #777;">{{.Footer}}</p>{{end}}
  <p>Thank you for your business.</p>
</body>
</html>`))

type invoiceView struct {
	Company     string
	Color       string
	Customer    string
	Number      string
	Total       string
	DueDate     string
	DownloadURL string
	Footer      string
}

// Subject asunto del correo de una factura.
func Subject(number string) string { return "Invoice " + number }

// SendInvoice envía el correo con el PDF adjunto.
func (m *ResendMailer) SendInvoice(_ context.Context, msg billing.InvoiceMail) error {
	if msg.Invoice == nil {
		return fmt.Errorf("mail: factura vacía")
	}
	view := buildView(msg)
	var html bytes.Buffer
	if err := invoiceTemplate.Execute(&html, view); err != nil {
		return fmt.Errorf("mail: render template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    m.from(view.Company),
		To:      []string{msg.To},
		Subject: Subject(msg.Invoice.Number),
		Html:    html.String(),
		Text:    plainText(view),
		Tags:    []resend.Tag{{Name: "category", Value: "invoice"}},
	}
	if len(msg.PDF) > 0 {
		params.Attachments = []*resend.Attachment{{
			Content:     msg.PDF,
			Filename:    msg.PDFName,
			ContentType: "application/pdf",
		}}
	}

	if m.emails == nil {
		m.log.Info().
			Str("to", msg.To).
			Str("invoice_number", msg.Invoice.Number).
			Int("pdf_bytes", len(msg.PDF)).
			Msg("RESEND_API_KEY vacío: correo no enviado")
		return nil
	}

	sent, err := m.emails.Send(params)
	if err != nil {
		m.log.Error().Err(err).Str("to", msg.To).Str("invoice_number", msg.Invoice.Number).Msg("fallo al enviar factura")
		return fmt.Errorf("mail: send invoice: %w", err)
	}
	m.log.Info().Str("email_id", sent.Id).Str("to", msg.To).Str("invoice_number", msg.Invoice.Number).Msg("factura enviada")
	return nil
}

func (m *ResendMailer) from(company string) string {
	name := m.fromName
	if name == "" {
		name = company
	}
	if name == "" {
		return m.fromEmail
	}
	return fmt.Sprintf("%s <%s>", name, m.fromEmail)
}

func buildView(msg billing.InvoiceMail) invoiceView {
	inv := msg.Invoice
	view := invoiceView{
		Number:      inv.Number,
		DueDate:     inv.DueDate.Format("02 Jan 2006"),
		DownloadURL: msg.DownloadURL,
		Color:       "#0d6efd",
	}
	symbol := msg.CurrencySymbol
	if c := msg.Company; c != nil {
		view.Company = c.CompanyName
		view.Footer = c.InvoiceFooter
		if c.PrimaryColor != "" {
			view.Color = c.PrimaryColor
		}
		if symbol == "" {
			symbol = c.Symbol()
		}
	}
	view.Total = money.Format(symbol, inv.Total)
	if inv.Customer != nil {
		view.Customer = inv.Customer.Name
	}
	return view
}

func plainText(v invoiceView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", v.Customer)
	fmt.Fprintf(&b, "Please find attached invoice %s for %s, due on %s.\n", v.Number, v.Total, v.DueDate)
	if v.DownloadURL != "" {
		fmt.Fprintf(&b, "View it online: %s\n", v.DownloadURL)
	}
	b.WriteString("\nThank you for your business.\n")
	if v.Company != "" {
		b.WriteString(v.Company + "\n")
	}
	return b.String()
}

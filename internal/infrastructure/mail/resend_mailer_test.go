package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

type fakeSender struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeSender) Send(p *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func invoiceMail() billing.InvoiceMail {
	return billing.InvoiceMail{
		To: "cliente@example.com",
		Invoice: &entity.Invoice{
			Number:   "INV20240501-0042",
			DueDate:  time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			Total:    decimal.RequireFromString("1234.5"),
			Customer: &entity.Customer{Name: "Acme"},
		},
		Company:        &entity.CompanySetting{CompanyName: "Beehive", PrimaryColor: "#112233"},
		CurrencySymbol: "₵",
		DownloadURL:    "https://app.example.com/user/dashboard/invoice/INV20240501-0042",
		PDF:            []byte("%PDF-1.3"),
		PDFName:        "invoice-INV20240501-0042.pdf",
	}
}

func TestSendInvoice_ArmaElCorreo(t *testing.T) {
	sender := &fakeSender{}
	m := &ResendMailer{emails: sender, fromEmail: "billing@beehive.test", log: zerolog.Nop()}

	err := m.SendInvoice(context.Background(), invoiceMail())

	require.NoError(t, err)
	require.NotNil(t, sender.got)
	assert.Equal(t, "Beehive <billing@beehive.test>", sender.got.From)
	assert.Equal(t, []string{"cliente@example.com"}, sender.got.To)
	assert.Equal(t, "Invoice INV20240501-0042", sender.got.Subject)
	assert.Contains(t, sender.got.Html, "₵1,234.50")
	assert.Contains(t, sender.got.Html, "/user/dashboard/invoice/INV20240501-0042")
	assert.Contains(t, sender.got.Text, "Hello Acme")
	require.Len(t, sender.got.Attachments, 1)
	assert.Equal(t, "invoice-INV20240501-0042.pdf", sender.got.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", sender.got.Attachments[0].ContentType)
}

func TestSendInvoice_PropagaErrorDelProveedor(t *testing.T) {
	m := &ResendMailer{emails: &fakeSender{err: errors.New("rate limited")}, fromEmail: "a@b.c", log: zerolog.Nop()}

	err := m.SendInvoice(context.Background(), invoiceMail())

	assert.ErrorContains(t, err, "rate limited")
}

func TestSendInvoice_SinAPIKeySoloRegistra(t *testing.T) {
	m := NewResendMailer("", "a@b.c", "Facturación", zerolog.Nop())

	assert.NoError(t, m.SendInvoice(context.Background(), invoiceMail()))
}

func TestFrom(t *testing.T) {
	assert.Equal(t, "Facturación <a@b.c>", (&ResendMailer{fromEmail: "a@b.c", fromName: "Facturación"}).from("Beehive"))
	assert.Equal(t, "a@b.c", (&ResendMailer{fromEmail: "a@b.c"}).from(""))
}

package billing

import (
	"time"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// ToInvoiceResponse convierte la entidad a DTO.
func ToInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		UserID:      inv.UserID,
		CustomerID:  inv.CustomerID,
		InvoiceDate: inv.InvoiceDate.Format(time.DateOnly),
		DueDate:     inv.DueDate.Format(time.DateOnly),
		Status:      inv.Status,
		Subtotal:    inv.Subtotal,
		TaxPercent:  inv.TaxPercent,
		TaxAmount:   inv.TaxAmount,
		Total:       inv.Total,
		Notes:       inv.Notes,
		SentAt:      inv.SentAt,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
		Items:       make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
	}
	if inv.Customer != nil {
		c := ToCustomerResponse(inv.Customer)
		out.Customer = &c
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return out
}

// ToCustomerResponse convierte la entidad a DTO.
func ToCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func toInvoiceResponses(list []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, ToInvoiceResponse(inv))
	}
	return out
}

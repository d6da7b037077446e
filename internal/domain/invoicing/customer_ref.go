package invoicing

import (
	"strings"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// CustomerRef referencia al cliente de una factura: ExistingCustomer o NewCustomer.
type CustomerRef interface {
	customerRef()
}

// ExistingCustomer cliente ya registrado.
type ExistingCustomer struct {
	ID string
}

// NewCustomer datos para crear el cliente junto con la factura.
type NewCustomer struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

func (ExistingCustomer) customerRef() {}
func (NewCustomer) customerRef()      {}

// ParseCustomerRef construye la referencia a partir de la petición.
// Con customerID se usa el cliente existente; sin él, inline es obligatorio y
// se informa cada campo faltante como new_customer.<campo>.
func ParseCustomerRef(customerID string, inline *NewCustomer) (CustomerRef, error) {
	if id := strings.TrimSpace(customerID); id != "" {
		return ExistingCustomer{ID: id}, nil
	}
	var nc NewCustomer
	if inline != nil {
		nc = NewCustomer{
			Name:    strings.TrimSpace(inline.Name),
			Email:   strings.TrimSpace(inline.Email),
			Address: strings.TrimSpace(inline.Address),
			Phone:   strings.TrimSpace(inline.Phone),
		}
	}
	verr := domain.NewValidationError()
	const msg = "requerido cuando no se selecciona un cliente existente"
	if nc.Name == "" {
		verr.Add("new_customer.name", msg)
	}
	if nc.Email == "" {
		verr.Add("new_customer.email", msg)
	}
	if nc.Address == "" {
		verr.Add("new_customer.address", msg)
	}
	if nc.Phone == "" {
		verr.Add("new_customer.phone", msg)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return nc, nil
}

package invoicing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
)

func TestParseCustomerRef_Existente(t *testing.T) {
	ref, err := invoicing.ParseCustomerRef(" c-1 ", &invoicing.NewCustomer{Name: "ignorado"})
	require.NoError(t, err)
	assert.Equal(t, invoicing.ExistingCustomer{ID: "c-1"}, ref)
}

func TestParseCustomerRef_Nuevo(t *testing.T) {
	ref, err := invoicing.ParseCustomerRef("", &invoicing.NewCustomer{
		Name: "Ama", Email: "ama@example.com", Address: "Accra", Phone: "0200000000",
	})
	require.NoError(t, err)
	nc, ok := ref.(invoicing.NewCustomer)
	require.True(t, ok)
	assert.Equal(t, "Ama", nc.Name)
}

func TestParseCustomerRef_ListaCamposFaltantes(t *testing.T) {
	_, err := invoicing.ParseCustomerRef("", &invoicing.NewCustomer{Name: "Ama", Phone: "  "})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, "new_customer.email")
	assert.Contains(t, verr.Fields, "new_customer.address")
	assert.Contains(t, verr.Fields, "new_customer.phone")

	_, err = invoicing.ParseCustomerRef("", nil)
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 4)
}

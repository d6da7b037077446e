package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
)

func TestResolve_ClienteExistente(t *testing.T) {
	s := newStore()
	s.customers["c1"] = entity.Customer{ID: "c1", UserID: ownerID, Name: "Acme"}
	r := billing.NewCustomerResolver(nil)

	c, created, err := r.Resolve(context.Background(), &customerRepo{s}, ownerID, invoicing.ExistingCustomer{ID: "c1"})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Acme", c.Name)
}

func TestResolve_ClienteInexistenteOAjeno(t *testing.T) {
	s := newStore()
	s.customers["c2"] = entity.Customer{ID: "c2", UserID: otherID}
	r := billing.NewCustomerResolver(nil)

	for _, id := range []string{"no-existe", "c2"} {
		_, _, err := r.Resolve(context.Background(), &customerRepo{s}, ownerID, invoicing.ExistingCustomer{ID: id})
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
}

func TestResolve_ClienteNuevoSeCreaParaElDueño(t *testing.T) {
	s := newStore()
	r := billing.NewCustomerResolver(nil)
	ref := invoicing.NewCustomer{Name: "Nuevo", Email: "n@example.com", Address: "Calle", Phone: "1"}

	c, created, err := r.Resolve(context.Background(), &customerRepo{s}, ownerID, ref)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ownerID, c.UserID)
	assert.Contains(t, s.customers, c.ID)
}

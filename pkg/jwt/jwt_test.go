package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "admin", "invoicing-api", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "user", "invoicing-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro-secret", tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "user-1", "user", "invoicing-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "user", "invoicing-api", 5)
	assert.Error(t, err)
}

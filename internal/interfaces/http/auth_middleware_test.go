package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	apphttp "github.com/jhoicas/invoicing-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invoicing-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "invoicing-api-test"
	testExpMin    = 60
)

// tokenForRole genera el header Authorization con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// guardedApp monta los mismos grupos que el router (/api/invoices con token, /api/admin con
// token y rol admin) sobre un handler que devuelve el usuario y rol del token.
func guardedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	whoami := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
	}
	requireAuth := apphttp.AuthMiddleware(testJWTSecret)
	app.Group("/api/invoices", requireAuth).Get("/", whoami)
	app.Group("/api/admin", requireAuth, apphttp.RequireRole(entity.RoleAdmin)).Get("/users", whoami)
	return app
}

func get(t *testing.T, app *fiber.App, target, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_RechazaCredenciales(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleUser, testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret", testUserID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name string
		auth string
		code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"token expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firmado con otro secret", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	app := guardedApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, "/api/invoices", tc.auth)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleUser, testIssuer, testExpMin)
	require.NoError(t, err)

	// el esquema no distingue mayúsculas
	resp := get(t, guardedApp(), "/api/invoices", "bearer "+tok)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, entity.RoleUser, body["role"])
}

func TestRequireRole_RutasAdmin(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		status int
		code   string
	}{
		{"admin pasa", entity.RoleAdmin, http.StatusOK, ""},
		{"user bloqueado", entity.RoleUser, http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", "auditor", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	app := guardedApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, "/api/admin/users", tokenForRole(t, tc.role))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				var body dto.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tc.code, body.Code)
			}
		})
	}
}

func TestRequireRole_RutasDeUsuarioAceptanCualquierRol(t *testing.T) {
	app := guardedApp()
	for _, role := range []string{entity.RoleAdmin, entity.RoleUser} {
		resp := get(t, app, "/api/invoices", tokenForRole(t, role))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, role)
	}
}

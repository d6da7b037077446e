package postgres

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigraciones_CadaVersionTieneUpYDown(t *testing.T) {
	src, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up %d", version)
		body, err := io.ReadAll(up)
		require.NoError(t, err)
		up.Close()
		assert.NotEmpty(t, body)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down %d", version)
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
}

func TestMigraciones_EsquemaInicialCreaTablas(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "customers", "invoices", "invoice_items", "company_settings", "activity_logs"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

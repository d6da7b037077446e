package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "invoicing-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("FRONTEND_URL", "https://app.example.com/")
	t.Setenv("REDIS_TTL", "30s")
	t.Setenv("S3_USE_PATH_STYLE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "https://app.example.com", cfg.App.FrontendURL)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Storage.UsePathStyle)
}

func TestLoad_ProduccionSinSecretFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_S3SinBucketFalla(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "s3")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "invoicing", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/invoicing?sslmode=disable", c.DSN())
}

// Package cache guarda en Redis la configuración de empresa, leída en cada factura, PDF y correo.
// Sin Redis (Addr vacío o inalcanzable) todo se lee directamente de la base de datos.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/pkg/config"
)

const settingsKeyPrefix = "company_settings:"

// Connect abre el cliente y hace ping. Devuelve nil (sin error) si Addr está vacío.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// CompanySettingsCache decora un lector de configuración con una caché de lectura en Redis.
type CompanySettingsCache struct {
	client *redis.Client
	next   usecase.SettingsReader
	ttl    time.Duration
	log    zerolog.Logger
}

var (
	_ billing.CompanySettingsReader = (*CompanySettingsCache)(nil)
	_ usecase.SettingsReader        = (*CompanySettingsCache)(nil)
	_ usecase.SettingsInvalidator   = (*CompanySettingsCache)(nil)
)

// NewCompanySettingsCache construye el decorador. client nil = sin caché.
func NewCompanySettingsCache(client *redis.Client, next usecase.SettingsReader, ttl time.Duration, log zerolog.Logger) *CompanySettingsCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CompanySettingsCache{client: client, next: next, ttl: ttl, log: log}
}

// GetByUserID lee de Redis y, si falla o no está, del lector original. Solo se cachean filas existentes.
func (c *CompanySettingsCache) GetByUserID(ctx context.Context, userID string) (*entity.CompanySetting, error) {
	if c.client == nil {
		return c.next.GetByUserID(ctx, userID)
	}
	key := settingsKeyPrefix + userID
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var s entity.CompanySetting
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.Debug().Err(err).Str("user_id", userID).Msg("caché no disponible")
	}

	s, err := c.next.GetByUserID(ctx, userID)
	if err != nil || s == nil {
		return s, err
	}
	if data, err := json.Marshal(s); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Debug().Err(err).Str("user_id", userID).Msg("no se pudo cachear la configuración")
		}
	}
	return s, nil
}

// Invalidate descarta la copia del usuario; los fallos solo se registran.
func (c *CompanySettingsCache) Invalidate(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, settingsKeyPrefix+userID).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo invalidar la caché")
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/pkg/config"
)

type countingReader struct {
	calls int
	value *entity.CompanySetting
}

func (r *countingReader) GetByUserID(context.Context, string) (*entity.CompanySetting, error) {
	r.calls++
	return r.value, nil
}

func TestCompanySettingsCache_SinClienteLeeDelOrigen(t *testing.T) {
	next := &countingReader{value: &entity.CompanySetting{UserID: "u1", CompanyName: "Beehive"}}
	c := NewCompanySettingsCache(nil, next, 0, zerolog.Nop())

	got, err := c.GetByUserID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "Beehive", got.CompanyName)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 10*time.Minute, c.ttl)
	c.Invalidate(context.Background(), "u1")
}

func TestCompanySettingsCache_RedisCaidoDegrada(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	next := &countingReader{value: &entity.CompanySetting{UserID: "u1", CompanyName: "Beehive"}}
	c := NewCompanySettingsCache(client, next, time.Minute, zerolog.Nop())

	got, err := c.GetByUserID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "Beehive", got.CompanyName)
	assert.Equal(t, 1, next.calls)
	c.Invalidate(context.Background(), "u1")
}

func TestConnect_SinDireccion(t *testing.T) {
	client, err := Connect(context.Background(), config.RedisConfig{})

	assert.NoError(t, err)
	assert.Nil(t, client)
}

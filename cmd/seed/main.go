// seed crea el usuario administrador inicial y su configuración de empresa.
//
// Uso: go run ./cmd/seed
// Variables: SEED_ADMIN_NAME, SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD, SEED_COMPANY_NAME
// (más las de conexión a PostgreSQL que lee pkg/config). Si el email ya existe no hace nada.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/viper"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/storage"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SEED_ADMIN_NAME", "admin")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SEED_COMPANY_NAME", entity.DefaultCompanyName)
	password := v.GetString("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Error().Msg("SEED_ADMIN_PASSWORD es obligatorio")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.NewMigrator(pool, log).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	files, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	tx := postgres.NewTxRunner(pool)
	users := usecase.NewUserUseCase(tx, postgres.NewUserRepository(pool), files, log)
	company := usecase.NewCompanySettingsUseCase(tx, postgres.NewCompanySettingRepository(pool), nil, files, log)

	email := v.GetString("SEED_ADMIN_EMAIL")
	admin, err := users.Create(ctx, billing.Actor{Admin: true}, dto.CreateUserRequest{
		Name:          v.GetString("SEED_ADMIN_NAME"),
		Email:         email,
		Password:      password,
		Role:          entity.RoleAdmin,
		ProfileFields: dto.ProfileFields{FullName: "Administrator"},
	}, nil)
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", email).Msg("el administrador ya existe, nada que hacer")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}

	_, err = company.Save(ctx, billing.Actor{UserID: admin.ID}, dto.CompanySettingsRequest{
		CompanyName:    v.GetString("SEED_COMPANY_NAME"),
		CompanyEmail:   email,
		InvoicePrefix:  entity.DefaultInvoicePrefix,
		Currency:       entity.DefaultCurrency,
		CurrencySymbol: entity.DefaultCurrencySymbol,
	}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("guardar configuración de empresa")
	}
	log.Info().Str("id", admin.ID).Str("email", email).Msg("administrador creado")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/invoicing-api/internal/application/analytics"
	"github.com/jhoicas/invoicing-api/internal/application/auth"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/cache"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/mail"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/invoicing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/invoicing-api/internal/interfaces/http"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.NewMigrator(pool, logger.Component(log, "migrator")).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	redisClient, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		// sin caché se lee directo de PostgreSQL
		log.Warn().Err(err).Msg("redis no disponible, caché desactivada")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	files, err := storage.New(ctx, cfg.Storage, logger.Component(log, "storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}

	appMetrics := metrics.New()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	settingsRepo := postgres.NewCompanySettingRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	settings := cache.NewCompanySettingsCache(redisClient, settingsRepo, cfg.Redis.TTL, logger.Component(log, "cache"))

	pdfUC := billing.NewPDFUseCase(invoiceRepo, settings, infrapdf.NewMarotoPDFGenerator())
	mailer := mail.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName, logger.Component(log, "mail"))
	billingLog := logger.Component(log, "billing")

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, settings, appMetrics, billingLog)
	lifecycleUC := billing.NewLifecycleUseCase(txRunner, invoiceRepo, settings, pdfUC, mailer, cfg.App.FrontendURL, appMetrics, billingLog)
	customerUC := billing.NewCustomerUseCase(customerRepo, activityRepo)

	accountLog := logger.Component(log, "account")
	companyUC := usecase.NewCompanySettingsUseCase(txRunner, settingsRepo, settings, files, accountLog)
	userUC := usecase.NewUserUseCase(txRunner, userRepo, files, accountLog)
	activityUC := usecase.NewActivityLogUseCase(activityRepo)

	statsUC := appanalytics.NewStatsUseCase(analyticsRepo, settings)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	authUC := auth.NewAuthUseCase(userRepo, files, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestMiddleware(logger.Component(log, "http"), appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoicing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))

	// Con el driver local los archivos se sirven desde la misma API.
	if cfg.Storage.Driver == "local" && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		app.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalRoot)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CustomerUC:  customerUC,
		InvoiceUC:   invoiceUC,
		LifecycleUC: lifecycleUC,
		PDFUC:       pdfUC,
		CompanyUC:   companyUC,
		UserUC:      userUC,
		ActivityUC:  activityUC,
		StatsUC:     statsUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

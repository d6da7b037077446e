package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoicing-api/internal/application/analytics"
	"github.com/jhoicas/invoicing-api/internal/application/auth"
	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *billing.CustomerUseCase
	InvoiceUC   *billing.InvoiceUseCase
	LifecycleUC *billing.LifecycleUseCase
	PDFUC       *billing.PDFUseCase
	CompanyUC   *usecase.CompanySettingsUseCase
	UserUC      *usecase.UserUseCase
	ActivityUC  *usecase.ActivityLogUseCase
	StatsUC     *appanalytics.StatsUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.LifecycleUC, deps.PDFUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	userHandler := NewUserHandler(deps.UserUC)
	activityHandler := NewActivityLogHandler(deps.ActivityUC)
	analyticsHandler := NewAnalyticsHandler(deps.StatsUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	requireAuth := AuthMiddleware(deps.JWTSecret)

	// Auth (login público)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Rutas de usuario: cada uno ve solo lo suyo, también los admin.
	// Se registran por grupo con su prefijo para que el middleware no alcance a /api/auth/login.
	customers := api.Group("/customers", requireAuth)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)

	// Las rutas fijas van antes de /:number.
	invoices := api.Group("/invoices", requireAuth)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/recent", invoiceHandler.Recent)
	invoices.Get("/stats", analyticsHandler.Stats)
	invoices.Get("/:number", invoiceHandler.Get)
	invoices.Put("/:number", invoiceHandler.Update)
	invoices.Delete("/:number", invoiceHandler.Delete)
	invoices.Get("/:number/download", invoiceHandler.Download)
	invoices.Post("/:number/send", invoiceHandler.Send)
	invoices.Post("/:number/mark-paid", invoiceHandler.MarkPaid)
	invoices.Post("/:number/duplicate", invoiceHandler.Duplicate)
	invoices.Post("/:number/void", invoiceHandler.Void)

	company := api.Group("/company-settings", requireAuth)
	company.Get("/", companyHandler.Get)
	company.Post("/", companyHandler.Save)

	user := api.Group("/user", requireAuth)
	user.Get("/profile", userHandler.Profile)
	user.Put("/profile", userHandler.UpdateProfile)
	user.Put("/email", userHandler.UpdateEmail)
	user.Put("/password", userHandler.UpdatePassword)
	user.Post("/photo", userHandler.UpdatePhoto)

	// Admin (JWT + rol admin)
	admin := api.Group("/admin", requireAuth, RequireRole(entity.RoleAdmin))
	admin.Get("/users", userHandler.List)
	admin.Post("/users", userHandler.Create)
	admin.Get("/users/:id", userHandler.Get)
	admin.Put("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)
	admin.Get("/invoices", invoiceHandler.AdminList)
	admin.Get("/invoices/recent", invoiceHandler.AdminRecent)
	admin.Delete("/invoices/:id", invoiceHandler.AdminDelete)
	admin.Get("/customers", customerHandler.AdminList)
	admin.Delete("/customers/:id", customerHandler.AdminDelete)
	admin.Get("/stats", analyticsHandler.AdminStats)
	admin.Get("/dashboard-summary", dashboardHandler.GetSummary)
	admin.Get("/activity-logs", activityHandler.List)
	admin.Put("/company-settings/white-label", companyHandler.WhiteLabel)
}

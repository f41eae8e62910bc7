package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/logicielhub-api/internal/application/analytics"
	"github.com/jhoicas/logicielhub-api/internal/application/auth"
	"github.com/jhoicas/logicielhub-api/internal/application/catalog"
	"github.com/jhoicas/logicielhub-api/internal/application/onboarding"
	"github.com/jhoicas/logicielhub-api/internal/application/ports"
	"github.com/jhoicas/logicielhub-api/internal/application/requests"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	Hub              *session.Hub
	SessionHeartbeat time.Duration
	OnboardingUC     *onboarding.OnboardingUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	CatalogUC        *catalog.CatalogUseCase
	RequestUC        *requests.RequestUseCase
	AnalyticsUC      *appanalytics.AnalyticsUseCase
	SettingsUC       *usecase.SettingsUseCase
	NotificationUC   *usecase.NotificationUseCase
	JWTSecret        string
	Revoked          ports.TokenStore // opcional
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", MetricsMiddleware())
	authRequired := AuthMiddleware(deps.JWTSecret, deps.Revoked)

	// Auth (público salvo logout)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authRequired, authHandler.Logout)

	// Sesión: aceptan anónimos (estado unauthenticated)
	sessions := api.Group("/session")
	sessionHandler := NewSessionHandler(deps.Hub, deps.SessionHeartbeat)
	sessions.Get("/", OptionalAuth(deps.JWTSecret, deps.Revoked), sessionHandler.Get)
	sessions.Get("/stream", StreamAuth(deps.JWTSecret, deps.Revoked), sessionHandler.Stream)

	// Onboarding: autenticado, todavía sin empresa
	onb := api.Group("/onboarding", authRequired)
	onboardingHandler := NewOnboardingHandler(deps.OnboardingUC)
	onb.Post("/company", onboardingHandler.Company)
	onb.Post("/software", onboardingHandler.Software)
	onb.Post("/invite", onboardingHandler.Invite)

	// Rutas protegidas (Bearer Token + empresa)
	protected := api.Group("/", authRequired, RequireCompany())
	adminOnly := RequireRole(entity.RoleAdmin)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	software := protected.Group("/software")
	softwareHandler := NewSoftwareHandler(deps.CatalogUC)
	software.Get("/", softwareHandler.List)
	software.Post("/", softwareHandler.Create)
	software.Get("/:id", softwareHandler.GetByID)
	software.Put("/:id", softwareHandler.Update)
	software.Put("/:id/review", softwareHandler.SaveReview)

	reqs := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	reqs.Get("/", requestHandler.List)
	reqs.Post("/", requestHandler.Create)
	reqs.Post("/:id/vote", requestHandler.Vote)
	reqs.Patch("/:id/status", adminOnly, requestHandler.SetStatus)

	analytics := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analytics.Get("/", analyticsHandler.GetReport)
	analytics.Get("/report.pdf", analyticsHandler.ReportPDF)

	settings := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/", settingsHandler.Get)
	settings.Post("/departments", adminOnly, settingsHandler.CreateDepartment)

	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
}

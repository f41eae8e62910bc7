package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/logicielhub-api/docs"
	appanalytics "github.com/jhoicas/logicielhub-api/internal/application/analytics"
	"github.com/jhoicas/logicielhub-api/internal/application/auth"
	"github.com/jhoicas/logicielhub-api/internal/application/catalog"
	"github.com/jhoicas/logicielhub-api/internal/application/onboarding"
	"github.com/jhoicas/logicielhub-api/internal/application/ports"
	"github.com/jhoicas/logicielhub-api/internal/application/requests"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/logicielhub-api/internal/infrastructure/pdf"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/tokenstore"
	httpRouter "github.com/jhoicas/logicielhub-api/internal/interfaces/http"
	"github.com/jhoicas/logicielhub-api/pkg/config"
	"github.com/jhoicas/logicielhub-api/pkg/logger"
)

// @title                       LogicielHub API
// @version                     1.0
// @description                 API de gestión de activos de software: catálogo, contratos, solicitudes, reseñas y analítica de costes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Lista de tokens revocados: Redis si está configurado, si no en memoria (una instancia).
	var revoked ports.TokenStore
	if cfg.Redis.URL != "" {
		redisStore, err := tokenstore.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		revoked = redisStore
	} else {
		log.Warn().Msg("REDIS_URL vacío: revocación de tokens en memoria")
		revoked = tokenstore.NewMemoryStore()
	}

	gate := session.NewGate(repos.Users, repos.Companies, log.Component("session"))
	hub := session.NewHub(gate, log.Component("session"))

	authUC := auth.NewAuthUseCase(repos.Users, revoked, hub, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	notificationUC := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, log.Component("notifications"))
	loader := usecase.NewCatalogLoader(repos.Software, repos.Contracts, repos.Reviews, repos.Usage)

	onboardingUC := onboarding.NewOnboardingUseCase(repos.Users, txRunner, authUC, notificationUC, hub, log.Component("onboarding"))
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Software, repos.Contracts, repos.Requests, repos.Users, log.Component("dashboard"))
	catalogUC := catalog.NewCatalogUseCase(loader, repos.Software, repos.Contracts, repos.Reviews, txRunner, log.Component("catalog"))
	requestUC := requests.NewRequestUseCase(repos.Requests, repos.Votes, repos.Users, txRunner, notificationUC, log.Component("requests"))
	settingsUC := usecase.NewSettingsUseCase(repos.Companies, repos.Departments, repos.Users, log.Component("settings"))

	// PDF: informe de costes
	pdfRenderer := infrapdf.NewMarotoReportRenderer()
	analyticsUC := appanalytics.NewAnalyticsUseCase(loader, repos.Companies, pdfRenderer, log.Component("analytics"))

	// Tarea diaria de avisos de vencimiento de contratos.
	var jobs *scheduler.Scheduler
	if cfg.Jobs.Enabled {
		expiry := usecase.NewExpiryNotifier(
			repos.Companies, repos.Software, repos.Contracts, repos.Users,
			repos.Notifications, notificationUC, log.Component("expiry"),
		)
		jobs, err = scheduler.New(cfg.Jobs.ExpiryCron, expiry, log.Component("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("programación JOBS_EXPIRY_CRON")
		}
		jobs.Start()
		log.Info().Time("next", jobs.Next()).Msg("avisos de vencimiento programados")
	}

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: /api/session/stream mantiene la respuesta abierta.
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LogicielHub API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		Hub:              hub,
		SessionHeartbeat: 25 * time.Second,
		OnboardingUC:     onboardingUC,
		DashboardUC:      dashboardUC,
		CatalogUC:        catalogUC,
		RequestUC:        requestUC,
		AnalyticsUC:      analyticsUC,
		SettingsUC:       settingsUC,
		NotificationUC:   notificationUC,
		JWTSecret:        cfg.JWT.Secret,
		Revoked:          revoked,
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

	// Cerrar el hub primero libera los streams SSE abiertos.
	hub.Close()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if jobs != nil {
		jobs.Stop(shutdownCtx)
	}

	log.Info().Msg("aplicación detenida")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/decoracionesmori/gestion-api/internal/application/auth"
	"github.com/decoracionesmori/gestion-api/internal/application/billing"
	"github.com/decoracionesmori/gestion-api/internal/application/catalog"
	"github.com/decoracionesmori/gestion-api/internal/application/clients"
	"github.com/decoracionesmori/gestion-api/internal/application/inventory"
	"github.com/decoracionesmori/gestion-api/internal/application/scheduling"
	"github.com/decoracionesmori/gestion-api/internal/infrastructure/identity"
	"github.com/decoracionesmori/gestion-api/internal/infrastructure/notification"
	"github.com/decoracionesmori/gestion-api/internal/infrastructure/postgres"
	httpRouter "github.com/decoracionesmori/gestion-api/internal/interfaces/http"
	"github.com/decoracionesmori/gestion-api/pkg/config"
	"github.com/decoracionesmori/gestion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Repositorios sobre el pool (lecturas y escrituras sueltas)
	workDayRepo := postgres.NewWorkDayRuleRepository(pool)
	scheduledDayRepo := postgres.NewScheduledDayRepository(pool)
	apptRepo := postgres.NewAppointmentRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	svcRepo := postgres.NewServiceRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	statusRepo := postgres.NewInventoryStatusRepository(pool)

	// Colaboradores externos
	zl := log.Zerolog()
	notifier := notification.NewLogSender(zl)
	identityClient := identity.NewClient(cfg.Identity)

	// Casos de uso
	calendar := scheduling.NewCalendarResolver(scheduledDayRepo, workDayRepo)
	schedUC := scheduling.NewSchedulingService(
		cfg.Scheduling, calendar, postgres.NewSchedulingTxRunner(pool),
		apptRepo, svcRepo, notifier, zl,
	)
	scheduleAdmin := scheduling.NewScheduleAdmin(workDayRepo, scheduledDayRepo, calendar)
	inventoryUC := inventory.NewInventoryService(
		postgres.NewInventoryTxRunner(pool), movRepo, statusRepo, productRepo, zl,
	)
	billingUC := billing.NewBillingService(
		cfg.Billing, postgres.NewBillingTxRunner(pool),
		invoiceRepo, clientRepo, svcRepo, productRepo,
		inventoryUC, notifier, zl,
	)
	clientUC := clients.NewClientUseCase(clientRepo, identityClient, zl)
	catalogUC := catalog.NewCatalogUseCase(svcRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, clientRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Decoraciones Mori API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthHandler:        httpRouter.NewAuthHandler(authUC),
		AppointmentHandler: httpRouter.NewAppointmentHandler(schedUC, clientUC, authUC),
		ScheduleHandler:    httpRouter.NewScheduleHandler(scheduleAdmin),
		InvoiceHandler:     httpRouter.NewInvoiceHandler(billingUC),
		InventoryHandler:   httpRouter.NewInventoryHandler(inventoryUC),
		ClientHandler:      httpRouter.NewClientHandler(clientUC),
		CatalogHandler:     httpRouter.NewCatalogHandler(catalogUC),
		JWTSecret:          cfg.JWT.Secret,
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

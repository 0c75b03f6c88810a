package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-sync/internal/application/auth"
	"github.com/jhoicas/inventario-sync/internal/application/inventory"
	"github.com/jhoicas/inventario-sync/internal/application/ports"
	"github.com/jhoicas/inventario-sync/internal/application/usecase"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	infraai "github.com/jhoicas/inventario-sync/internal/infrastructure/ai"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-sync/internal/interfaces/http"
	"github.com/jhoicas/inventario-sync/pkg/config"
	"github.com/jhoicas/inventario-sync/pkg/logger"
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backend del almacén de artículos según driver
	var (
		col      repository.CollectionStore
		userRepo repository.UserRepository
	)
	switch cfg.DB.Driver {
	case "memory":
		col = memstore.New()
		userRepo = memstore.NewUserRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de base de datos")
		}
		col = postgres.NewCollectionStore(pool, log)
		userRepo = postgres.NewUserRepository(pool)
	}

	locale, err := language.Parse(cfg.Sync.Locale)
	if err != nil {
		log.Warn().Str("locale", cfg.Sync.Locale).Msg("locale inválido, usando es")
		locale = language.Spanish
	}

	// Un Store (suscripción + vista + notificación + categorías) por sesión
	stores := inventory.NewManager(ctx, func(ownerID string) *inventory.Store {
		return inventory.NewStore(ownerID, col, log, inventory.Options{
			Locale:     locale,
			Categories: cfg.Sync.Categories,
		})
	})

	var extractor ports.ExtractorService
	switch cfg.AI.Provider {
	case "gemini":
		extractor = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	default:
		extractor = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}

	ingestUC := usecase.NewIngestUseCase(extractor, stores)
	dashboardUC := usecase.NewDashboardUseCase(stores)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
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

	httpRouter.Router(app, httpRouter.RouterDeps{
		Stores:      stores,
		IngestUC:    ingestUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("escuchando")

	<-ctx.Done()
	log.Info().Msg("apagando: cerrando suscripciones y servidor")
	stores.CloseAll()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}

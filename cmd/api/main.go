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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/Cotizador-api/docs"
	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/catalogfile"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Cotizador-api/internal/infrastructure/redis"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/xmlquote"
	httpRouter "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/Cotizador-api/pkg/config"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

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
		Str("catalog_source", cfg.Catalog.Source).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// PostgreSQL es opcional: sin él no hay configuraciones guardadas ni catálogo en BD.
	var pool *pgxpool.Pool
	if cfg.DB.Enabled() {
		if cfg.DB.Migrate {
			version, err := postgres.RunMigrations(cfg.DB)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Uint("version", version).Msg("migraciones aplicadas")
		}
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
	}

	var source repository.CatalogRepository
	switch cfg.Catalog.Source {
	case "file":
		source = catalogfile.NewLoader(cfg.Catalog.Path)
	case "postgres":
		source = postgres.NewCatalogRepository(pool)
	}
	cat := catalog.Default()
	if source != nil {
		cat, err = source.LoadCatalog(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("cargar catálogo de precios")
		}
	}
	log.Info().Int("departments", len(cat.Departments())).Int("tiers", len(cat.GetTiers())).Msg("catálogo cargado")

	defaults, err := pricing.ResolveDefaults(cat, cfg.Pricing.DefaultCycle, cfg.Pricing.DefaultCurrency, cfg.Pricing.DefaultTier, cfg.Pricing.ShowContactUs)
	if err != nil {
		log.Fatal().Err(err).Msg("valores iniciales de cotización")
	}

	// Sesiones: Redis si está configurado (varias instancias), si no en memoria.
	var store pricing.SessionStore
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		store = infraredis.NewSessionStore(client, "", cfg.Session.TTL)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: sesiones en memoria")
		store = memory.NewSessionStore(cfg.Session.TTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sessions, err := pricing.NewSessionService(pricing.SessionServiceDeps{
		Catalog:  cat,
		Store:    store,
		Defaults: defaults,
		Metrics:  m,
		Logger:   log.Zerolog(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de sesiones")
	}

	quotes := quote.NewUseCase(sessions, infrapdf.NewMarotoPDFGenerator(), xmlquote.NewRenderer(), cfg.Quote.Issuer, cfg.Quote.TaxRate)

	var savedConfigs *pricing.SavedConfigurationUseCase
	if pool != nil {
		savedConfigs = pricing.NewSavedConfigurationUseCase(postgres.NewSavedConfigurationRepository(pool), sessions)
	}

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
		Title:    "Cotizador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:     sessions,
		Quotes:       quotes,
		SavedConfigs: savedConfigs,
		Metrics:      m,
		Gatherer:     reg,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
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

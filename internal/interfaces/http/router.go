package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Cotizador-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions     *pricing.SessionService
	Quotes       *quote.UseCase
	SavedConfigs *pricing.SavedConfigurationUseCase // nil sin base de datos
	Metrics      *metrics.Metrics                   // opcional
	Gatherer     prometheus.Gatherer                // opcional, expone /metrics
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Catálogo y sesiones de cotización (público)
	catalogHandler := NewCatalogHandler(deps.Sessions.Catalog())
	api.Get("/pricing/catalog", catalogHandler.Get)
	api.Get("/pricing/tiers", catalogHandler.Tiers)

	sessions := api.Group("/pricing/sessions")
	pricingHandler := NewPricingHandler(deps.Sessions)
	sessions.Post("/", pricingHandler.Create)
	sessions.Post("/from-snapshot", pricingHandler.CreateFromSnapshot)
	sessions.Get("/:id", pricingHandler.Get)
	sessions.Delete("/:id", pricingHandler.Delete)
	sessions.Post("/:id/modules/toggle", pricingHandler.ToggleModule)
	sessions.Put("/:id/modules/:moduleId/quantity", pricingHandler.SetQuantity)
	sessions.Post("/:id/integrations/toggle", pricingHandler.ToggleIntegration)
	sessions.Put("/:id/cycle", pricingHandler.SetCycle)
	sessions.Put("/:id/currency", pricingHandler.SetCurrency)
	sessions.Put("/:id/tier", pricingHandler.SetTier)
	sessions.Put("/:id/contact-us", pricingHandler.SetContactUs)
	sessions.Post("/:id/reset", pricingHandler.Reset)
	sessions.Get("/:id/snapshot", pricingHandler.ExportSnapshot)
	sessions.Put("/:id/snapshot", pricingHandler.RestoreSnapshot)

	// Cotizaciones
	if deps.Quotes != nil {
		quoteHandler := NewQuoteHandler(deps.Quotes)
		sessions.Get("/:id/pdf", quoteHandler.SessionPDF)
		sessions.Get("/:id/xml", quoteHandler.SessionXML)
		api.Post("/quotes/totals", quoteHandler.Totals)
	}

	// Configuraciones guardadas (requieren Bearer Token y base de datos)
	if deps.SavedConfigs != nil {
		configs := api.Group("/configurations", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
		configHandler := NewSavedConfigurationHandler(deps.SavedConfigs)
		writers := RequireRole(jwt.RoleAdmin, jwt.RoleSales)
		readers := RequireRole(jwt.RoleAdmin, jwt.RoleSales, jwt.RoleViewer)
		configs.Post("/", writers, configHandler.Save)
		configs.Get("/", readers, configHandler.List)
		configs.Get("/:id", readers, configHandler.Get)
		configs.Post("/:id/open", readers, configHandler.Open)
		configs.Delete("/:id", writers, configHandler.Delete)
	}
}

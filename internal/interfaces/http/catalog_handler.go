package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// CatalogHandler expone el catálogo de precios vigente (solo lectura).
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// Get godoc
// @Summary      Catálogo de precios
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/pricing/catalog [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	out := dto.CatalogResponse{
		Departments:   make([]dto.CatalogDepartment, 0),
		Tiers:         tierResponses(h.catalog.GetTiers()),
		ExchangeRates: make(map[string]decimal.Decimal),
	}
	for cur, rate := range h.catalog.ExchangeRates() {
		out.ExchangeRates[string(cur)] = rate
	}
	for _, d := range h.catalog.Departments() {
		dept := dto.CatalogDepartment{ID: d.ID, Name: d.Name, Modules: make([]dto.ModuleCatalog, 0)}
		for _, m := range h.catalog.ModulesByDepartment(d.ID) {
			dept.Modules = append(dept.Modules, moduleCatalog(m))
		}
		out.Departments = append(out.Departments, dept)
	}
	return c.JSON(out)
}

// Tiers godoc
// @Summary      Planes de precios
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.TierResponse
// @Router       /api/pricing/tiers [get]
func (h *CatalogHandler) Tiers(c *fiber.Ctx) error {
	return c.JSON(tierResponses(h.catalog.GetTiers()))
}

func tierResponses(tiers []entity.Tier) []dto.TierResponse {
	out := make([]dto.TierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, dto.TierResponse{Name: t.Name, BasePrice: t.BasePrice, Discount: t.Discount})
	}
	return out
}

func moduleCatalog(m entity.Module) dto.ModuleCatalog {
	mc := dto.ModuleCatalog{
		ID:                 m.ID,
		Name:               m.Name,
		Unit:               m.Unit,
		MinQuantity:        m.MinQuantity,
		MaxQuantity:        m.MaxQuantity,
		Step:               m.EffectiveStep(),
		FreeUnits:          m.FreeUnits,
		ContactUsThreshold: m.ContactUsThreshold,
		MonthlyPrice:       m.MonthlyPrice,
		AnnualPrice:        m.AnnualPrice,
		Integrations:       make([]dto.IntegrationCatalog, 0, len(m.Integrations)),
	}
	for _, in := range m.Integrations {
		mc.Integrations = append(mc.Integrations, dto.IntegrationCatalog{
			ID:           in.ID,
			Name:         in.Name,
			PricingType:  in.PricingType,
			MonthlyPrice: in.MonthlyPrice,
			AnnualPrice:  in.AnnualPrice,
		})
	}
	return mc
}

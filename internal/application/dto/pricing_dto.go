package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/pkg/money"
)

// ToggleModuleRequest body para POST /api/pricing/sessions/:id/modules/toggle.
type ToggleModuleRequest struct {
	ModuleID     string `json:"module_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// SetQuantityRequest body para PUT /api/pricing/sessions/:id/modules/:moduleId/quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ToggleIntegrationRequest body para POST /api/pricing/sessions/:id/integrations/toggle.
type ToggleIntegrationRequest struct {
	DepartmentID  string `json:"department_id" validate:"required"`
	ModuleID      string `json:"module_id" validate:"required"`
	IntegrationID string `json:"integration_id" validate:"required"`
}

// SetCycleRequest body para PUT /api/pricing/sessions/:id/cycle.
type SetCycleRequest struct {
	Cycle string `json:"cycle" validate:"required"`
}

// SetCurrencyRequest body para PUT /api/pricing/sessions/:id/currency.
type SetCurrencyRequest struct {
	Currency string `json:"currency" validate:"required"`
}

// SetTierRequest body para PUT /api/pricing/sessions/:id/tier.
type SetTierRequest struct {
	TierName string `json:"tier_name" validate:"required"`
}

// SetContactUsRequest body para PUT /api/pricing/sessions/:id/contact-us.
type SetContactUsRequest struct {
	ShowContactUs bool `json:"show_contact_us"`
}

// SessionResponse estado y desglose de una sesión de cotización.
type SessionResponse struct {
	ID        string            `json:"id"`
	Changed   bool              `json:"changed"`
	Snapshot  entity.Snapshot   `json:"snapshot"`
	Breakdown BreakdownResponse `json:"breakdown"`
	Restore   interface{}       `json:"restore,omitempty"`
}

// BreakdownResponse desglose línea a línea. Los montos por línea van sin redondear;
// los campos *_display ya vienen formateados (líneas a 2 decimales, total entero).
type BreakdownResponse struct {
	Cycle              string                `json:"cycle"`
	Currency           string                `json:"currency"`
	TierName           string                `json:"tier_name"`
	TierBasePrice      decimal.Decimal       `json:"tier_base_price"`
	Departments        []DepartmentBreakdown `json:"departments"`
	ModulesPrice       decimal.Decimal       `json:"modules_price"`
	PreDiscount        decimal.Decimal       `json:"pre_discount"`
	DiscountRate       decimal.Decimal       `json:"discount_rate"`
	DiscountAmount     decimal.Decimal       `json:"discount_amount"`
	Total              decimal.Decimal       `json:"total"`
	TotalDisplay       string                `json:"total_display"`
	ShowContactUs      bool                  `json:"show_contact_us"`
	HasContactUsModule bool                  `json:"has_contact_us_module"`
}

// DepartmentBreakdown subtotal por departamento.
type DepartmentBreakdown struct {
	DepartmentID    string            `json:"department_id"`
	Name            string            `json:"name"`
	Modules         []ModuleBreakdown `json:"modules"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	SubtotalDisplay string            `json:"subtotal_display"`
}

// ModuleBreakdown línea de módulo. Con contact_us=true el precio no debe mostrarse.
type ModuleBreakdown struct {
	ModuleID           string                 `json:"module_id"`
	Name               string                 `json:"name"`
	Unit               string                 `json:"unit"`
	Quantity           int                    `json:"quantity"`
	ChargeableQuantity int                    `json:"chargeable_quantity"`
	UnitPrice          decimal.Decimal        `json:"unit_price"`
	BasePrice          decimal.Decimal        `json:"base_price"`
	Integrations       []IntegrationBreakdown `json:"integrations"`
	Total              decimal.Decimal        `json:"total"`
	TotalDisplay       string                 `json:"total_display"`
	ContactUs          bool                   `json:"contact_us"`
}

// IntegrationBreakdown línea de integración.
type IntegrationBreakdown struct {
	IntegrationID string          `json:"integration_id"`
	Name          string          `json:"name"`
	PricingType   string          `json:"pricing_type"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amount_display"`
}

// NewBreakdownResponse mapea el desglose de dominio a la respuesta HTTP.
func NewBreakdownResponse(b entity.PriceBreakdown) BreakdownResponse {
	cur := string(b.Currency)
	out := BreakdownResponse{
		Cycle:              string(b.Cycle),
		Currency:           cur,
		TierName:           b.TierName,
		TierBasePrice:      b.TierBasePrice,
		Departments:        make([]DepartmentBreakdown, 0, len(b.Departments)),
		ModulesPrice:       b.ModulesPrice,
		PreDiscount:        b.PreDiscount,
		DiscountRate:       b.DiscountRate,
		DiscountAmount:     b.DiscountAmount,
		Total:              b.Total,
		TotalDisplay:       money.Total(b.Total, cur),
		ShowContactUs:      b.ShowContactUs,
		HasContactUsModule: b.HasContactUsModule(),
	}
	for _, d := range b.Departments {
		dept := DepartmentBreakdown{
			DepartmentID:    d.DepartmentID,
			Name:            d.Name,
			Modules:         make([]ModuleBreakdown, 0, len(d.Modules)),
			Subtotal:        d.Subtotal,
			SubtotalDisplay: money.Line(d.Subtotal, cur),
		}
		for _, m := range d.Modules {
			mod := ModuleBreakdown{
				ModuleID:           m.ModuleID,
				Name:               m.Name,
				Unit:               m.Unit,
				Quantity:           m.Quantity,
				ChargeableQuantity: m.ChargeableQuantity,
				UnitPrice:          m.UnitPrice,
				BasePrice:          m.BasePrice,
				Integrations:       make([]IntegrationBreakdown, 0, len(m.Integrations)),
				Total:              m.Total,
				TotalDisplay:       money.Line(m.Total, cur),
				ContactUs:          m.ContactUs,
			}
			for _, in := range m.Integrations {
				mod.Integrations = append(mod.Integrations, IntegrationBreakdown{
					IntegrationID: in.IntegrationID,
					Name:          in.Name,
					PricingType:   in.PricingType,
					UnitPrice:     in.UnitPrice,
					Amount:        in.Amount,
					AmountDisplay: money.Line(in.Amount, cur),
				})
			}
			dept.Modules = append(dept.Modules, mod)
		}
		out.Departments = append(out.Departments, dept)
	}
	return out
}

// CatalogResponse catálogo para GET /api/pricing/catalog.
type CatalogResponse struct {
	Departments   []CatalogDepartment        `json:"departments"`
	Tiers         []TierResponse             `json:"tiers"`
	ExchangeRates map[string]decimal.Decimal `json:"exchange_rates,omitempty"`
}

// CatalogDepartment departamento con sus módulos.
type CatalogDepartment struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Modules []ModuleCatalog `json:"modules"`
}

// ModuleCatalog definición de módulo.
type ModuleCatalog struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Unit               string               `json:"unit"`
	MinQuantity        int                  `json:"min_quantity"`
	MaxQuantity        int                  `json:"max_quantity"`
	Step               int                  `json:"step"`
	FreeUnits          int                  `json:"free_units"`
	ContactUsThreshold *int                 `json:"contact_us_threshold,omitempty"`
	MonthlyPrice       decimal.Decimal      `json:"monthly_price"`
	AnnualPrice        decimal.Decimal      `json:"annual_price"`
	Integrations       []IntegrationCatalog `json:"integrations"`
}

// IntegrationCatalog definición de integración.
type IntegrationCatalog struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PricingType  string          `json:"pricing_type"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	AnnualPrice  decimal.Decimal `json:"annual_price"`
}

// TierResponse plan de precios.
type TierResponse struct {
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// SaveConfigurationRequest body para POST /api/configurations.
type SaveConfigurationRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
}

// SavedConfigurationResponse configuración guardada.
type SavedConfigurationResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Snapshot  entity.Snapshot `json:"snapshot"`
	Total     int64           `json:"total"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// SavedConfigurationListResponse lista paginada.
type SavedConfigurationListResponse struct {
	Items []SavedConfigurationResponse `json:"items"`
	Page  PageResponse                 `json:"page"`
}

// QuoteTotalsRequest body para POST /api/quotes/totals.
type QuoteTotalsRequest struct {
	Currency string                 `json:"currency" validate:"omitempty,oneof=sar usd"`
	TaxRate  decimal.Decimal        `json:"tax_rate"`
	Items    []QuoteLineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QuoteLineItemRequest línea de cotización.
type QuoteLineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// QuoteTotalsResponse totales de la cotización.
type QuoteTotalsResponse struct {
	Currency     string              `json:"currency"`
	Lines        []QuoteLineResponse `json:"lines"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TaxRate      decimal.Decimal     `json:"tax_rate"`
	TaxAmount    decimal.Decimal     `json:"tax_amount"`
	Total        decimal.Decimal     `json:"total"`
	TotalDisplay string              `json:"total_display"`
}

// QuoteLineResponse línea con su monto.
type QuoteLineResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewQuoteTotalsResponse mapea los totales de dominio; currency vacío = sar.
func NewQuoteTotalsResponse(t entity.QuoteTotals, currency string) QuoteTotalsResponse {
	if currency == "" {
		currency = string(entity.CurrencySAR)
	}
	out := QuoteTotalsResponse{
		Currency:     currency,
		Lines:        make([]QuoteLineResponse, 0, len(t.Lines)),
		Subtotal:     t.Subtotal,
		TaxRate:      t.TaxRate,
		TaxAmount:    t.TaxAmount,
		Total:        t.Total,
		TotalDisplay: money.Line(t.Total, currency),
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, QuoteLineResponse{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	return out
}

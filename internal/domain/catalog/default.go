package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// Precios del catálogo por defecto expresados en SAR (moneda base).
// USD se obtiene con la paridad fija SAR→USD.
var defaultUSDRate = decimal.RequireFromString("0.2667")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func threshold(n int) *int { return &n }

// DefaultDepartments departamentos del catálogo por defecto.
func DefaultDepartments() []entity.Department {
	return []entity.Department{
		{ID: "hr", Name: "Recursos Humanos"},
		{ID: "finance", Name: "Finanzas"},
		{ID: "sales", Name: "Ventas y CRM"},
		{ID: "operations", Name: "Operaciones"},
	}
}

// DefaultModules módulos del catálogo por defecto.
func DefaultModules() []entity.Module {
	return []entity.Module{
		{
			ID: "employees", Category: "hr", Name: "Gestión de empleados", Unit: "empleados",
			MinQuantity: 5, MaxQuantity: 1000, Step: 5, FreeUnits: 5,
			ContactUsThreshold: threshold(500),
			MonthlyPrice:       dec("25"), AnnualPrice: dec("250"),
			Integrations: []entity.Integration{
				{ID: "biometric", Name: "Reloj biométrico", PricingType: entity.PricingTypeFixed, MonthlyPrice: dec("50"), AnnualPrice: dec("500")},
				{ID: "gosi", Name: "Sincronización GOSI", PricingType: entity.PricingTypePerUnit, MonthlyPrice: dec("2.5"), AnnualPrice: dec("25")},
			},
		},
		{
			ID: "payroll", Category: "hr", Name: "Nómina", Unit: "empleados",
			MinQuantity: 10, MaxQuantity: 2000, Step: 10,
			ContactUsThreshold: threshold(1000),
			MonthlyPrice:       dec("40"), AnnualPrice: dec("400"),
			Integrations: []entity.Integration{
				{ID: "wps", Name: "Archivo WPS bancario", PricingType: entity.PricingTypeFixed, MonthlyPrice: dec("75"), AnnualPrice: dec("750")},
			},
		},
		{
			ID: "invoicing", Category: "finance", Name: "Facturación electrónica", Unit: "facturas",
			MinQuantity: 100, MaxQuantity: 100000, Step: 100, FreeUnits: 100,
			ContactUsThreshold: threshold(50000),
			MonthlyPrice:       dec("15"), AnnualPrice: dec("150"),
			Integrations: []entity.Integration{
				{ID: "zatca", Name: "Integración ZATCA", PricingType: entity.PricingTypeFixed, MonthlyPrice: dec("99"), AnnualPrice: dec("990")},
				{ID: "payment-gateway", Name: "Pasarela de pagos", PricingType: entity.PricingTypePerUnit, MonthlyPrice: dec("3"), AnnualPrice: dec("30")},
			},
		},
		{
			ID: "accounting", Category: "finance", Name: "Contabilidad", Unit: "usuarios",
			MinQuantity: 1, MaxQuantity: 50, Step: 1,
			MonthlyPrice: dec("60"), AnnualPrice: dec("600"),
		},
		{
			ID: "crm", Category: "sales", Name: "CRM", Unit: "usuarios",
			MinQuantity: 1, MaxQuantity: 200, Step: 1, FreeUnits: 2,
			ContactUsThreshold: threshold(100),
			MonthlyPrice:       dec("35"), AnnualPrice: dec("350"),
			Integrations: []entity.Integration{
				{ID: "whatsapp", Name: "WhatsApp Business", PricingType: entity.PricingTypePerUnit, MonthlyPrice: dec("10"), AnnualPrice: dec("100")},
				{ID: "email-campaigns", Name: "Campañas de correo", PricingType: entity.PricingTypeFixed, MonthlyPrice: dec("45"), AnnualPrice: dec("450")},
			},
		},
		{
			ID: "quotes", Category: "sales", Name: "Cotizaciones", Unit: "usuarios",
			MaxQuantity: 100, Step: 1,
			MonthlyPrice: dec("20"), AnnualPrice: dec("200"),
		},
		{
			ID: "inventory", Category: "operations", Name: "Inventario", Unit: "bodegas",
			MinQuantity: 1, MaxQuantity: 20, Step: 1,
			ContactUsThreshold: threshold(10),
			MonthlyPrice:       dec("80"), AnnualPrice: dec("800"),
			Integrations: []entity.Integration{
				{ID: "barcode", Name: "Lectores de código de barras", PricingType: entity.PricingTypePerUnit, MonthlyPrice: dec("12"), AnnualPrice: dec("120")},
			},
		},
	}
}

// DefaultTiers planes del catálogo por defecto.
func DefaultTiers() []entity.Tier {
	return []entity.Tier{
		{Name: "starter", BasePrice: dec("0"), Discount: dec("0")},
		{Name: "growth", BasePrice: dec("199"), Discount: dec("0.10")},
		{Name: "enterprise", BasePrice: dec("799"), Discount: dec("0.20")},
	}
}

// Default construye el catálogo por defecto. Los datos son estáticos y válidos;
// un error aquí indica un defecto de programación.
func Default() *Catalog {
	c, err := New(DefaultDepartments(), DefaultModules(), DefaultTiers(),
		WithExchangeRates(map[entity.Currency]decimal.Decimal{
			entity.CurrencyUSD: defaultUSDRate,
		}),
	)
	if err != nil {
		panic("catalog: catálogo por defecto inválido: " + err.Error())
	}
	return c
}

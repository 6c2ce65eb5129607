package entity

import "github.com/shopspring/decimal"

// PriceBreakdown desglose completo de una cotización.
// Los montos por línea no se redondean; solo Total se redondea a la unidad.
type PriceBreakdown struct {
	Cycle          Cycle
	Currency       Currency
	TierName       string
	TierBasePrice  decimal.Decimal
	Departments    []DepartmentBreakdown
	ModulesPrice   decimal.Decimal
	PreDiscount    decimal.Decimal
	DiscountRate   decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	ShowContactUs  bool // bandera global, fijada externamente (no se deriva de los módulos)
}

// DepartmentBreakdown subtotal por departamento.
type DepartmentBreakdown struct {
	DepartmentID string
	Name         string
	Modules      []ModuleBreakdown
	Subtotal     decimal.Decimal
}

// ModuleBreakdown línea de un módulo seleccionado.
type ModuleBreakdown struct {
	ModuleID           string
	Name               string
	Unit               string
	Quantity           int
	ChargeableQuantity int
	UnitPrice          decimal.Decimal // precio por paso, ya convertido a la moneda
	BasePrice          decimal.Decimal
	Integrations       []IntegrationBreakdown
	Total              decimal.Decimal
	ContactUs          bool
}

// IntegrationBreakdown línea de una integración activada.
type IntegrationBreakdown struct {
	IntegrationID string
	Name          string
	PricingType   string
	UnitPrice     decimal.Decimal
	Amount        decimal.Decimal
}

// HasContactUsModule informa si algún módulo cruzó su umbral de "contáctenos".
// No altera ShowContactUs: ambos mecanismos son independientes.
func (b PriceBreakdown) HasContactUsModule() bool {
	for _, d := range b.Departments {
		for _, m := range d.Modules {
			if m.ContactUs {
				return true
			}
		}
	}
	return false
}

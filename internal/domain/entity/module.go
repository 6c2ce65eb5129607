package entity

import "github.com/shopspring/decimal"

// Tipos de cobro de una integración.
const (
	PricingTypeFixed   = "fixed"    // Monto plano una vez por ciclo
	PricingTypePerUnit = "per_unit" // Escala con la cantidad del módulo
)

// Module representa una capacidad comprable del catálogo, con precio por cantidad.
// MonthlyPrice y AnnualPrice son el precio por cada Step unidades.
type Module struct {
	ID                 string
	Category           string // ID del departamento al que pertenece
	Name               string
	Unit               string // unidad de despliegue, ej. "usuarios"
	MinQuantity        int    // 0 = no definido (se usa Step)
	MaxQuantity        int
	Step               int
	FreeUnits          int
	ContactUsThreshold *int // nil = nunca
	MonthlyPrice       decimal.Decimal
	AnnualPrice        decimal.Decimal
	Integrations       []Integration
}

// Integration complemento opcional asociado a un único módulo.
type Integration struct {
	ID           string
	Name         string
	PricingType  string // fixed | per_unit
	MonthlyPrice decimal.Decimal
	AnnualPrice  decimal.Decimal
}

// EffectiveStep devuelve el paso de cantidad; valores no positivos equivalen a 1.
func (m Module) EffectiveStep() int {
	if m.Step <= 0 {
		return 1
	}
	return m.Step
}

// DefaultQuantity cantidad inicial al activar el módulo: MinQuantity tiene precedencia sobre Step.
func (m Module) DefaultQuantity() int {
	if m.MinQuantity > 0 {
		return m.MinQuantity
	}
	return m.EffectiveStep()
}

// PriceFor devuelve el precio por paso para el ciclo indicado.
func (m Module) PriceFor(cycle Cycle) decimal.Decimal {
	if cycle == CycleAnnual {
		return m.AnnualPrice
	}
	return m.MonthlyPrice
}

// Integration busca una integración propia del módulo.
func (m Module) Integration(id string) (Integration, bool) {
	for _, in := range m.Integrations {
		if in.ID == id {
			return in, true
		}
	}
	return Integration{}, false
}

// PriceFor devuelve el precio de la integración para el ciclo indicado.
func (i Integration) PriceFor(cycle Cycle) decimal.Decimal {
	if cycle == CycleAnnual {
		return i.AnnualPrice
	}
	return i.MonthlyPrice
}

// Department agrupación organizativa de módulos.
type Department struct {
	ID   string
	Name string
}

// Tier plan de precios: precio base y descuento fraccional en [0,1).
type Tier struct {
	Name      string
	BasePrice decimal.Decimal
	Discount  decimal.Decimal
}

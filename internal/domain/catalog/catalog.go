// Package catalog contiene el catálogo estático de precios: departamentos, módulos,
// integraciones y planes. Es inmutable una vez construido; solo expone lecturas.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// Catalog catálogo de solo lectura.
type Catalog struct {
	departments []entity.Department
	deptByID    map[string]entity.Department
	modules     map[string]entity.Module
	byDept      map[string][]string // IDs de módulos en orden de catálogo
	tiers       []entity.Tier
	rates       map[entity.Currency]decimal.Decimal
}

// Option configura el catálogo al construirlo.
type Option func(*Catalog)

// WithExchangeRates define el factor de conversión desde la moneda base del catálogo.
// Monedas sin factor usan 1 (los precios se leen tal cual).
func WithExchangeRates(rates map[entity.Currency]decimal.Decimal) Option {
	return func(c *Catalog) {
		for cur, r := range rates {
			c.rates[cur] = r
		}
	}
}

// New valida y construye el catálogo.
func New(departments []entity.Department, modules []entity.Module, tiers []entity.Tier, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		deptByID: make(map[string]entity.Department, len(departments)),
		modules:  make(map[string]entity.Module, len(modules)),
		byDept:   make(map[string][]string, len(departments)),
		rates:    make(map[entity.Currency]decimal.Decimal),
	}
	for _, d := range departments {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: departamento sin id", domain.ErrInvalidCatalog)
		}
		if _, dup := c.deptByID[d.ID]; dup {
			return nil, fmt.Errorf("%w: departamento duplicado %q", domain.ErrInvalidCatalog, d.ID)
		}
		c.deptByID[d.ID] = d
		c.departments = append(c.departments, d)
	}
	for _, m := range modules {
		if err := validateModule(m); err != nil {
			return nil, err
		}
		if _, ok := c.deptByID[m.Category]; !ok {
			return nil, fmt.Errorf("%w: módulo %q con departamento desconocido %q", domain.ErrInvalidCatalog, m.ID, m.Category)
		}
		if _, dup := c.modules[m.ID]; dup {
			return nil, fmt.Errorf("%w: módulo duplicado %q", domain.ErrInvalidCatalog, m.ID)
		}
		c.modules[m.ID] = cloneModule(m)
		c.byDept[m.Category] = append(c.byDept[m.Category], m.ID)
	}
	seenTier := make(map[string]bool, len(tiers))
	for _, t := range tiers {
		if t.Name == "" || seenTier[t.Name] {
			return nil, fmt.Errorf("%w: plan sin nombre o duplicado %q", domain.ErrInvalidCatalog, t.Name)
		}
		if t.Discount.IsNegative() || t.Discount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: descuento del plan %q fuera de [0,1)", domain.ErrInvalidCatalog, t.Name)
		}
		if t.BasePrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio base negativo en plan %q", domain.ErrInvalidCatalog, t.Name)
		}
		seenTier[t.Name] = true
		c.tiers = append(c.tiers, t)
	}
	for _, opt := range opts {
		opt(c)
	}
	for cur, r := range c.rates {
		if !cur.Valid() || !r.IsPositive() {
			return nil, fmt.Errorf("%w: tasa de cambio inválida para %q", domain.ErrInvalidCatalog, cur)
		}
	}
	return c, nil
}

func validateModule(m entity.Module) error {
	if m.ID == "" {
		return fmt.Errorf("%w: módulo sin id", domain.ErrInvalidCatalog)
	}
	if m.MinQuantity < 0 || m.MaxQuantity < 0 || m.FreeUnits < 0 {
		return fmt.Errorf("%w: cantidades negativas en módulo %q", domain.ErrInvalidCatalog, m.ID)
	}
	if m.MaxQuantity < m.DefaultQuantity() {
		return fmt.Errorf("%w: máximo menor que el mínimo en módulo %q", domain.ErrInvalidCatalog, m.ID)
	}
	if m.MonthlyPrice.IsNegative() || m.AnnualPrice.IsNegative() {
		return fmt.Errorf("%w: precio negativo en módulo %q", domain.ErrInvalidCatalog, m.ID)
	}
	seen := make(map[string]bool, len(m.Integrations))
	for _, in := range m.Integrations {
		if in.ID == "" || seen[in.ID] {
			return fmt.Errorf("%w: integración sin id o duplicada en módulo %q", domain.ErrInvalidCatalog, m.ID)
		}
		if in.PricingType != entity.PricingTypeFixed && in.PricingType != entity.PricingTypePerUnit {
			return fmt.Errorf("%w: tipo de cobro %q inválido en integración %q", domain.ErrInvalidCatalog, in.PricingType, in.ID)
		}
		if in.MonthlyPrice.IsNegative() || in.AnnualPrice.IsNegative() {
			return fmt.Errorf("%w: precio negativo en integración %q", domain.ErrInvalidCatalog, in.ID)
		}
		seen[in.ID] = true
	}
	return nil
}

func cloneModule(m entity.Module) entity.Module {
	if m.Integrations != nil {
		m.Integrations = append([]entity.Integration(nil), m.Integrations...)
	}
	if m.ContactUsThreshold != nil {
		t := *m.ContactUsThreshold
		m.ContactUsThreshold = &t
	}
	return m
}

// GetModule busca un módulo por ID.
func (c *Catalog) GetModule(id string) (entity.Module, bool) {
	m, ok := c.modules[id]
	if !ok {
		return entity.Module{}, false
	}
	return cloneModule(m), true
}

// GetDepartment busca un departamento por ID.
func (c *Catalog) GetDepartment(id string) (entity.Department, bool) {
	d, ok := c.deptByID[id]
	return d, ok
}

// Departments devuelve los departamentos en orden de catálogo.
func (c *Catalog) Departments() []entity.Department {
	return append([]entity.Department(nil), c.departments...)
}

// ModulesByDepartment devuelve los módulos del departamento en orden de catálogo.
// Un departamento desconocido devuelve una lista vacía.
func (c *Catalog) ModulesByDepartment(departmentID string) []entity.Module {
	ids := c.byDept[departmentID]
	out := make([]entity.Module, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneModule(c.modules[id]))
	}
	return out
}

// GetTiers devuelve los planes en orden de catálogo.
func (c *Catalog) GetTiers() []entity.Tier {
	return append([]entity.Tier(nil), c.tiers...)
}

// GetTier busca un plan por nombre.
func (c *Catalog) GetTier(name string) (entity.Tier, bool) {
	for _, t := range c.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return entity.Tier{}, false
}

// GetIntegration busca una integración propia de un módulo.
func (c *Catalog) GetIntegration(moduleID, integrationID string) (entity.Integration, bool) {
	m, ok := c.modules[moduleID]
	if !ok {
		return entity.Integration{}, false
	}
	return m.Integration(integrationID)
}

// BelongsTo informa si el módulo pertenece al departamento.
func (c *Catalog) BelongsTo(moduleID, departmentID string) bool {
	m, ok := c.modules[moduleID]
	return ok && m.Category == departmentID
}

// ExchangeRate factor de conversión para la moneda; 1 si no está definido.
func (c *Catalog) ExchangeRate(cur entity.Currency) decimal.Decimal {
	if r, ok := c.rates[cur]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// ExchangeRates copia de las tasas definidas.
func (c *Catalog) ExchangeRates() map[entity.Currency]decimal.Decimal {
	out := make(map[entity.Currency]decimal.Decimal, len(c.rates))
	for k, v := range c.rates {
		out[k] = v
	}
	return out
}

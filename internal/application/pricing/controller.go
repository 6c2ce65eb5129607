// Package pricing contiene el controlador de selección: el único componente con efectos
// sobre el SelectionState. Toda operación es síncrona y deja el estado listo para recalcular.
// Los errores del llamador (ids desconocidos, módulo ajeno al departamento) son no-ops con log.
package pricing

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	domainpricing "github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// Defaults valores iniciales de una sesión nueva.
type Defaults struct {
	Cycle         entity.Cycle
	Currency      entity.Currency
	Tier          entity.Tier
	ShowContactUs bool
}

// Controller dueño exclusivo de un SelectionState (un escritor por sesión, sin locks).
type Controller struct {
	catalog       *catalog.Catalog
	state         *entity.SelectionState
	showContactUs bool
	log           zerolog.Logger
}

// NewController crea un controlador con el estado vacío.
func NewController(cat *catalog.Catalog, defaults Defaults, log zerolog.Logger) *Controller {
	cycle := defaults.Cycle
	if !cycle.Valid() {
		cycle = entity.CycleMonthly
	}
	currency := defaults.Currency
	if !currency.Valid() {
		currency = entity.CurrencySAR
	}
	return &Controller{
		catalog:       cat,
		state:         entity.NewSelectionState(cycle, currency, defaults.Tier),
		showContactUs: defaults.ShowContactUs,
		log:           log.With().Str("component", "selection_controller").Logger(),
	}
}

// Catalog catálogo con el que opera el controlador.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// State devuelve una copia del estado actual.
func (c *Controller) State() *entity.SelectionState { return c.state.Clone() }

// ToggleModule activa el módulo en el departamento con la cantidad por defecto y sin
// integraciones, o lo desactiva si ya estaba (descartando sus integraciones).
// Si el módulo no pertenece al departamento es un no-op registrado como advertencia.
func (c *Controller) ToggleModule(moduleID, departmentID string) bool {
	m, ok := c.catalog.GetModule(moduleID)
	if !ok || m.Category != departmentID {
		c.log.Warn().
			Str("module_id", moduleID).
			Str("department_id", departmentID).
			Msg("toggle de módulo ignorado: el módulo no pertenece al departamento")
		return false
	}

	mods := c.state.SelectedByDepartment[departmentID]
	for i, sel := range mods {
		if sel.ID == moduleID {
			c.state.SelectedByDepartment[departmentID] = append(mods[:i:i], mods[i+1:]...)
			if len(c.state.SelectedByDepartment[departmentID]) == 0 {
				delete(c.state.SelectedByDepartment, departmentID)
			}
			return true
		}
	}
	qty := domainpricing.ClampQuantity(m, m.DefaultQuantity())
	c.state.SelectedByDepartment[departmentID] = append(mods, entity.NewSelectedModule(moduleID, qty))
	return true
}

// SetQuantity ajusta la cantidad de un módulo seleccionado: la lleva a [mín, máx] y la alinea
// al paso por debajo. No toca las integraciones. No-op si el módulo no está seleccionado.
func (c *Controller) SetQuantity(moduleID string, quantity int) bool {
	_, sel, ok := c.state.Find(moduleID)
	if !ok {
		c.log.Debug().Str("module_id", moduleID).Msg("cantidad ignorada: módulo no seleccionado")
		return false
	}
	m, ok := c.catalog.GetModule(moduleID)
	if !ok {
		c.log.Warn().Str("module_id", moduleID).Msg("cantidad ignorada: módulo fuera del catálogo")
		return false
	}
	q := domainpricing.ClampQuantity(m, quantity)
	if q == sel.Quantity {
		return false
	}
	sel.Quantity = q
	return true
}

// ToggleIntegration invierte la pertenencia de la integración en el conjunto del módulo.
// No-op si el módulo no está seleccionado en el departamento o la integración es de otro módulo.
func (c *Controller) ToggleIntegration(departmentID, moduleID, integrationID string) bool {
	sel, ok := c.state.FindIn(departmentID, moduleID)
	if !ok {
		c.log.Debug().
			Str("module_id", moduleID).
			Str("department_id", departmentID).
			Msg("integración ignorada: módulo no seleccionado")
		return false
	}
	if _, ok := c.catalog.GetIntegration(moduleID, integrationID); !ok {
		c.log.Warn().
			Str("module_id", moduleID).
			Str("integration_id", integrationID).
			Msg("integración ignorada: no pertenece al módulo")
		return false
	}
	if sel.HasIntegration(integrationID) {
		delete(sel.SelectedIntegrations, integrationID)
	} else {
		sel.SelectedIntegrations[integrationID] = struct{}{}
	}
	return true
}

// SetCycle asigna el ciclo de facturación. Valores desconocidos se ignoran.
func (c *Controller) SetCycle(cycle entity.Cycle) bool {
	if !cycle.Valid() {
		c.log.Warn().Str("cycle", string(cycle)).Msg("ciclo desconocido ignorado")
		return false
	}
	changed := c.state.Cycle != cycle
	c.state.Cycle = cycle
	return changed
}

// SetCurrency asigna la moneda de presentación. Valores desconocidos se ignoran.
func (c *Controller) SetCurrency(currency entity.Currency) bool {
	if !currency.Valid() {
		c.log.Warn().Str("currency", string(currency)).Msg("moneda desconocida ignorada")
		return false
	}
	changed := c.state.Currency != currency
	c.state.Currency = currency
	return changed
}

// SetTier reasigna el plan. No expulsa módulos ni aplica límites del plan.
func (c *Controller) SetTier(tier entity.Tier) {
	c.state.Tier = tier
}

// SetTierByName busca el plan en el catálogo y lo asigna; no-op si no existe.
func (c *Controller) SetTierByName(name string) bool {
	tier, ok := c.catalog.GetTier(name)
	if !ok {
		c.log.Warn().Str("tier", name).Msg("plan desconocido ignorado")
		return false
	}
	c.SetTier(tier)
	return true
}

// SetShowContactUs fija la bandera global de "contáctenos". Es independiente de los
// umbrales por módulo y el motor no la deriva.
func (c *Controller) SetShowContactUs(show bool) {
	c.showContactUs = show
}

// ShowContactUs valor actual de la bandera global.
func (c *Controller) ShowContactUs() bool { return c.showContactUs }

// Reset vacía las selecciones; ciclo, moneda y plan se conservan. Idempotente.
func (c *Controller) Reset() {
	c.state.SelectedByDepartment = make(map[string][]*entity.SelectedModule)
}

// Breakdown recalcula el desglose con el estado actual.
func (c *Controller) Breakdown() entity.PriceBreakdown {
	b := domainpricing.ComputeGrandTotal(c.catalog, c.state)
	b.ShowContactUs = c.showContactUs
	return b
}

package pricing

import (
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	domainpricing "github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// RestoreReport lo que se descartó o corrigió al restaurar un snapshot contra el catálogo vigente.
type RestoreReport struct {
	DroppedModules      []string `json:"dropped_modules,omitempty"`
	DroppedIntegrations []string `json:"dropped_integrations,omitempty"`
	AdjustedQuantities  []string `json:"adjusted_quantities,omitempty"`
	IgnoredFields       []string `json:"ignored_fields,omitempty"`
}

// Clean informa si el snapshot se restauró sin cambios.
func (r RestoreReport) Clean() bool {
	return len(r.DroppedModules) == 0 && len(r.DroppedIntegrations) == 0 &&
		len(r.AdjustedQuantities) == 0 && len(r.IgnoredFields) == 0
}

// Snapshot proyección serializable del estado actual, en orden determinista.
func (c *Controller) Snapshot() entity.Snapshot {
	snap := entity.Snapshot{
		Cycle:      c.state.Cycle,
		Currency:   c.state.Currency,
		TierName:   c.state.Tier.Name,
		Selections: []entity.SnapshotSelection{},
	}
	for _, deptID := range c.state.DepartmentIDs() {
		for _, sel := range c.state.SelectedByDepartment[deptID] {
			snap.Selections = append(snap.Selections, entity.SnapshotSelection{
				DepartmentID:   deptID,
				ModuleID:       sel.ID,
				Quantity:       sel.Quantity,
				IntegrationIDs: sel.IntegrationIDs(),
			})
		}
	}
	return snap
}

// Restore reemplaza las selecciones con las del snapshot, revalidando cada módulo e
// integración contra el catálogo: lo que ya no existe se descarta y las cantidades se vuelven
// a ajustar con la regla de SetQuantity. Ciclo, moneda o plan inválidos conservan el valor actual.
func (c *Controller) Restore(snap entity.Snapshot) RestoreReport {
	var report RestoreReport

	if snap.Cycle != "" {
		if !c.SetCycle(snap.Cycle) && !snap.Cycle.Valid() {
			report.IgnoredFields = append(report.IgnoredFields, "cycle")
		}
	}
	if snap.Currency != "" {
		if !c.SetCurrency(snap.Currency) && !snap.Currency.Valid() {
			report.IgnoredFields = append(report.IgnoredFields, "currency")
		}
	}
	if snap.TierName != "" && !c.SetTierByName(snap.TierName) {
		report.IgnoredFields = append(report.IgnoredFields, "tier_name")
	}

	c.Reset()
	for _, s := range snap.Selections {
		m, ok := c.catalog.GetModule(s.ModuleID)
		if !ok || m.Category != s.DepartmentID {
			report.DroppedModules = append(report.DroppedModules, s.ModuleID)
			continue
		}
		if _, dup := c.state.FindIn(s.DepartmentID, s.ModuleID); dup {
			continue
		}
		qty := domainpricing.ClampQuantity(m, s.Quantity)
		if qty != s.Quantity {
			report.AdjustedQuantities = append(report.AdjustedQuantities, s.ModuleID)
		}
		sel := entity.NewSelectedModule(s.ModuleID, qty)
		for _, id := range s.IntegrationIDs {
			if _, ok := m.Integration(id); !ok {
				report.DroppedIntegrations = append(report.DroppedIntegrations, s.ModuleID+"/"+id)
				continue
			}
			sel.SelectedIntegrations[id] = struct{}{}
		}
		c.state.SelectedByDepartment[s.DepartmentID] = append(c.state.SelectedByDepartment[s.DepartmentID], sel)
	}

	if !report.Clean() {
		c.log.Warn().
			Strs("dropped_modules", report.DroppedModules).
			Strs("dropped_integrations", report.DroppedIntegrations).
			Strs("adjusted_quantities", report.AdjustedQuantities).
			Strs("ignored_fields", report.IgnoredFields).
			Msg("snapshot restaurado con correcciones")
	}
	return report
}

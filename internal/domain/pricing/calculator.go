// Package pricing implementa el cálculo de precios (servicio de dominio puro):
// precio por módulo, subtotales por departamento, descuento del plan y total general.
//
//	base        = precioPorPaso × max(0, cantidad − gratis) / paso
//	fixed       = precioIntegración                      (una vez por ciclo)
//	per_unit    = precioIntegración × cantidad / paso    (cantidad completa)
//	preDesc     = tier.BasePrice + Σ módulos
//	total       = round(preDesc − preDesc × tier.Discount)
//
// Ningún monto intermedio se redondea; solo el total final.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// Catalog contrato mínimo de lectura que necesita el calculador.
// Lo implementa *catalog.Catalog.
type Catalog interface {
	GetModule(id string) (entity.Module, bool)
	GetDepartment(id string) (entity.Department, bool)
	Departments() []entity.Department
	ExchangeRate(cur entity.Currency) decimal.Decimal
}

var one = decimal.NewFromInt(1)

// ChargeableQuantity cantidad cobrable: cantidad menos unidades gratis, mínimo cero.
func ChargeableQuantity(m entity.Module, sel *entity.SelectedModule) int {
	q := sel.Quantity - m.FreeUnits
	if q < 0 {
		return 0
	}
	return q
}

// ComputeModulePrice precio de un módulo seleccionado en la moneda base del catálogo.
func ComputeModulePrice(m entity.Module, sel *entity.SelectedModule, cycle entity.Cycle) decimal.Decimal {
	return ComputeModuleBreakdown(m, sel, cycle, one).Total
}

// ComputeModuleBreakdown calcula la línea completa de un módulo aplicando la tasa de conversión
// a cada precio unitario. Las integraciones que no pertenecen al módulo se ignoran.
func ComputeModuleBreakdown(m entity.Module, sel *entity.SelectedModule, cycle entity.Cycle, rate decimal.Decimal) entity.ModuleBreakdown {
	step := decimal.NewFromInt(int64(m.EffectiveStep()))
	unitPrice := m.PriceFor(cycle).Mul(rate)
	chargeable := ChargeableQuantity(m, sel)
	base := unitPrice.Mul(decimal.NewFromInt(int64(chargeable))).Div(step)

	line := entity.ModuleBreakdown{
		ModuleID:           m.ID,
		Name:               m.Name,
		Unit:               m.Unit,
		Quantity:           sel.Quantity,
		ChargeableQuantity: chargeable,
		UnitPrice:          unitPrice,
		BasePrice:          base,
		Total:              base,
		ContactUs:          ShouldContactUs(m, sel),
	}
	for _, id := range sel.IntegrationIDs() {
		in, ok := m.Integration(id)
		if !ok {
			continue
		}
		inPrice := in.PriceFor(cycle).Mul(rate)
		amount := inPrice
		if in.PricingType == entity.PricingTypePerUnit {
			amount = inPrice.Mul(decimal.NewFromInt(int64(sel.Quantity))).Div(step)
		}
		line.Integrations = append(line.Integrations, entity.IntegrationBreakdown{
			IntegrationID: in.ID,
			Name:          in.Name,
			PricingType:   in.PricingType,
			UnitPrice:     inPrice,
			Amount:        amount,
		})
		line.Total = line.Total.Add(amount)
	}
	return line
}

// ComputeDepartmentTotal suma los precios de los módulos seleccionados de un departamento.
// Módulos que ya no existen en el catálogo aportan cero.
func ComputeDepartmentTotal(cat Catalog, selections []*entity.SelectedModule, cycle entity.Cycle) decimal.Decimal {
	total := decimal.Zero
	for _, sel := range selections {
		m, ok := cat.GetModule(sel.ID)
		if !ok {
			continue
		}
		total = total.Add(ComputeModulePrice(m, sel, cycle))
	}
	return total
}

// ComputeGrandTotal pliega el estado contra el catálogo y devuelve el desglose completo.
// El total final se redondea a la unidad entera de moneda.
func ComputeGrandTotal(cat Catalog, state *entity.SelectionState) entity.PriceBreakdown {
	rate := cat.ExchangeRate(state.Currency)
	out := entity.PriceBreakdown{
		Cycle:         state.Cycle,
		Currency:      state.Currency,
		TierName:      state.Tier.Name,
		TierBasePrice: state.Tier.BasePrice.Mul(rate),
		DiscountRate:  state.Tier.Discount,
		ModulesPrice:  decimal.Zero,
	}

	for _, deptID := range orderedDepartments(cat, state) {
		dept := entity.DepartmentBreakdown{DepartmentID: deptID, Subtotal: decimal.Zero}
		if d, ok := cat.GetDepartment(deptID); ok {
			dept.Name = d.Name
		}
		for _, sel := range state.SelectedByDepartment[deptID] {
			m, ok := cat.GetModule(sel.ID)
			if !ok {
				continue
			}
			line := ComputeModuleBreakdown(m, sel, state.Cycle, rate)
			dept.Modules = append(dept.Modules, line)
			dept.Subtotal = dept.Subtotal.Add(line.Total)
		}
		out.Departments = append(out.Departments, dept)
		out.ModulesPrice = out.ModulesPrice.Add(dept.Subtotal)
	}

	out.PreDiscount = out.TierBasePrice.Add(out.ModulesPrice)
	out.DiscountAmount = ApplyDiscount(out.PreDiscount, state.Tier)
	out.Total = out.PreDiscount.Sub(out.DiscountAmount).Round(0)
	return out
}

// orderedDepartments departamentos con selección, en orden de catálogo; los desconocidos al final.
func orderedDepartments(cat Catalog, state *entity.SelectionState) []string {
	present := state.DepartmentIDs()
	if len(present) == 0 {
		return nil
	}
	has := make(map[string]bool, len(present))
	for _, id := range present {
		has[id] = true
	}
	out := make([]string, 0, len(present))
	for _, d := range cat.Departments() {
		if has[d.ID] {
			out = append(out, d.ID)
			delete(has, d.ID)
		}
	}
	for _, id := range present {
		if has[id] {
			out = append(out, id)
		}
	}
	return out
}

package entity

import "sort"

// Cycle ciclo de facturación.
type Cycle string

// Ciclos soportados.
const (
	CycleMonthly Cycle = "monthly"
	CycleAnnual  Cycle = "annual"
)

// Valid informa si el ciclo es uno de los soportados.
func (c Cycle) Valid() bool {
	return c == CycleMonthly || c == CycleAnnual
}

// Currency moneda de presentación.
type Currency string

// Monedas soportadas.
const (
	CurrencySAR Currency = "sar"
	CurrencyUSD Currency = "usd"
)

// Valid informa si la moneda es una de las soportadas.
func (c Currency) Valid() bool {
	return c == CurrencySAR || c == CurrencyUSD
}

// SelectedModule módulo activado dentro de un departamento.
type SelectedModule struct {
	ID                   string
	Quantity             int
	SelectedIntegrations map[string]struct{}
}

// NewSelectedModule crea la selección con el conjunto de integraciones vacío.
func NewSelectedModule(id string, quantity int) *SelectedModule {
	return &SelectedModule{
		ID:                   id,
		Quantity:             quantity,
		SelectedIntegrations: make(map[string]struct{}),
	}
}

// HasIntegration informa si la integración está activada.
func (s *SelectedModule) HasIntegration(id string) bool {
	_, ok := s.SelectedIntegrations[id]
	return ok
}

// IntegrationIDs devuelve los IDs activados en orden estable.
func (s *SelectedModule) IntegrationIDs() []string {
	ids := make([]string, 0, len(s.SelectedIntegrations))
	for id := range s.SelectedIntegrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone copia profunda de la selección.
func (s *SelectedModule) Clone() *SelectedModule {
	c := NewSelectedModule(s.ID, s.Quantity)
	for id := range s.SelectedIntegrations {
		c.SelectedIntegrations[id] = struct{}{}
	}
	return c
}

// SelectionState estado en memoria de una sesión de cotización.
// Solo el controlador de selección lo muta.
type SelectionState struct {
	SelectedByDepartment map[string][]*SelectedModule
	Cycle                Cycle
	Currency             Currency
	Tier                 Tier
}

// NewSelectionState crea un estado vacío.
func NewSelectionState(cycle Cycle, currency Currency, tier Tier) *SelectionState {
	return &SelectionState{
		SelectedByDepartment: make(map[string][]*SelectedModule),
		Cycle:                cycle,
		Currency:             currency,
		Tier:                 tier,
	}
}

// Find busca un módulo seleccionado en cualquier departamento.
func (s *SelectionState) Find(moduleID string) (departmentID string, sel *SelectedModule, ok bool) {
	for _, deptID := range s.DepartmentIDs() {
		for _, m := range s.SelectedByDepartment[deptID] {
			if m.ID == moduleID {
				return deptID, m, true
			}
		}
	}
	return "", nil, false
}

// FindIn busca un módulo seleccionado dentro de un departamento.
func (s *SelectionState) FindIn(departmentID, moduleID string) (*SelectedModule, bool) {
	for _, m := range s.SelectedByDepartment[departmentID] {
		if m.ID == moduleID {
			return m, true
		}
	}
	return nil, false
}

// DepartmentIDs devuelve los departamentos con al menos un módulo, ordenados.
func (s *SelectionState) DepartmentIDs() []string {
	ids := make([]string, 0, len(s.SelectedByDepartment))
	for id, mods := range s.SelectedByDepartment {
		if len(mods) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// IsEmpty informa si no hay módulos seleccionados.
func (s *SelectionState) IsEmpty() bool {
	return len(s.DepartmentIDs()) == 0
}

// Clone copia profunda del estado.
func (s *SelectionState) Clone() *SelectionState {
	c := NewSelectionState(s.Cycle, s.Currency, s.Tier)
	for deptID, mods := range s.SelectedByDepartment {
		if len(mods) == 0 {
			continue
		}
		cp := make([]*SelectedModule, len(mods))
		for i, m := range mods {
			cp[i] = m.Clone()
		}
		c.SelectedByDepartment[deptID] = cp
	}
	return c
}

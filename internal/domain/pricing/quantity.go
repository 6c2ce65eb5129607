package pricing

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// ClampQuantity lleva la cantidad pedida al rango [mínimo, máximo] del módulo y la ajusta
// al valor alineado con el paso más cercano por debajo (min + k*step). Nunca supera el máximo.
func ClampQuantity(m entity.Module, requested int) int {
	step := m.EffectiveStep()
	lo := m.DefaultQuantity()
	hi := m.MaxQuantity
	if hi < lo {
		hi = lo
	}
	q := requested
	if q < lo {
		q = lo
	}
	if q > hi {
		q = hi
	}
	return lo + ((q-lo)/step)*step
}

// ValidQuantity informa si la cantidad respeta el rango y la alineación del módulo.
func ValidQuantity(m entity.Module, q int) bool {
	return ClampQuantity(m, q) == q
}

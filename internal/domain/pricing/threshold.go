package pricing

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// ShouldContactUs informa si la cantidad alcanzó el umbral de "contáctenos" del módulo.
// Cuando es true la interfaz no debe mostrar ni sumar el precio numérico del módulo;
// el cálculo interno del total no cambia.
func ShouldContactUs(m entity.Module, sel *entity.SelectedModule) bool {
	if m.ContactUsThreshold == nil || sel == nil {
		return false
	}
	return sel.Quantity >= *m.ContactUsThreshold
}

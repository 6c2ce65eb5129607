package pricing

import (
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// ResolveDefaults valida los valores iniciales configurados contra el catálogo.
// A diferencia de las operaciones de sesión, aquí un valor inválido es un error de arranque.
func ResolveDefaults(cat *catalog.Catalog, cycle, currency, tierName string, showContactUs bool) (Defaults, error) {
	d := Defaults{
		Cycle:         entity.Cycle(cycle),
		Currency:      entity.Currency(currency),
		ShowContactUs: showContactUs,
	}
	if d.Cycle == "" {
		d.Cycle = entity.CycleMonthly
	}
	if d.Currency == "" {
		d.Currency = entity.CurrencySAR
	}
	if !d.Cycle.Valid() {
		return Defaults{}, fmt.Errorf("%w: ciclo %q", domain.ErrInvalidInput, cycle)
	}
	if !d.Currency.Valid() {
		return Defaults{}, fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, currency)
	}
	tier, ok := cat.GetTier(tierName)
	if !ok {
		return Defaults{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, tierName)
	}
	d.Tier = tier
	return d, nil
}

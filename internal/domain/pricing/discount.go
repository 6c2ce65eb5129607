package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// ApplyDiscount devuelve el monto del descuento del plan: preDescuento × tier.Discount.
// Un único porcentaje plano por plan; sin mínimos ni acumulación.
func ApplyDiscount(preDiscount decimal.Decimal, tier entity.Tier) decimal.Decimal {
	return preDiscount.Mul(tier.Discount)
}

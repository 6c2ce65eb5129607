package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// NormalizeTaxRate acepta la tasa como fracción (0.15) o como porcentaje (15).
func NormalizeTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(one) {
		return rate.Div(hundred)
	}
	return rate
}

// ComputeLineItems totaliza líneas de cotización o factura:
// subtotal = Σ cantidad × precio, impuesto = round(subtotal × tasa, 2), total = subtotal + impuesto.
// Los montos por línea se conservan sin redondear.
func ComputeLineItems(lines []entity.QuoteLine, taxRate decimal.Decimal) entity.QuoteTotals {
	rate := NormalizeTaxRate(taxRate)
	out := entity.QuoteTotals{
		Lines:    make([]entity.QuoteLine, 0, len(lines)),
		Subtotal: decimal.Zero,
		TaxRate:  rate,
	}
	for _, l := range lines {
		l.Amount = l.Quantity.Mul(l.UnitPrice)
		out.Subtotal = out.Subtotal.Add(l.Amount)
		out.Lines = append(out.Lines, l)
	}
	out.TaxAmount = out.Subtotal.Mul(rate).Round(2)
	out.Total = out.Subtotal.Add(out.TaxAmount)
	return out
}

// LinesFromBreakdown convierte el desglose en líneas de cotización: plan base, una por módulo,
// una por integración y el descuento como línea negativa. Cada línea lleva cantidad 1 y el
// monto exacto del desglose, de modo que el subtotal reproduce PreDiscount − DiscountAmount.
func LinesFromBreakdown(b entity.PriceBreakdown) []entity.QuoteLine {
	var lines []entity.QuoteLine
	if b.TierBasePrice.IsPositive() {
		lines = append(lines, amountLine("Plan "+b.TierName, b.TierBasePrice))
	}
	for _, d := range b.Departments {
		for _, m := range d.Modules {
			lines = append(lines, amountLine(fmt.Sprintf("%s (%d %s)", m.Name, m.Quantity, m.Unit), m.BasePrice))
			for _, in := range m.Integrations {
				lines = append(lines, amountLine(m.Name+" / "+in.Name, in.Amount))
			}
		}
	}
	if b.DiscountAmount.IsPositive() {
		lines = append(lines, amountLine("Descuento plan "+b.TierName, b.DiscountAmount.Neg()))
	}
	return lines
}

func amountLine(desc string, amount decimal.Decimal) entity.QuoteLine {
	return entity.QuoteLine{Description: desc, Quantity: one, UnitPrice: amount}
}

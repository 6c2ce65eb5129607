package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

func docConModulo(contactUs bool) quote.Document {
	d := decimal.RequireFromString
	return quote.Document{
		Breakdown: entity.PriceBreakdown{
			Cycle: entity.CycleMonthly, Currency: entity.CurrencySAR,
			Departments: []entity.DepartmentBreakdown{{
				DepartmentID: "hr",
				Modules: []entity.ModuleBreakdown{{
					ModuleID: "employees", BasePrice: d("75"), Total: d("75"), ContactUs: contactUs,
				}},
			}},
			ModulesPrice: d("75"), Total: d("75"),
		},
		Totals: entity.QuoteTotals{Subtotal: d("75"), TaxRate: d("0.15"), TaxAmount: d("11.25"), Total: d("86.25")},
	}
}

func TestTotalsValues_ModuloEnContactUsOcultaTotales(t *testing.T) {
	got := totalsValues(docConModulo(true))
	for _, v := range got {
		assert.Equal(t, contactUsLabel, v)
	}
}

func TestTotalsValues_SinContactUsMuestraMontos(t *testing.T) {
	got := totalsValues(docConModulo(false))
	for _, v := range got {
		assert.NotEqual(t, contactUsLabel, v)
	}
	assert.Contains(t, got[2], "86.25")
}

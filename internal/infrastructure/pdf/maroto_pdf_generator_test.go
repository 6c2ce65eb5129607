package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
)

func TestGenerateQuotePDF_GeneraDocumento(t *testing.T) {
	d := decimal.RequireFromString
	doc := quote.Document{
		Reference: "6f1c2b9e-0000-4000-8000-000000000001",
		Issuer:    "Cotizador",
		IssuedAt:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Breakdown: entity.PriceBreakdown{
			Cycle: entity.CycleAnnual, Currency: entity.CurrencyUSD, TierName: "growth",
			TierBasePrice: d("53.07"), DiscountRate: d("0.1"),
			Departments: []entity.DepartmentBreakdown{{
				DepartmentID: "sales", Name: "Ventas y CRM",
				Modules: []entity.ModuleBreakdown{{
					ModuleID: "crm", Name: "CRM", Unit: "usuarios", Quantity: 3,
					BasePrice: d("93.35"), Total: d("93.35"),
					Integrations: []entity.IntegrationBreakdown{{IntegrationID: "whatsapp", Name: "WhatsApp Business", Amount: d("80.01")}},
				}},
			}},
			DiscountAmount: d("22.64"),
		},
		Totals:      entity.QuoteTotals{Subtotal: d("203.79"), TaxRate: d("0.15"), TaxAmount: d("30.57"), Total: d("234.36")},
		Fingerprint: "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c",
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateQuotePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateQuotePDF_ContactUsSinHuella(t *testing.T) {
	doc := quote.Document{
		Reference: "x",
		Issuer:    "Cotizador",
		IssuedAt:  time.Now(),
		Breakdown: entity.PriceBreakdown{Cycle: entity.CycleMonthly, Currency: entity.CurrencySAR, ShowContactUs: true},
	}
	out, err := pdf.NewMarotoPDFGenerator().GenerateQuotePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

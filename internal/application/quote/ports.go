package quote

import (
	"context"
	"time"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// Document datos de una cotización emitida a partir de una sesión.
type Document struct {
	Reference   string // id de la sesión
	Issuer      string
	IssuedAt    time.Time
	Breakdown   entity.PriceBreakdown
	Totals      entity.QuoteTotals
	Fingerprint string // SHA3-384 del XML canónico; vacío hasta renderizar el XML
}

// HidePrices la bandera global de "contáctenos" oculta todos los montos del documento.
func (d Document) HidePrices() bool { return d.Breakdown.ShowContactUs }

// HideTotals además oculta totales y descuento cuando algún módulo está en "contáctenos":
// esas cifras incluyen su precio y lo delatarían por diferencia.
func (d Document) HideTotals() bool {
	return d.HidePrices() || d.Breakdown.HasContactUsModule()
}

// PDFGenerator genera la representación PDF de la cotización (implementado en infrastructure/pdf).
type PDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, doc Document) ([]byte, error)
}

// XMLRenderer serializa la cotización y devuelve su huella sobre la forma canónica.
type XMLRenderer interface {
	RenderQuoteXML(doc Document) (xml []byte, fingerprint string, err error)
}

// SessionReader lectura de sesiones de cotización (pricing.SessionService).
type SessionReader interface {
	Breakdown(ctx context.Context, sessionID string) (entity.PriceBreakdown, error)
}

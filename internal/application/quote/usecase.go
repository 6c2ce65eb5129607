// Package quote totaliza líneas de cotización y emite los documentos PDF/XML de una sesión.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	domainpricing "github.com/jhoicas/Cotizador-api/internal/domain/pricing"
)

// UseCase casos de uso de cotizaciones.
type UseCase struct {
	sessions SessionReader
	pdf      PDFGenerator
	xml      XMLRenderer
	issuer   string
	taxRate  decimal.Decimal
	now      func() time.Time
}

// NewUseCase construye el caso de uso. taxRate se acepta como fracción o porcentaje.
func NewUseCase(sessions SessionReader, pdf PDFGenerator, xml XMLRenderer, issuer string, taxRate decimal.Decimal) *UseCase {
	return &UseCase{
		sessions: sessions,
		pdf:      pdf,
		xml:      xml,
		issuer:   issuer,
		taxRate:  domainpricing.NormalizeTaxRate(taxRate),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Totals totaliza líneas libres. Cantidad o precio negativos = domain.ErrInvalidInput.
func (uc *UseCase) Totals(lines []entity.QuoteLine, taxRate decimal.Decimal) (entity.QuoteTotals, error) {
	if len(lines) == 0 {
		return entity.QuoteTotals{}, fmt.Errorf("%w: la cotización no tiene líneas", domain.ErrInvalidInput)
	}
	if taxRate.IsNegative() {
		return entity.QuoteTotals{}, fmt.Errorf("%w: tasa de impuesto negativa", domain.ErrInvalidInput)
	}
	for i, l := range lines {
		if l.Quantity.IsNegative() || l.UnitPrice.IsNegative() {
			return entity.QuoteTotals{}, fmt.Errorf("%w: línea %d con cantidad o precio negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return domainpricing.ComputeLineItems(lines, taxRate), nil
}

// SessionPDF genera el PDF de la sesión. La huella del XML se imprime en el pie.
func (uc *UseCase) SessionPDF(ctx context.Context, sessionID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.document(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if _, doc.Fingerprint, err = uc.xml.RenderQuoteXML(doc); err != nil {
		return nil, "", fmt.Errorf("quote: huella xml: %w", err)
	}
	pdfBytes, err = uc.pdf.GenerateQuotePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("quote: generación pdf fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("cotizacion_%s.pdf", shortRef(sessionID)), nil
}

// SessionXML genera el XML de la sesión y su huella SHA3-384.
func (uc *UseCase) SessionXML(ctx context.Context, sessionID string) (xmlBytes []byte, fingerprint string, err error) {
	doc, err := uc.document(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	xmlBytes, fingerprint, err = uc.xml.RenderQuoteXML(doc)
	if err != nil {
		return nil, "", fmt.Errorf("quote: generación xml fallida: %w", err)
	}
	return xmlBytes, fingerprint, nil
}

func (uc *UseCase) document(ctx context.Context, sessionID string) (Document, error) {
	b, err := uc.sessions.Breakdown(ctx, sessionID)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Reference: sessionID,
		Issuer:    uc.issuer,
		IssuedAt:  uc.now(),
		Breakdown: b,
		Totals:    domainpricing.ComputeLineItems(domainpricing.LinesFromBreakdown(b), uc.taxRate),
	}, nil
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// QuoteHandler totales de líneas y documentos PDF/XML de una sesión.
type QuoteHandler struct {
	uc *quote.UseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quote.UseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Totals godoc
// @Summary      Totalizar líneas de cotización
// @Description  Suma cantidad × precio por línea y aplica el impuesto (fracción o porcentaje). La moneda solo rotula la respuesta.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteTotalsRequest  true  "Líneas"
// @Success      200   {object}  dto.QuoteTotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotes/totals [post]
func (h *QuoteHandler) Totals(c *fiber.Ctx) error {
	var in dto.QuoteTotalsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	lines := make([]entity.QuoteLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, entity.QuoteLine{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	out, err := h.uc.Totals(lines, in.TaxRate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewQuoteTotalsResponse(out, in.Currency))
}

// SessionPDF godoc
// @Summary      PDF de la cotización de una sesión
// @Tags         quotes
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/{id}/pdf [get]
func (h *QuoteHandler) SessionPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.SessionPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// SessionXML godoc
// @Summary      XML canónico de la cotización de una sesión
// @Description  La huella SHA3-384 del documento canónico va en la cabecera X-Quote-Fingerprint.
// @Tags         quotes
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/sessions/{id}/xml [get]
func (h *QuoteHandler) SessionXML(c *fiber.Ctx) error {
	xmlBytes, fingerprint, err := h.uc.SessionXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set("X-Quote-Fingerprint", fingerprint)
	return c.Send(xmlBytes)
}

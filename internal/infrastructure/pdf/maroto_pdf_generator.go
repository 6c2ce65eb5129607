// Package pdf genera la representación PDF de una cotización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor              │  Referencia + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONDICIONES: Ciclo / Moneda / Plan                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Departamento | Descripción | Cant. | Monto           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Huella SHA3-384 + QR                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/pkg/money"
)

const contactUsLabel = "Contáctenos"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var cycleLabels = map[entity.Cycle]string{
	entity.CycleMonthly: "Mensual",
	entity.CycleAnnual:  "Anual",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ quote.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa quote.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateQuotePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateQuotePDF(_ context.Context, doc quote.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+doc.Reference, true).
		WithAuthor(doc.Issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(termsRow(doc.Breakdown))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y referencia + fecha (der).
func headerRow(doc quote.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cotización de suscripción", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortRef(doc.Reference), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.IssuedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// termsRow: ciclo, moneda y plan.
func termsRow(b entity.PriceBreakdown) core.Row {
	cycle := cycleLabels[b.Cycle]
	if cycle == "" {
		cycle = string(b.Cycle)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CONDICIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Ciclo: %s   |   Moneda: %s   |   Plan: %s   |   Descuento: %s%%",
				cycle,
				money.Code(string(b.Currency)),
				nonEmpty(b.TierName, "-"),
				b.DiscountRate.Shift(2).StringFixed(0),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Departamento", 3, align.Left),
		h("Descripción", 5, align.Left),
		h("Cant.", 1, align.Center),
		h("Monto", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: plan base, una fila por módulo y una por integración.
func tableDetailRows(doc quote.Document) []core.Row {
	b := doc.Breakdown
	cur := string(b.Currency)
	hide := doc.HidePrices()
	var rows []core.Row

	if b.TierBasePrice.IsPositive() {
		rows = append(rows, detailRow("", "Plan "+b.TierName, "1", priceOrContact(money.Line(b.TierBasePrice, cur), hide)))
	}
	for _, d := range b.Departments {
		for _, m := range d.Modules {
			qty := fmt.Sprintf("%d", m.Quantity)
			rows = append(rows, detailRow(d.Name, m.Name+" ("+m.Unit+")", qty,
				priceOrContact(money.Line(m.BasePrice, cur), hide || m.ContactUs)))
			for _, in := range m.Integrations {
				rows = append(rows, detailRow("", "   + "+in.Name, "",
					priceOrContact(money.Line(in.Amount, cur), hide || m.ContactUs)))
			}
		}
	}
	if b.DiscountAmount.IsPositive() {
		rows = append(rows, detailRow("", "Descuento plan "+b.TierName, "",
			priceOrContact(money.Line(b.DiscountAmount.Neg(), cur), doc.HideTotals())))
	}
	return rows
}

func detailRow(dept, desc, qty, amount string) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(dept, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(5).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(1).Add(text.New(qty, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(amount, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(doc quote.Document) core.Row {
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	t := doc.Totals
	amounts := totalsValues(doc)
	taxLabel := fmt.Sprintf("Impuestos (%s%%):", t.TaxRate.Shift(2).String())

	return row.New(22).Add(
		col.New(3),
		col.New(3).Add(
			text.New("Subtotal:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}),
			text.New(taxLabel, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 12, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(amounts[0], 0),
			value(amounts[1], 6),
			grand(amounts[2], 12),
		),
		col.New(3),
	)
}

// totalsValues subtotal, impuesto y total ya formateados, o "contáctenos" si deben ocultarse.
func totalsValues(doc quote.Document) [3]string {
	cur := string(doc.Breakdown.Currency)
	t := doc.Totals
	hide := doc.HideTotals()
	return [3]string{
		priceOrContact(money.Line(t.Subtotal, cur), hide),
		priceOrContact(money.Line(t.TaxAmount, cur), hide),
		priceOrContact(money.Line(t.Total, cur), hide),
	}
}

// footerRows: huella partida + QR con la huella.
func footerRows(doc quote.Document) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("VERIFICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if doc.Fingerprint == "" {
		return rows
	}

	rows = append(rows, row.New(5).Add(col.New(12).Add(
		text.New("Huella SHA3-384 del documento XML:", props.Text{
			Style: fontstyle.Bold, Size: 7, Top: 1,
		}),
	)))
	for _, chunk := range splitEvery(doc.Fingerprint, 48) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(3))
	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(doc.Reference+":"+doc.Fingerprint, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Los precios mostrados son válidos para el ciclo indicado.\n"+
				"El total del plan se redondea a la unidad; las líneas se muestran con dos decimales.",
				props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func priceOrContact(amount string, hide bool) string {
	if hide {
		return contactUsLabel
	}
	return amount
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}

// Package xmlquote serializa una cotización a XML con etree y calcula su huella
// SHA3-384 sobre la forma canónica (C14N), de modo que el mismo contenido siempre
// produce la misma huella sin importar la indentación.
package xmlquote

import (
	"bytes"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"
	"golang.org/x/crypto/sha3"

	"github.com/jhoicas/Cotizador-api/internal/application/quote"
)

// Namespace del documento de cotización.
const Namespace = "urn:cotizador:quote:1"

var _ quote.XMLRenderer = (*Renderer)(nil)

// Renderer implementa quote.XMLRenderer.
type Renderer struct{}

// NewRenderer construye el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// RenderQuoteXML devuelve el XML indentado y la huella hex del XML canónico.
// La huella se calcula antes de añadir la declaración XML.
func (r *Renderer) RenderQuoteXML(doc quote.Document) ([]byte, string, error) {
	d := build(doc)

	raw, err := d.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlquote: serializar: %w", err)
	}
	fingerprint, err := Fingerprint(raw)
	if err != nil {
		return nil, "", err
	}

	d.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))
	d.Indent(2)
	out, err := d.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlquote: serializar: %w", err)
	}
	return out, fingerprint, nil
}

// Fingerprint SHA3-384 (hex) de la forma canónica del XML.
func Fingerprint(xmlBytes []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("xmlquote: canonicalizar: %w", err)
	}
	sum := sha3.Sum384(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func build(doc quote.Document) *etree.Document {
	b := doc.Breakdown
	hide := doc.HidePrices()

	d := etree.NewDocument()

	root := d.CreateElement("Quote")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("reference", doc.Reference)
	root.CreateAttr("issued", doc.IssuedAt.UTC().Format("2006-01-02T15:04:05Z"))
	root.CreateElement("Issuer").SetText(doc.Issuer)

	terms := root.CreateElement("Terms")
	terms.CreateAttr("cycle", string(b.Cycle))
	terms.CreateAttr("currency", string(b.Currency))
	terms.CreateAttr("tier", b.TierName)
	if !hide {
		terms.CreateAttr("tierBasePrice", amount(b.TierBasePrice))
		terms.CreateAttr("discountRate", b.DiscountRate.String())
	}

	depts := root.CreateElement("Departments")
	for _, dept := range b.Departments {
		de := depts.CreateElement("Department")
		de.CreateAttr("id", dept.DepartmentID)
		de.CreateAttr("name", dept.Name)
		for _, m := range dept.Modules {
			me := de.CreateElement("Module")
			me.CreateAttr("id", m.ModuleID)
			me.CreateAttr("quantity", strconv.Itoa(m.Quantity))
			me.CreateAttr("chargeable", strconv.Itoa(m.ChargeableQuantity))
			me.CreateAttr("unit", m.Unit)
			me.CreateElement("Name").SetText(m.Name)
			if hide || m.ContactUs {
				me.CreateElement("ContactUs")
			} else {
				me.CreateElement("BasePrice").SetText(amount(m.BasePrice))
				me.CreateElement("Total").SetText(amount(m.Total))
			}
			for _, in := range m.Integrations {
				ie := me.CreateElement("Integration")
				ie.CreateAttr("id", in.IntegrationID)
				ie.CreateAttr("pricing", in.PricingType)
				ie.SetText(in.Name)
				if !hide && !m.ContactUs {
					ie.CreateAttr("amount", amount(in.Amount))
				}
			}
		}
	}

	totals := root.CreateElement("Totals")
	if doc.HideTotals() {
		totals.CreateElement("ContactUs")
		return d
	}
	totals.CreateElement("ModulesPrice").SetText(amount(b.ModulesPrice))
	totals.CreateElement("DiscountAmount").SetText(amount(b.DiscountAmount))
	totals.CreateElement("Subtotal").SetText(amount(doc.Totals.Subtotal))
	tax := totals.CreateElement("Tax")
	tax.CreateAttr("rate", doc.Totals.TaxRate.String())
	tax.SetText(amount(doc.Totals.TaxAmount))
	totals.CreateElement("Total").SetText(doc.Totals.Total.StringFixed(2))
	totals.CreateElement("PlanTotal").SetText(b.Total.StringFixed(0))
	return d
}

// amount montos de línea con 2 decimales para presentación.
func amount(v decimal.Decimal) string { return v.StringFixed(2) }

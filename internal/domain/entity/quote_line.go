package entity

import "github.com/shopspring/decimal"

// QuoteLine línea de detalle de una cotización o factura (cantidad × precio unitario).
type QuoteLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity × UnitPrice, sin redondear
}

// QuoteTotals totales de una lista de líneas.
type QuoteTotals struct {
	Lines     []QuoteLine
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal // fracción (0.15 = 15%)
	TaxAmount decimal.Decimal // redondeado a 2 decimales
	Total     decimal.Decimal
}

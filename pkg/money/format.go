// Package money formatea montos para presentación (PDF, CLI, campos *_display de la API).
// El cálculo nunca usa estos strings; solo la capa de salida.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// ParseCurrency valida un código ISO 4217 (sin distinguir mayúsculas).
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("money: moneda %q inválida: %w", code, err)
	}
	return unit, nil
}

// Format devuelve el monto con separador de miles y `places` decimales seguido del código ISO.
// Ej: Format(1234.5, "sar", 2) → "1,234.50 SAR".
func Format(amount decimal.Decimal, code string, places int) string {
	s := printer.Sprint(number.Decimal(amount.Round(int32(places)).InexactFloat64(), number.Scale(places)))
	return s + " " + Code(code)
}

// Code código ISO en mayúsculas; si no es un código válido devuelve la entrada en mayúsculas.
func Code(code string) string {
	unit, err := ParseCurrency(code)
	if err != nil {
		return strings.ToUpper(code)
	}
	return unit.String()
}

// Line formato de líneas de detalle: dos decimales fijos.
func Line(amount decimal.Decimal, code string) string { return Format(amount, code, 2) }

// Total formato de totales: unidades enteras.
func Total(amount decimal.Decimal, code string) string { return Format(amount, code, 0) }

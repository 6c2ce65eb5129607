package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/pkg/jwt"
)

const snapshotJSON = `{
  "cycle": "monthly",
  "currency": "sar",
  "tier_name": "starter",
  "selections": [
    {"department_id": "finance", "module_id": "accounting", "quantity": 2, "integration_ids": []}
  ]
}`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestQuote_Texto(t *testing.T) {
	path := writeFile(t, "snap.json", snapshotJSON)
	out, _, err := run(t, "", "quote", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Contabilidad")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "120")
}

func TestQuote_JSONDesdeStdin(t *testing.T) {
	out, _, err := run(t, snapshotJSON, "quote", "-", "--format", "json")
	require.NoError(t, err)

	var b dto.BreakdownResponse
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.True(t, decimal.NewFromInt(120).Equal(b.Total))
	require.Len(t, b.Departments, 1)
	assert.Equal(t, "finance", b.Departments[0].DepartmentID)
}

func TestQuote_XMLConHuella(t *testing.T) {
	path := writeFile(t, "snap.json", snapshotJSON)
	out, errOut, err := run(t, "", "quote", path, "--format", "xml")
	require.NoError(t, err)
	assert.Contains(t, out, "<Quote")
	assert.Contains(t, errOut, "huella sha3-384:")
}

func TestQuote_AvisaModulosDescartados(t *testing.T) {
	snap := `{"selections":[{"department_id":"finance","module_id":"retirado","quantity":1}]}`
	_, errOut, err := run(t, snap, "quote", "-")
	require.NoError(t, err)
	assert.Contains(t, errOut, "retirado")
}

func TestQuote_FormatoDesconocido(t *testing.T) {
	_, _, err := run(t, snapshotJSON, "quote", "-", "--format", "csv")
	assert.Error(t, err)
}

func TestQuote_SnapshotInvalido(t *testing.T) {
	_, _, err := run(t, "{no es json", "quote", "-")
	assert.Error(t, err)
}

func TestCatalogCheck(t *testing.T) {
	path := writeFile(t, "catalogo.yaml", `
departments:
  - id: infra
    name: Infraestructura
modules:
  - id: servers
    category: infra
    name: Servidores
    unit: servidores
    min_quantity: 1
    max_quantity: 10
    step: 1
    monthly_price: "10"
    annual_price: "100"
tiers:
  - name: starter
    base_price: "0"
    discount: "0"
`)
	out, _, err := run(t, "", "catalog", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "catálogo válido: 1 departamentos, 1 módulos, 1 planes")

	_, _, err = run(t, "", "catalog", "check", filepath.Join(t.TempDir(), "no-existe.yaml"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto-cli")
	t.Setenv("JWT_ISSUER", "cotizador-cli")

	out, _, err := run(t, "", "token", "--user", "u-1", "--company", "c-1", "--role", jwt.RoleViewer)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto-cli", "cotizador-cli", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, jwt.RoleViewer, claims.Role)

	_, _, err = run(t, "", "token", "--user", "u-1", "--company", "c-1", "--role", "bodeguero")
	assert.Error(t, err)
}

func TestPrintBreakdown_ModuloEnContactUsOcultaTotales(t *testing.T) {
	d := decimal.RequireFromString
	b := entity.PriceBreakdown{
		Cycle: entity.CycleMonthly, Currency: entity.CurrencySAR, TierName: "starter",
		TierBasePrice: decimal.Zero, DiscountRate: d("0.1"),
		Departments: []entity.DepartmentBreakdown{{
			DepartmentID: "hr", Name: "Recursos Humanos", Subtotal: d("7500"),
			Modules: []entity.ModuleBreakdown{{
				ModuleID: "employees", Name: "Gestión de empleados", Unit: "empleados",
				Quantity: 1000, Total: d("7500"), ContactUs: true,
			}},
		}},
		ModulesPrice: d("7500"), DiscountAmount: d("750"), Total: d("6750"),
	}

	var out bytes.Buffer
	require.NoError(t, printBreakdown(&out, b))
	assert.NotContains(t, out.String(), "7,500")
	assert.NotContains(t, out.String(), "750")
	assert.NotContains(t, out.String(), "6,750")
	assert.Contains(t, out.String(), "Contáctenos")
}

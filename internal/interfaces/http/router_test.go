package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/pricing"
	"github.com/jhoicas/Cotizador-api/internal/application/quote"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/xmlquote"
	apphttp "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Cotizador-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type stubPDF struct{}

func (stubPDF) GenerateQuotePDF(context.Context, quote.Document) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type mapConfigRepo struct {
	mu    sync.Mutex
	items map[string]*entity.SavedConfiguration
}

func (r *mapConfigRepo) Create(_ context.Context, cfg *entity.SavedConfiguration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.CompanyID == cfg.CompanyID && it.Name == cfg.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *cfg
	r.items[cfg.ID] = &cp
	return nil
}

func (r *mapConfigRepo) GetByID(_ context.Context, id string) (*entity.SavedConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *mapConfigRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.SavedConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SavedConfiguration
	for _, it := range r.items {
		if it.CompanyID == companyID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *mapConfigRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	cat := catalog.Default()
	starter, ok := cat.GetTier("starter")
	require.True(t, ok)

	svc, err := pricing.NewSessionService(pricing.SessionServiceDeps{
		Catalog:  cat,
		Store:    memory.NewSessionStore(time.Hour),
		Defaults: pricing.Defaults{Cycle: entity.CycleMonthly, Currency: entity.CurrencySAR, Tier: starter},
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:     svc,
		Quotes:       quote.NewUseCase(svc, stubPDF{}, xmlquote.NewRenderer(), "Cotizador Test", decimal.NewFromInt(15)),
		SavedConfigs: pricing.NewSavedConfigurationUseCase(&mapConfigRepo{items: map[string]*entity.SavedConfiguration{}}, svc),
		Metrics:      m,
		Gatherer:     reg,
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testIssuer,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}, auth string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeSession(t *testing.T, resp *http.Response) dto.SessionResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/pricing/sessions", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s := decodeSession(t, resp)
	require.NotEmpty(t, s.ID)
	return s.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones de cotización
// ──────────────────────────────────────────────────────────────────────────────

func TestSessions_FlujoCompleto(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)
	base := "/api/pricing/sessions/" + id

	resp := call(t, app, http.MethodPost, base+"/modules/toggle", dto.ToggleModuleRequest{ModuleID: "accounting", DepartmentID: "finance"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decodeSession(t, resp)
	assert.True(t, s.Changed)
	assert.True(t, decimal.NewFromInt(60).Equal(s.Breakdown.Total), "total=%s", s.Breakdown.Total)

	resp = call(t, app, http.MethodPut, base+"/modules/accounting/quantity", dto.SetQuantityRequest{Quantity: 3}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s = decodeSession(t, resp)
	assert.True(t, decimal.NewFromInt(180).Equal(s.Breakdown.Total))
	require.Len(t, s.Snapshot.Selections, 1)
	assert.Equal(t, 3, s.Snapshot.Selections[0].Quantity)

	resp = call(t, app, http.MethodPut, base+"/cycle", dto.SetCycleRequest{Cycle: "annual"}, "")
	s = decodeSession(t, resp)
	assert.True(t, decimal.NewFromInt(1800).Equal(s.Breakdown.Total))

	resp = call(t, app, http.MethodPost, base+"/reset", nil, "")
	s = decodeSession(t, resp)
	assert.True(t, s.Changed)
	assert.Empty(t, s.Snapshot.Selections)
	assert.Equal(t, entity.CycleAnnual, s.Snapshot.Cycle, "reset conserva el ciclo")
}

func TestSessions_CicloDesconocido_NoCambia(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)

	resp := call(t, app, http.MethodPut, "/api/pricing/sessions/"+id+"/cycle", dto.SetCycleRequest{Cycle: "weekly"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decodeSession(t, resp)
	assert.False(t, s.Changed)
	assert.Equal(t, entity.CycleMonthly, s.Snapshot.Cycle)
}

func TestSessions_ValidacionCuerpo(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)

	resp := call(t, app, http.MethodPost, "/api/pricing/sessions/"+id+"/modules/toggle", map[string]string{"module_id": "crm"}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestSessions_Inexistente_Retorna404(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/pricing/sessions/no-existe", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "SESSION_NOT_FOUND", e.Code)
}

func TestSessions_SnapshotExportarYRestaurar(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)
	base := "/api/pricing/sessions/" + id

	call(t, app, http.MethodPost, base+"/modules/toggle", dto.ToggleModuleRequest{ModuleID: "crm", DepartmentID: "sales"}, "").Body.Close()
	call(t, app, http.MethodPost, base+"/integrations/toggle", dto.ToggleIntegrationRequest{DepartmentID: "sales", ModuleID: "crm", IntegrationID: "email-campaigns"}, "").Body.Close()

	resp := call(t, app, http.MethodGet, base+"/snapshot", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap entity.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	resp.Body.Close()
	require.Len(t, snap.Selections, 1)
	assert.Equal(t, []string{"email-campaigns"}, snap.Selections[0].IntegrationIDs)

	snap.Selections = append(snap.Selections, entity.SnapshotSelection{DepartmentID: "sales", ModuleID: "retirado", Quantity: 1})
	resp = call(t, app, http.MethodPost, "/api/pricing/sessions/from-snapshot", snap, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Contains(t, string(raw["restore"]), "retirado")
}

func TestSessions_TogglesConcurrentesNoPierdenCambios(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)
	otra := createSession(t, app)

	modules := []dto.ToggleModuleRequest{
		{ModuleID: "employees", DepartmentID: "hr"},
		{ModuleID: "payroll", DepartmentID: "hr"},
		{ModuleID: "invoicing", DepartmentID: "finance"},
		{ModuleID: "accounting", DepartmentID: "finance"},
		{ModuleID: "crm", DepartmentID: "sales"},
		{ModuleID: "quotes", DepartmentID: "sales"},
		{ModuleID: "inventory", DepartmentID: "operations"},
	}

	send := func(path string, body interface{}) (int, error) {
		var r io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				return 0, err
			}
			r = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(http.MethodPost, path, r)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()
		return resp.StatusCode, nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(modules)*2)
	for _, m := range modules {
		wg.Add(2)
		go func(m dto.ToggleModuleRequest) {
			defer wg.Done()
			status, err := send("/api/pricing/sessions/"+id+"/modules/toggle", m)
			if err == nil && status != http.StatusOK {
				err = fmt.Errorf("toggle %s: status %d", m.ModuleID, status)
			}
			errs <- err
		}(m)
		// peticiones a otra sesión reutilizan los buffers de fasthttp entre medio
		go func() {
			defer wg.Done()
			_, err := send("/api/pricing/sessions/"+otra+"/reset", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	resp := call(t, app, http.MethodGet, "/api/pricing/sessions/"+id, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decodeSession(t, resp)
	assert.Len(t, s.Snapshot.Selections, len(modules))
}

func TestSessions_Eliminar(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)

	resp := call(t, app, http.MethodDelete, "/api/pricing/sessions/"+id, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/pricing/sessions/"+id, nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, cotizaciones y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_Get(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/pricing/catalog", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CatalogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Departments, 4)
	assert.Len(t, out.Tiers, 3)
	assert.Contains(t, out.ExchangeRates, "usd")
}

func TestQuotes_Totals(t *testing.T) {
	app := newAPI(t)
	body := dto.QuoteTotalsRequest{
		TaxRate: decimal.NewFromInt(15),
		Items: []dto.QuoteLineItemRequest{
			{Description: "Licencias", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
	}
	resp := call(t, app, http.MethodPost, "/api/quotes/totals", body, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.QuoteTotalsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, decimal.NewFromInt(100).Equal(out.Subtotal))
	assert.True(t, decimal.NewFromInt(15).Equal(out.TaxAmount))
	assert.True(t, decimal.NewFromInt(115).Equal(out.Total))
	assert.Equal(t, "sar", out.Currency)
	assert.Equal(t, "115.00 SAR", out.TotalDisplay)
}

func TestQuotes_TotalsEnMonedaPedida(t *testing.T) {
	app := newAPI(t)
	body := dto.QuoteTotalsRequest{
		Currency: "usd",
		Items:    []dto.QuoteLineItemRequest{{Description: "Soporte", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1200)}},
	}
	resp := call(t, app, http.MethodPost, "/api/quotes/totals", body, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.QuoteTotalsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "usd", out.Currency)
	assert.Equal(t, "1,200.00 USD", out.TotalDisplay)
}

func TestQuotes_TotalsMonedaDesconocida_Retorna400(t *testing.T) {
	app := newAPI(t)
	body := dto.QuoteTotalsRequest{
		Currency: "eur",
		Items:    []dto.QuoteLineItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)}},
	}
	resp := call(t, app, http.MethodPost, "/api/quotes/totals", body, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuotes_TotalsSinLineas_Retorna400(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/quotes/totals", dto.QuoteTotalsRequest{}, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuotes_DocumentosDeSesion(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)
	call(t, app, http.MethodPost, "/api/pricing/sessions/"+id+"/modules/toggle", dto.ToggleModuleRequest{ModuleID: "accounting", DepartmentID: "finance"}, "").Body.Close()

	resp := call(t, app, http.MethodGet, "/api/pricing/sessions/"+id+"/xml", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Quote-Fingerprint"), 96)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "accounting")

	pdfResp := call(t, app, http.MethodGet, "/api/pricing/sessions/"+id+"/pdf", nil, "")
	defer pdfResp.Body.Close()
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	assert.Contains(t, pdfResp.Header.Get("Content-Disposition"), "cotizacion_")
}

func TestMetrics_Expuestas(t *testing.T) {
	app := newAPI(t)
	createSession(t, app)

	resp := call(t, app, http.MethodGet, "/metrics", nil, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "cotizador_breakdowns_total")
	assert.Contains(t, string(raw), "cotizador_http_requests_total")
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuraciones guardadas
// ──────────────────────────────────────────────────────────────────────────────

func TestConfigurations_RequierenToken(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/configurations", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConfigurations_LectorNoPuedeGuardar(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)
	resp := call(t, app, http.MethodPost, "/api/configurations",
		dto.SaveConfigurationRequest{SessionID: id, Name: "Propuesta"}, tokenForRole(t, pkgjwt.RoleViewer))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConfigurations_GuardarListarAbrir(t *testing.T) {
	app := newAPI(t)
	id := createSession(t, app)
	call(t, app, http.MethodPost, "/api/pricing/sessions/"+id+"/modules/toggle", dto.ToggleModuleRequest{ModuleID: "accounting", DepartmentID: "finance"}, "").Body.Close()
	auth := tokenForRole(t, pkgjwt.RoleSales)

	resp := call(t, app, http.MethodPost, "/api/configurations", dto.SaveConfigurationRequest{SessionID: id, Name: "Propuesta"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saved dto.SavedConfigurationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	resp.Body.Close()
	assert.Equal(t, int64(60), saved.Total)
	assert.Equal(t, testCompanyID, saved.CompanyID)

	resp = call(t, app, http.MethodPost, "/api/configurations", dto.SaveConfigurationRequest{SessionID: id, Name: "Propuesta"}, auth)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/configurations", nil, tokenForRole(t, pkgjwt.RoleViewer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.SavedConfigurationListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
	assert.Equal(t, 1, list.Page.Count)

	resp = call(t, app, http.MethodGet, "/api/configurations?limit=500", nil, tokenForRole(t, pkgjwt.RoleViewer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, 100, list.Page.Limit)

	resp = call(t, app, http.MethodPost, "/api/configurations/"+saved.ID+"/open", nil, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	opened := decodeSession(t, resp)
	assert.NotEqual(t, id, opened.ID)
	assert.True(t, decimal.NewFromInt(60).Equal(opened.Breakdown.Total))
}

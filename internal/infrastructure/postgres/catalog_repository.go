package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lee el catálogo de precios desde las tablas pricing_*.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// LoadCatalog lee departamentos, módulos, integraciones, planes y tasas y construye el catálogo validado.
func (r *CatalogRepo) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	departments, err := r.departments(ctx)
	if err != nil {
		return nil, err
	}
	modules, err := r.modules(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := r.tiers(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := r.rates(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(departments, modules, tiers, catalog.WithExchangeRates(rates))
}

func (r *CatalogRepo) departments(ctx context.Context) ([]entity.Department, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM pricing_departments ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *CatalogRepo) modules(ctx context.Context) ([]entity.Module, error) {
	query := `
		SELECT id, department_id, name, unit, min_quantity, max_quantity, step, free_units,
		       contact_us_threshold, monthly_price, annual_price
		FROM pricing_modules ORDER BY sort_order, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()
	var list []entity.Module
	index := make(map[string]int)
	for rows.Next() {
		var m entity.Module
		if err := rows.Scan(&m.ID, &m.Category, &m.Name, &m.Unit, &m.MinQuantity, &m.MaxQuantity,
			&m.Step, &m.FreeUnits, &m.ContactUsThreshold, &m.MonthlyPrice, &m.AnnualPrice); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		index[m.ID] = len(list)
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT module_id, id, name, pricing_type, monthly_price, annual_price
		FROM pricing_module_integrations ORDER BY module_id, sort_order, id`
	irows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	defer irows.Close()
	for irows.Next() {
		var moduleID string
		var in entity.Integration
		if err := irows.Scan(&moduleID, &in.ID, &in.Name, &in.PricingType, &in.MonthlyPrice, &in.AnnualPrice); err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		if i, ok := index[moduleID]; ok {
			list[i].Integrations = append(list[i].Integrations, in)
		}
	}
	return list, irows.Err()
}

func (r *CatalogRepo) tiers(ctx context.Context) ([]entity.Tier, error) {
	rows, err := r.q.Query(ctx, `SELECT name, base_price, discount FROM pricing_tiers ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	defer rows.Close()
	var list []entity.Tier
	for rows.Next() {
		var t entity.Tier
		if err := rows.Scan(&t.Name, &t.BasePrice, &t.Discount); err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *CatalogRepo) rates(ctx context.Context) (map[entity.Currency]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT currency, rate FROM pricing_exchange_rates`)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()
	rates := make(map[entity.Currency]decimal.Decimal)
	for rows.Next() {
		var cur string
		var rate decimal.Decimal
		if err := rows.Scan(&cur, &rate); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		rates[entity.Currency(cur)] = rate
	}
	return rates, rows.Err()
}

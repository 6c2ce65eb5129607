// Package catalogfile carga el catálogo de precios desde un archivo YAML, JSON o TOML vía Viper.
package catalogfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/catalog"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

type fileCatalog struct {
	Departments   []fileDepartment  `mapstructure:"departments"`
	Modules       []fileModule      `mapstructure:"modules"`
	Tiers         []fileTier        `mapstructure:"tiers"`
	ExchangeRates map[string]string `mapstructure:"exchange_rates"`
}

type fileDepartment struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

type fileModule struct {
	ID                 string            `mapstructure:"id"`
	Category           string            `mapstructure:"category"`
	Name               string            `mapstructure:"name"`
	Unit               string            `mapstructure:"unit"`
	MinQuantity        int               `mapstructure:"min_quantity"`
	MaxQuantity        int               `mapstructure:"max_quantity"`
	Step               int               `mapstructure:"step"`
	FreeUnits          int               `mapstructure:"free_units"`
	ContactUsThreshold *int              `mapstructure:"contact_us_threshold"`
	MonthlyPrice       string            `mapstructure:"monthly_price"`
	AnnualPrice        string            `mapstructure:"annual_price"`
	Integrations       []fileIntegration `mapstructure:"integrations"`
}

type fileIntegration struct {
	ID           string `mapstructure:"id"`
	Name         string `mapstructure:"name"`
	PricingType  string `mapstructure:"pricing_type"`
	MonthlyPrice string `mapstructure:"monthly_price"`
	AnnualPrice  string `mapstructure:"annual_price"`
}

type fileTier struct {
	Name      string `mapstructure:"name"`
	BasePrice string `mapstructure:"base_price"`
	Discount  string `mapstructure:"discount"`
}

// Loader implementa repository.CatalogRepository leyendo un archivo.
type Loader struct {
	path string
}

// NewLoader crea el loader; el formato se deduce de la extensión.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// LoadCatalog lee, decodifica y valida el archivo.
func (l *Loader) LoadCatalog(_ context.Context) (*catalog.Catalog, error) {
	v := viper.New()
	v.SetConfigFile(l.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer catálogo %s: %w", l.path, err)
	}
	return decode(v)
}

// Parse decodifica un catálogo desde un reader ya abierto (ej. stdin del CLI).
func Parse(format string, raw string) (*catalog.Catalog, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*catalog.Catalog, error) {
	var fc fileCatalog
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}

	departments := make([]entity.Department, 0, len(fc.Departments))
	for _, d := range fc.Departments {
		departments = append(departments, entity.Department{ID: d.ID, Name: d.Name})
	}

	modules := make([]entity.Module, 0, len(fc.Modules))
	for _, m := range fc.Modules {
		monthly, err := price(m.MonthlyPrice, "módulo "+m.ID+" monthly_price")
		if err != nil {
			return nil, err
		}
		annual, err := price(m.AnnualPrice, "módulo "+m.ID+" annual_price")
		if err != nil {
			return nil, err
		}
		mod := entity.Module{
			ID: m.ID, Category: m.Category, Name: m.Name, Unit: m.Unit,
			MinQuantity: m.MinQuantity, MaxQuantity: m.MaxQuantity, Step: m.Step, FreeUnits: m.FreeUnits,
			ContactUsThreshold: m.ContactUsThreshold,
			MonthlyPrice:       monthly,
			AnnualPrice:        annual,
		}
		for _, in := range m.Integrations {
			im, err := price(in.MonthlyPrice, "integración "+m.ID+"/"+in.ID+" monthly_price")
			if err != nil {
				return nil, err
			}
			ia, err := price(in.AnnualPrice, "integración "+m.ID+"/"+in.ID+" annual_price")
			if err != nil {
				return nil, err
			}
			mod.Integrations = append(mod.Integrations, entity.Integration{
				ID: in.ID, Name: in.Name, PricingType: in.PricingType, MonthlyPrice: im, AnnualPrice: ia,
			})
		}
		modules = append(modules, mod)
	}

	tiers := make([]entity.Tier, 0, len(fc.Tiers))
	for _, t := range fc.Tiers {
		base, err := price(t.BasePrice, "plan "+t.Name+" base_price")
		if err != nil {
			return nil, err
		}
		disc, err := price(t.Discount, "plan "+t.Name+" discount")
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, entity.Tier{Name: t.Name, BasePrice: base, Discount: disc})
	}

	var opts []catalog.Option
	if len(fc.ExchangeRates) > 0 {
		rates := make(map[entity.Currency]decimal.Decimal, len(fc.ExchangeRates))
		for cur, raw := range fc.ExchangeRates {
			r, err := price(raw, "exchange_rates."+cur)
			if err != nil {
				return nil, err
			}
			rates[entity.Currency(strings.ToLower(cur))] = r
		}
		opts = append(opts, catalog.WithExchangeRates(rates))
	}

	return catalog.New(departments, modules, tiers, opts...)
}

// price acepta "" como cero; cualquier otro valor debe ser un decimal válido.
func price(raw, field string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s=%q", domain.ErrInvalidCatalog, field, raw)
	}
	return d, nil
}

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Session SessionConfig
	Catalog CatalogConfig
	Pricing PricingConfig
	Quote   QuoteConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplica las migraciones embebidas al arrancar
	MaxConns    int
	ForceIPv4   bool // Docker sin IPv6
}

// Enabled indica si hay base de datos configurada. Sin ella no hay configuraciones guardadas.
func (c DBConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con la contraseña escapada.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión a Redis. Addr vacío = sesiones en memoria.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig duración de las sesiones de cotización.
type SessionConfig struct {
	TTL time.Duration
}

// CatalogConfig origen del catálogo: builtin, file o postgres.
type CatalogConfig struct {
	Source string
	Path   string
}

// PricingConfig valores iniciales de cada sesión.
type PricingConfig struct {
	DefaultCurrency string
	DefaultCycle    string
	DefaultTier     string
	ShowContactUs   bool
}

// QuoteConfig datos de los documentos de cotización (PDF/XML).
type QuoteConfig struct {
	Issuer  string
	TaxRate decimal.Decimal // fracción (0.15) o porcentaje (15)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_ADDR, PRICING_DEFAULT_TIER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "cotizador-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "cotizador"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", true),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 8),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "cotizador-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL: time.Duration(getInt(v, "SESSION_TTL_MINUTES", 120)) * time.Minute,
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(getString(v, "CATALOG_SOURCE", "builtin")),
			Path:   getString(v, "CATALOG_PATH", ""),
		},
		Pricing: PricingConfig{
			DefaultCurrency: strings.ToLower(getString(v, "PRICING_DEFAULT_CURRENCY", "sar")),
			DefaultCycle:    strings.ToLower(getString(v, "PRICING_DEFAULT_CYCLE", "monthly")),
			DefaultTier:     getString(v, "PRICING_DEFAULT_TIER", "starter"),
			ShowContactUs:   getBool(v, "PRICING_SHOW_CONTACT_US", false),
		},
		Quote: QuoteConfig{
			Issuer: getString(v, "QUOTE_ISSUER", "Cotizador"),
		},
	}

	rate, err := decimal.NewFromString(getString(v, "QUOTE_TAX_RATE", "15"))
	if err != nil || rate.IsNegative() {
		return nil, fmt.Errorf("config: QUOTE_TAX_RATE inválido")
	}
	cfg.Quote.TaxRate = rate

	switch cfg.Catalog.Source {
	case "builtin", "postgres":
	case "file":
		if cfg.Catalog.Path == "" {
			return nil, fmt.Errorf("config: CATALOG_SOURCE=file requiere CATALOG_PATH")
		}
	default:
		return nil, fmt.Errorf("config: CATALOG_SOURCE desconocido %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.Source == "postgres" && !cfg.DB.Enabled() {
		return nil, fmt.Errorf("config: CATALOG_SOURCE=postgres requiere DATABASE_URL o DB_HOST")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

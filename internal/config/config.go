package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Receipt   ReceiptConfig
	Redis     RedisConfig
	Metrics   MetricsConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// UpstreamConfig points at the REST backend that owns products, sales and quotations.
type UpstreamConfig struct {
	BaseURL        string
	Timeout        time.Duration
	CatalogMaxAge  time.Duration
	MaxSearchItems int
}

// DatabaseConfig is optional. Without a host, idempotency keys live in memory.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	SpoolDir  string
	CharWidth int
}

// ReceiptConfig holds the business identity printed on tickets.
type ReceiptConfig struct {
	BusinessName  string
	AddressLines  []string
	Notice        string
	Thanks        string
	ContactLines  []string
	Customer      string
	TimeZone      string
	ThermalHeight float64
}

// RedisConfig is optional. Without an address the catalog cache and the
// submit guard stay in process.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	LockTTL  time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		GetLogger().WithError(err).Warn(".env file not found, using environment variables")
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pos-terminal")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3001/api")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	viper.SetDefault("CATALOG_MAX_AGE_SECONDS", 300)
	viper.SetDefault("SEARCH_MAX_ITEMS", 50)
	viper.SetDefault("DB_HOST", "")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_terminal")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Mexico_City")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "pos-backend")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_SPOOL_DIR", "./spool")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("RECEIPT_BUSINESS_NAME", "CLIMAS GAMA")
	viper.SetDefault("RECEIPT_ADDRESS_LINES", "Prol. Av. Juárez #435, Tinajas|Cuajimalpa de Morelos|05360 Ciudad de México, CDMX")
	viper.SetDefault("RECEIPT_NOTICE", "NO SE ACEPTAN CAMBIOS NI DEVOLUCIONES")
	viper.SetDefault("RECEIPT_THANKS", "¡Gracias por su compra!")
	viper.SetDefault("RECEIPT_CONTACT_LINES", "Si requiere factura, enviar ticket|y CSF al WhatsApp:|5569700587")
	viper.SetDefault("RECEIPT_CUSTOMER", "Público en General")
	viper.SetDefault("RECEIPT_TIMEZONE", "America/Mexico_City")
	viper.SetDefault("RECEIPT_THERMAL_HEIGHT_MM", 200)
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_LOCK_TTL_SECONDS", 30)
	viper.SetDefault("METRICS_ENABLED", false)
	viper.SetDefault("METRICS_PATH", "/metrics")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimRight(viper.GetString("UPSTREAM_BASE_URL"), "/"),
			Timeout:        time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
			CatalogMaxAge:  time.Duration(viper.GetInt("CATALOG_MAX_AGE_SECONDS")) * time.Second,
			MaxSearchItems: viper.GetInt("SEARCH_MAX_ITEMS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			Issuer: viper.GetString("JWT_ISSUER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			SpoolDir:  viper.GetString("PRINTER_SPOOL_DIR"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Receipt: ReceiptConfig{
			BusinessName:  viper.GetString("RECEIPT_BUSINESS_NAME"),
			AddressLines:  splitLines(viper.GetString("RECEIPT_ADDRESS_LINES")),
			Notice:        viper.GetString("RECEIPT_NOTICE"),
			Thanks:        viper.GetString("RECEIPT_THANKS"),
			ContactLines:  splitLines(viper.GetString("RECEIPT_CONTACT_LINES")),
			Customer:      viper.GetString("RECEIPT_CUSTOMER"),
			TimeZone:      viper.GetString("RECEIPT_TIMEZONE"),
			ThermalHeight: viper.GetFloat64("RECEIPT_THERMAL_HEIGHT_MM"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("REDIS_ADDRESS"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			LockTTL:  time.Duration(viper.GetInt("REDIS_LOCK_TTL_SECONDS")) * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
			Path:    viper.GetString("METRICS_PATH"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func (c *RedisConfig) Enabled() bool {
	return c.Address != ""
}

// Location resolves the receipt time zone, falling back to UTC.
func (c *ReceiptConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// multi-line values are pipe separated in the environment
func splitLines(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

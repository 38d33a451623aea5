package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=b3yield
//	POSTGRES_SSLMODE=disable
//	PRICING_CALENDAR=ANBIMA
//	PRICING_DECIMAL_PRECISION=40
//	PRICING_BOND_TRUNCATION=total
//	PRICING_PARALLEL=0
//	RATE_LIMIT_PER_MINUTE=60
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	Pricing   PricingConfig   // Pricing engine defaults
	RateLimit RateLimitConfig // Per-client request budget
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: optional full DSN (POSTGRES_URL) that overrides the fields above.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// PricingConfig tunes the pricing service.
//
// Fields:
//   - Calendar: calendar used when a request names none.
//   - DecimalPrecision: significant digits kept by decimal division and powers.
//   - BondTruncation: "total" truncates the summed price, "flow" each discounted flow.
//   - Parallel: batch pricing workers; 0 selects the CPU count.
type PricingConfig struct {
	Calendar         string
	DecimalPrecision int
	BondTruncation   string
	Parallel         int
}

// RateLimitConfig bounds requests per client IP. PerMinute <= 0 disables limiting.
type RateLimitConfig struct {
	PerMinute int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "b3yield")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("PRICING_CALENDAR", "ANBIMA")
	viper.SetDefault("PRICING_DECIMAL_PRECISION", 40)
	viper.SetDefault("PRICING_BOND_TRUNCATION", "total")
	viper.SetDefault("PRICING_PARALLEL", 0)

	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
			URL:      viper.GetString("POSTGRES_URL"),
		},
		Pricing: PricingConfig{
			Calendar:         strings.ToUpper(strings.TrimSpace(viper.GetString("PRICING_CALENDAR"))),
			DecimalPrecision: viper.GetInt("PRICING_DECIMAL_PRECISION"),
			BondTruncation:   strings.ToLower(strings.TrimSpace(viper.GetString("PRICING_BOND_TRUNCATION"))),
			Parallel:         viper.GetInt("PRICING_PARALLEL"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
	}

	validateConfig()
}

// problems lists missing or out-of-range settings of c.
func problems(c Config) []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if c.Pricing.Calendar == "" {
		missing = append(missing, "PRICING_CALENDAR")
	}
	if c.Pricing.DecimalPrecision < 16 {
		missing = append(missing, "PRICING_DECIMAL_PRECISION (>= 16)")
	}
	switch c.Pricing.BondTruncation {
	case "total", "flow":
	default:
		missing = append(missing, "PRICING_BOND_TRUNCATION (total|flow)")
	}
	if c.Pricing.Parallel < 0 {
		missing = append(missing, "PRICING_PARALLEL (>= 0)")
	}
	return missing
}

// validateConfig terminates the application when required settings are
// missing or invalid.
func validateConfig() {
	if missing := problems(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerPort  int
	Environment string

	// Database configuration
	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBAutoMigrate    bool
	DBMigrationsPath string

	// Auth configuration
	Auth0Domain    string
	AuthIssuer     string
	AuthAudience   string
	AuthAlgorithms []string
	AuthLeeway     time.Duration

	// JWKS configuration
	JWKSURL                string
	JWKSFetchTimeout       time.Duration
	JWKSMinRefreshInterval time.Duration

	// HTTP configuration
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		// Server defaults
		ServerPort:  8080,
		Environment: "production",

		// Database defaults
		DBHost:           "localhost",
		DBPort:           5432,
		DBUser:           "postgres",
		DBPassword:       "postgres",
		DBName:           "coffee_shop",
		DBMigrationsPath: "migrations",

		// Auth defaults
		AuthAlgorithms: []string{"RS256"},

		// JWKS defaults
		JWKSFetchTimeout:       5 * time.Second,
		JWKSMinRefreshInterval: 30 * time.Second,

		// HTTP defaults
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       100,
		RateLimitBurst:     200,
	}
}

// LoadConfig loads configuration from environment variables and validates
// the settings required to verify tokens
func LoadConfig() (*Config, error) {
	cfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabaseConfig loads configuration from environment variables without
// requiring the auth settings. Used by tools that only talk to the database.
func LoadDatabaseConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	cfg := NewConfig()
	var err error

	if cfg.ServerPort, err = getEnvInt("PORT", cfg.ServerPort); err != nil {
		return nil, err
	}
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)

	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	if cfg.DBPort, err = getEnvInt("DB_PORT", cfg.DBPort); err != nil {
		return nil, err
	}
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	if cfg.DBAutoMigrate, err = getEnvBool("DB_AUTO_MIGRATE", cfg.DBAutoMigrate); err != nil {
		return nil, err
	}
	cfg.DBMigrationsPath = getEnv("DB_MIGRATIONS_PATH", cfg.DBMigrationsPath)

	cfg.Auth0Domain = strings.TrimSuffix(strings.TrimPrefix(getEnv("AUTH0_DOMAIN", ""), "https://"), "/")
	cfg.AuthAudience = getEnv("AUTH_AUDIENCE", "")
	cfg.AuthIssuer = getEnv("AUTH_ISSUER", "")
	cfg.JWKSURL = getEnv("JWKS_URL", "")
	if cfg.Auth0Domain != "" {
		if cfg.AuthIssuer == "" {
			cfg.AuthIssuer = fmt.Sprintf("https://%s/", cfg.Auth0Domain)
		}
		if cfg.JWKSURL == "" {
			cfg.JWKSURL = fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.Auth0Domain)
		}
	}
	if algs := getEnvList("AUTH_ALGORITHMS"); len(algs) > 0 {
		cfg.AuthAlgorithms = algs
	}
	if cfg.AuthLeeway, err = getEnvDuration("AUTH_CLOCK_LEEWAY", cfg.AuthLeeway); err != nil {
		return nil, err
	}

	if cfg.JWKSFetchTimeout, err = getEnvDuration("JWKS_FETCH_TIMEOUT", cfg.JWKSFetchTimeout); err != nil {
		return nil, err
	}
	if cfg.JWKSMinRefreshInterval, err = getEnvDuration("JWKS_MIN_REFRESH_INTERVAL", cfg.JWKSMinRefreshInterval); err != nil {
		return nil, err
	}

	if origins := getEnvList("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.CORSAllowedOrigins = origins
	}
	if value, exists := os.LookupEnv("RATE_LIMIT_RPS"); exists {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(value, 64); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the settings required to verify tokens are present
func (c *Config) Validate() error {
	if c.AuthAudience == "" {
		return errors.New("AUTH_AUDIENCE is required")
	}
	if c.AuthIssuer == "" {
		return errors.New("AUTH_ISSUER or AUTH0_DOMAIN is required")
	}
	if c.JWKSURL == "" {
		return errors.New("JWKS_URL or AUTH0_DOMAIN is required")
	}
	if len(c.AuthAlgorithms) == 0 {
		return errors.New("AUTH_ALGORITHMS must list at least one algorithm")
	}
	if c.JWKSFetchTimeout <= 0 {
		return errors.New("JWKS_FETCH_TIMEOUT must be positive")
	}
	return nil
}

// DatabaseURL returns the connection URL used by migrations
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// DatabaseDSN returns the keyword/value connection string used by pgx
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return intValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return boolValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

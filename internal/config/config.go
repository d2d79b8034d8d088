// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"tutor-ledger/pkg/db"
)

// AppConfig holds all application-wide configuration, loaded from
// environment variables (with a best-effort .env for local development).
type AppConfig struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost            string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort            int           `envconfig:"DB_PORT" default:"5432"`
	DBUser            string        `envconfig:"DB_USER" default:"ledger"`
	DBPassword        string        `envconfig:"DB_PASSWORD" default:"ledger"`
	DBName            string        `envconfig:"DB_NAME" default:"tutorledger"`
	DBSSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`

	PaymentProvider string        `envconfig:"PAYMENT_PROVIDER" default:"mockpay"`
	PaymentBaseURL  string        `envconfig:"PAYMENT_BASE_URL" default:"https://pay.example.com"`
	PaymentExpiry   time.Duration `envconfig:"PAYMENT_EXPIRY" default:"30m"`
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *AppConfig) Validate() error {
	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		return fmt.Errorf("invalid DB_MAX_OPEN_CONNS/DB_MAX_IDLE_CONNS combination")
	}
	if c.PaymentExpiry <= 0 {
		return fmt.Errorf("PAYMENT_EXPIRY must be positive")
	}
	return nil
}

// DBConfig maps the app configuration onto the database package's Config.
func (c *AppConfig) DBConfig() db.Config {
	return db.Config{
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		DBName:          c.DBName,
		SSLMode:         c.DBSSLMode,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

// LoadConfig loads configuration from the environment. A missing .env file
// is not an error.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

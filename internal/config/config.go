package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Razorpay struct {
		KeyID         string `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
		KeySecret     string `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
		WebhookSecret string `yaml:"webhook_secret" env:"RAZORPAY_WEBHOOK_SECRET"`
		Currency      string `yaml:"currency" env:"RAZORPAY_CURRENCY"`
		BaseURL       string `yaml:"base_url" env:"RAZORPAY_BASE_URL"`
	} `yaml:"razorpay"`

	Payment struct {
		// PendingOrderWindow bounds how long a CREATED order blocks new
		// attempts for the same student/course/semester.
		PendingOrderWindow string `yaml:"pending_order_window" env:"PAYMENT_PENDING_ORDER_WINDOW"`
	} `yaml:"payment"`

	Admin struct {
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
	} `yaml:"admin"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file, when present, is loaded into the environment first.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment variables win over file values
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "campuspay"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "campuspay.app"

	// Payment defaults
	config.Razorpay.Currency = "INR"
	config.Payment.PendingOrderWindow = "15m"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Razorpay.KeyID == "" || config.Razorpay.KeySecret == "" {
		return fmt.Errorf("razorpay key id and key secret are required")
	}

	if config.Razorpay.WebhookSecret == "" {
		return fmt.Errorf("razorpay webhook secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Payment.PendingOrderWindow); err != nil {
		return fmt.Errorf("invalid pending order window format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// PendingOrderWindow returns the duplicate-order guard window as a duration
func (c *Config) PendingOrderWindowDuration() time.Duration {
	window, err := time.ParseDuration(c.Payment.PendingOrderWindow)
	if err != nil {
		return 15 * time.Minute
	}
	return window
}

// AccessTokenExpirationDuration returns the JWT lifetime as a duration
func (c *Config) AccessTokenExpirationDuration() time.Duration {
	exp, err := time.ParseDuration(c.JWT.AccessTokenExpiration)
	if err != nil {
		return time.Hour
	}
	return exp
}

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Database holds the PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Auth holds session-token settings.
type Auth struct {
	JWTSecret    string
	ExpiresHours int
}

// PayPal holds the payment provider credentials.
type PayPal struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// DoorDash holds the delivery provider credentials.
type DoorDash struct {
	BaseURL       string
	DeveloperID   string
	KeyID         string
	SigningSecret string // base64-encoded, as issued by the provider
}

// Config is the full environment-driven configuration of the service.
type Config struct {
	Port     string
	Database Database
	Auth     Auth
	PayPal   PayPal
	DoorDash DoorDash
}

// Load reads configuration from the environment, after loading .env if one
// is present. Missing database settings are an error; provider credentials
// may be empty when the corresponding endpoints are unused.
func Load() (Config, error) {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8080"),
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     envOr("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		Auth: Auth{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			ExpiresHours: 24,
		},
		PayPal: PayPal{
			BaseURL:      envOr("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
			ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
			ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		},
		DoorDash: DoorDash{
			BaseURL:       envOr("DOORDASH_BASE_URL", "https://openapi.doordash.com"),
			DeveloperID:   os.Getenv("DOORDASH_DEVELOPER_ID"),
			KeyID:         os.Getenv("DOORDASH_KEY_ID"),
			SigningSecret: os.Getenv("DOORDASH_SIGNING_SECRET"),
		},
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Name == "" {
		return Config{}, fmt.Errorf("missing required database environment variables")
	}
	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

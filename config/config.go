package config

import (
	"os"
	"strconv"
	"strings"
)

// PayPalConfig selects between the sandbox and live REST endpoints.
// BaseURL, when set, overrides the mode-derived endpoint (used by
// tests and for on-prem mocks).
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Mode         string // sandbox | live
	BaseURL      string
	Currency     string
}

// Config is built once in main and passed into constructors. Core
// logic never reads the environment directly.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret          string
	TokenExpireMinutes int

	StorageDir string
	HotelName  string

	CORSOrigins []string

	PayPal PayPalConfig
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envIntOrDefault(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func parseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Load reads the process environment into a Config. godotenv (if used)
// must have been loaded before calling this.
func Load() *Config {
	return &Config{
		Port:               envOrDefault("PORT", "8080"),
		DatabaseURL:        envOrDefault("DATABASE_URL", ""),
		JWTSecret:          envOrDefault("JWT_SECRET", ""),
		TokenExpireMinutes: envIntOrDefault("TOKEN_EXPIRE_MINUTES", 60*24),
		StorageDir:         envOrDefault("STORAGE_DIR", "./storage"),
		HotelName:          envOrDefault("HOTEL_NAME", "Hotel Ventura"),
		CORSOrigins:        parseOrigins(os.Getenv("CORS_ORIGINS")),
		PayPal: PayPalConfig{
			ClientID:     envOrDefault("PAYPAL_CLIENT_ID", ""),
			ClientSecret: envOrDefault("PAYPAL_CLIENT_SECRET", ""),
			Mode:         envOrDefault("PAYPAL_MODE", "sandbox"),
			BaseURL:      envOrDefault("PAYPAL_BASE_URL", ""),
			Currency:     envOrDefault("PAYPAL_CURRENCY", "USD"),
		},
	}
}

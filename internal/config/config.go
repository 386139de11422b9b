package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Scopes is the fixed OAuth scope set the app requests on install.
const Scopes = "read_customers,write_customers,read_orders,write_orders,write_discounts,read_discounts,read_products,write_draft_orders,read_draft_orders"

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	AppBaseURL  string
	Shopify     ShopifyConfig
	Session     SessionConfig
}

// ShopifyConfig holds the app credentials used for OAuth and the Admin
// API version appended to every GraphQL endpoint URL.
type ShopifyConfig struct {
	ClientID     string
	ClientSecret string
	APIVersion   string
	Scopes       string
}

type SessionConfig struct {
	CookieName string
	TTLMinutes int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2025-04")
	viper.SetDefault("SESSION_COOKIE_NAME", "app_session")
	viper.SetDefault("SESSION_TTL_MINUTES", "720")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		AppBaseURL:  strings.TrimSuffix(strings.TrimSpace(getEnvOrViper("APP_BASE_URL", "http://localhost:8080")), "/"),
		Shopify: ShopifyConfig{
			ClientID:     strings.TrimSpace(getEnvOrViper("SHOPIFY_CLIENT_ID", "")),
			ClientSecret: strings.TrimSpace(getEnvOrViper("SHOPIFY_CLIENT_SECRET", "")),
			APIVersion:   getEnvOrViper("SHOPIFY_API_VERSION", "2025-04"),
			Scopes:       Scopes,
		},
		Session: SessionConfig{
			CookieName: getEnvOrViper("SESSION_COOKIE_NAME", "app_session"),
			TTLMinutes: viper.GetInt("SESSION_TTL_MINUTES"),
		},
	}
	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 720
	}

	// Validate required fields
	if cfg.Shopify.ClientID == "" {
		return nil, fmt.Errorf("SHOPIFY_CLIENT_ID is required")
	}
	if cfg.Shopify.ClientSecret == "" {
		return nil, fmt.Errorf("SHOPIFY_CLIENT_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

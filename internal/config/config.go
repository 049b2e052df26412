package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-sourced setting the backend needs. It is
// built once at process start and passed into components; request handlers
// never read the environment directly.
type Config struct {
	Port          string
	AppURL        string
	ClientID      string
	ClientSecret  string
	Scopes        []string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string

	// SessionTTL bounds how long an install session stays consumable.
	SessionTTL time.Duration

	// HTTPTimeout bounds both outbound Shopify calls.
	HTTPTimeout time.Duration
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AppURL:        strings.TrimSuffix(getEnv("APP_URL", "http://localhost:8080"), "/"),
		ClientID:      os.Getenv("SHOPIFY_API_KEY"),
		ClientSecret:  os.Getenv("SHOPIFY_API_SECRET"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "supportflow"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SessionTTL:    10 * time.Minute,
		HTTPTimeout:   10 * time.Second,
	}

	scopes := getEnv("SHOPIFY_SCOPES", "read_orders")
	for _, scope := range strings.Split(scopes, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			cfg.Scopes = append(cfg.Scopes, scope)
		}
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}

	return cfg, nil
}

// RedirectURI is the callback endpoint registered with Shopify.
func (c *Config) RedirectURI() string {
	return c.AppURL + "/auth/callback"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

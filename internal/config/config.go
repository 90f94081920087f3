// Package config loads the service configuration from the environment once,
// so services receive it as injected read-only data instead of reaching for
// os.Getenv at call sites.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string

	AsaasBaseURL string
	AsaasAPIKey  string

	JWTSecret     string
	WebhookToken  string
	RedisAddr     string // empty disables the organization cache
	RedisPassword string
}

// Load reads .env (if present) and the process environment. MONGOURI and
// ASAAS_API_KEY are required.
func Load() (*Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		MongoURI:      os.Getenv("MONGOURI"),
		DatabaseName:  getenv("MONGO_DATABASE", "adotapetdb"),
		AsaasBaseURL:  getenv("ASAAS_BASE_URL", "https://api.asaas.com/v3"),
		AsaasAPIKey:   os.Getenv("ASAAS_API_KEY"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		WebhookToken:  os.Getenv("ASAAS_WEBHOOK_TOKEN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGOURI environment variable not set")
	}
	if cfg.AsaasAPIKey == "" {
		return nil, fmt.Errorf("ASAAS_API_KEY environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GatewayURL    string
	RedisURL      string
	SessionTTLMin int
	Environment   string
	TemplateGlob  string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine in deployed environments; variables come
	// from the process environment there.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "3000"),
		GatewayURL:    getEnv("GATEWAY_URL", "http://localhost:8765"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTLMin: getEnvInt("SESSION_TTL_MINUTES", 600),
		Environment:   getEnv("ENVIRONMENT", "development"),
		TemplateGlob:  getEnv("TEMPLATE_GLOB", "web/templates/*.html"),
		Events:        loadEventConfig(),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

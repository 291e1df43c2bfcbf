package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	WebhookURL       string
	WebhookTimeout   time.Duration
	StatusCacheTTL   time.Duration
	CORSOrigins      string
	CheckinRateLimit int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FOCUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Focus Mentor API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3333")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("webhook.timeout", "5s")
	v.SetDefault("status.cache_ttl", "30m")
	v.SetDefault("checkin.rate_limit", 30)

	webhookTimeout, err := time.ParseDuration(v.GetString("webhook.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid webhook timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("status.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid status cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		WebhookURL:       v.GetString("webhook.url"),
		WebhookTimeout:   webhookTimeout,
		StatusCacheTTL:   cacheTTL,
		CORSOrigins:      v.GetString("cors.origins"),
		CheckinRateLimit: v.GetInt("checkin.rate_limit"),
	}

	if cfg.CheckinRateLimit <= 0 {
		cfg.CheckinRateLimit = 30
	}

	return cfg, nil
}

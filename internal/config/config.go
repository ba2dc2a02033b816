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

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Gateway credentials. All three are required at boot.
	StoreDomain     string
	StorefrontToken string
	SiteURL         string
	APIVersion      string

	// Optional backing stores for non-authoritative data.
	DBConnString  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CookieSecure   bool
	AllowedOrigins []string
}

// Load reads an optional .env file and then builds Config from the environment.
func Load() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	siteURL := strings.TrimSuffix(envOrDefault("SITE_URL", ""), "/")
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		StoreDomain:     envOrDefault("STORE_DOMAIN", ""),
		StorefrontToken: envOrDefault("STOREFRONT_ACCESS_TOKEN", ""),
		SiteURL:         siteURL,
		APIVersion:      envOrDefault("STOREFRONT_API_VERSION", "2024-10"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		RedisAddr:       envOrDefault("REDIS_ADDR", ""),
		RedisPassword:   envOrDefault("REDIS_PASSWORD", ""),
		RedisDB:         envInt("REDIS_DB", 0),
		CookieSecure:    envBool("COOKIE_SECURE", strings.HasPrefix(siteURL, "https://")),
		AllowedOrigins:  envList("CORS_ALLOWED_ORIGINS", siteURL),
	}
}

// Validate reports every missing setting the storefront cannot start without.
func (c Config) Validate() error {
	var missing []string
	if c.StoreDomain == "" {
		missing = append(missing, "STORE_DOMAIN")
	}
	if c.StorefrontToken == "" {
		missing = append(missing, "STOREFRONT_ACCESS_TOKEN")
	}
	if c.SiteURL == "" {
		missing = append(missing, "SITE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(c.SiteURL, "http://") && !strings.HasPrefix(c.SiteURL, "https://") {
		return errors.New("SITE_URL must be an absolute http(s) URL")
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key, def string) []string {
	raw := envOrDefault(key, def)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

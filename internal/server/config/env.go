package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays environment variables onto config. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it. Malformed numeric or duration values
// are ignored and the previous value is kept.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	lookupString("HTTP_ADDR", &config.EndpointAddrHTTP)
	lookupString("METRICS_ADDR", &config.MetricsAddr)
	lookupString("DATABASE_URL", &config.DatabaseDSN)
	lookupString("SESSION_SECRET", &config.SecretKey)

	if v, ok := os.LookupEnv("SESSION_MAX_AGE"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionValidityDuration = d
		}
	}

	if v, ok := os.LookupEnv("VERCEL_URL"); ok && v != "" {
		config.BaseURL = "https://" + v
	}
	lookupString("BASE_URL", &config.BaseURL)

	lookupString("EMAIL_SERVER", &config.SMTPHost)
	if v, ok := os.LookupEnv("EMAIL_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = port
		}
	}
	lookupString("EMAIL_USER", &config.SMTPUser)
	lookupString("EMAIL_PASSWORD", &config.SMTPPassword)
	lookupString("EMAIL_FROM", &config.SMTPFrom)

	lookupString("APP_ENV", &config.Environment)
	lookupString("LOG_LEVEL", &config.LogLevel)
	lookupString("ASSETS_DIR", &config.AssetsDir)
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

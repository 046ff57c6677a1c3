package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/funrun/internal/flagx"
	"github.com/dmitrijs2005/funrun/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// timex.Duration so both "1h" and integer nanoseconds are accepted. Only
// keys present in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP           *string         `json:"endpoint_addr_http"`
	MetricsAddr                *string         `json:"metrics_addr"`
	DatabaseDSN                *string         `json:"database_dsn"`
	SecretKey                  *string         `json:"secret_key"`
	SessionValidityDuration    *timex.Duration `json:"session_validity_duration"`
	ResetTokenValidityDuration *timex.Duration `json:"reset_token_validity_duration"`
	BaseURL                    *string         `json:"base_url"`
	SMTPHost                   *string         `json:"smtp_host"`
	SMTPPort                   *int            `json:"smtp_port"`
	SMTPUser                   *string         `json:"smtp_user"`
	SMTPPassword               *string         `json:"smtp_password"`
	SMTPFrom                   *string         `json:"smtp_from"`
	Environment                *string         `json:"environment"`
	LogLevel                   *string         `json:"log_level"`
	AssetsDir                  *string         `json:"assets_dir"`
}

// parseJson overlays the file named by -c/-config in args onto config.
// Nothing happens when no file is given; an unreadable or invalid file
// panics, as a broken config must stop the server from starting.
func parseJson(config *Config, args []string) {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return
	}

	c, err := readJson(path)
	if err != nil {
		panic(err)
	}
	c.apply(config)
}

func readJson(path string) (*JsonConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration != nil {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.AssetsDir, c.AssetsDir)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

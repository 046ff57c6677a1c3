package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-m", ":9200", "-d", "db", "-s", "secret",
				"-t", "60", "-r", "15", "-b", "https://run.example.com", "-e", "production", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrHTTP:           "127.0.0.1:9090",
				MetricsAddr:                ":9200",
				DatabaseDSN:                "db",
				SecretKey:                  "secret",
				SessionValidityDuration:    time.Hour,
				ResetTokenValidityDuration: 15 * time.Minute,
				BaseURL:                    "https://run.example.com",
				Environment:                "production",
				LogLevel:                   "debug",
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"cmd", "-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{
				EndpointAddrHTTP: ":1",
			},
		},
		{
			name:        "bad integer panics",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-d", "postgres://db", "-x", "1"},
			allowedFlags: []string{"-d", "-a"},
			want:         []string{"-d", "postgres://db"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-a=:8080", "--verbose"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a=:8080"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-s"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s"},
		},
		{
			name:         "next dash-starting token is not a value",
			args:         []string{"-c", "-config=alt.json"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "-config=alt.json"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-b", "http://one", "-b", "http://two"},
			allowedFlags: []string{"-b"},
			want:         []string{"-b", "http://one", "-b", "http://two"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	t.Run("short -c", func(t *testing.T) {
		assert.Equal(t, "/etc/funrun.json", JsonConfigFlags([]string{"-c", "/etc/funrun.json"}))
	})

	t.Run("long -config among server flags", func(t *testing.T) {
		args := []string{"-a", ":3000", "-config", "/etc/funrun.json", "-d", "dsn"}
		assert.Equal(t, "/etc/funrun.json", JsonConfigFlags(args))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Empty(t, JsonConfigFlags([]string{"-a", ":3000"}))
	})

	t.Run("last wins", func(t *testing.T) {
		assert.Equal(t, "/2.json", JsonConfigFlags([]string{"-c", "/1.json", "-config", "/2.json"}))
	})
}

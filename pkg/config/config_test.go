package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "https://sfpl.bibliocommons.com", config.Site.BaseURL)
	assert.Equal(t, EraAjax, config.Site.Era)
	assert.Equal(t, 30*time.Second, config.Site.Timeout)
	assert.Equal(t, "./jackets", config.Output.JacketDirectory)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SFPL_BASE_URL", "http://localhost:8080")
	t.Setenv("SFPL_ERA", "LEGACY")
	t.Setenv("SFPL_TIMEOUT", "5s")
	t.Setenv("SFPL_BARCODE", "21223012345678")
	t.Setenv("SFPL_PIN", "1234")
	t.Setenv("SFPL_JACKET_DIR", "/tmp/jackets")
	t.Setenv("SFPL_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080", config.Site.BaseURL)
	assert.Equal(t, EraLegacy, config.Site.Era)
	assert.Equal(t, 5*time.Second, config.Site.Timeout)
	assert.Equal(t, "21223012345678", config.Account.Barcode)
	assert.Equal(t, "1234", config.Account.PIN)
	assert.Equal(t, "/tmp/jackets", config.Output.JacketDirectory)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvBadTimeout(t *testing.T) {
	t.Setenv("SFPL_TIMEOUT", "soon")

	config := DefaultConfig()
	assert.Error(t, config.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
		},
		{
			name:      "missing base url",
			mutate:    func(c *Config) { c.Site.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "non http base url",
			mutate:    func(c *Config) { c.Site.BaseURL = "ftp://sfpl" },
			wantError: true,
		},
		{
			name:      "unknown era",
			mutate:    func(c *Config) { c.Site.Era = "future" },
			wantError: true,
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.Site.Timeout = 0 },
			wantError: true,
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
		{
			name:   "legacy era",
			mutate: func(c *Config) { c.Site.Era = EraLegacy },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
site:
  era: legacy
  timeout: 10s
account:
  barcode: "2122300000"
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, EraLegacy, config.Site.Era)
	assert.Equal(t, 10*time.Second, config.Site.Timeout)
	assert.Equal(t, "2122300000", config.Account.Barcode)
	assert.Equal(t, "warn", config.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "https://sfpl.bibliocommons.com", config.Site.BaseURL)
}

func TestLoadFromTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[site]
era = "legacy"
base_url = "http://127.0.0.1:9999"

[output]
jacket_directory = "covers"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, EraLegacy, config.Site.Era)
	assert.Equal(t, "http://127.0.0.1:9999", config.Site.BaseURL)
	assert.Equal(t, "covers", config.Output.JacketDirectory)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			original := DefaultConfig()
			original.Site.Era = EraLegacy
			original.Account.Barcode = "999"
			original.Account.PIN = "secret"
			require.NoError(t, original.Save(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "secret")

			loaded := DefaultConfig()
			require.NoError(t, loaded.LoadFromFile(path))
			assert.Equal(t, EraLegacy, loaded.Site.Era)
			assert.Equal(t, "999", loaded.Account.Barcode)
			assert.Empty(t, loaded.Account.PIN)
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"era":        "legacy",
		"timeout":    2 * time.Second,
		"barcode":    "42",
		"jacket-dir": "out",
		"no-color":   true,
		"log-level":  "error",
		"base-url":   "",
	})

	assert.Equal(t, EraLegacy, config.Site.Era)
	assert.Equal(t, 2*time.Second, config.Site.Timeout)
	assert.Equal(t, "42", config.Account.Barcode)
	assert.Equal(t, "out", config.Output.JacketDirectory)
	assert.False(t, config.Output.Color)
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, "https://sfpl.bibliocommons.com", config.Site.BaseURL)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\nsite:\n  era: legacy\n"), 0600))

	t.Setenv("HOME", dir)
	t.Setenv("SFPL_LOG_LEVEL", "error")

	config, err := Load(path, map[string]interface{}{"log-level": "debug"})
	require.NoError(t, err)

	// flag beats env beats file
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, EraLegacy, config.Site.Era)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SFPL_ERA", "bogus")

	_, err := Load("", nil)
	assert.Error(t, err)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Site eras. Each selects a different set of extraction rules.
const (
	EraAjax   = "ajax"
	EraLegacy = "legacy"
)

// Config holds all configuration options for the sfpl client
type Config struct {
	// Catalog site settings
	Site SiteConfig `yaml:"site" json:"site" toml:"site"`

	// Patron account used when no stored credentials are selected
	Account AccountConfig `yaml:"account" json:"account" toml:"account"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output" toml:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging" toml:"logging"`
}

// SiteConfig describes the catalog being scraped
type SiteConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url" toml:"base_url"`
	HoursURL  string        `yaml:"hours_url" json:"hours_url" toml:"hours_url"`
	Era       string        `yaml:"era" json:"era" toml:"era"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" toml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" toml:"timeout"`
}

// AccountConfig selects the patron account
type AccountConfig struct {
	// Barcode picks a stored credential; the PIN itself is never read from the config file
	Barcode string `yaml:"barcode" json:"barcode" toml:"barcode"`
	PIN     string `yaml:"-" json:"-" toml:"-"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	JacketDirectory string `yaml:"jacket_directory" json:"jacket_directory" toml:"jacket_directory"`
	Color           bool   `yaml:"color" json:"color" toml:"color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" toml:"level"`
	File  string `yaml:"file" json:"file" toml:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:   "https://sfpl.bibliocommons.com",
			HoursURL:  "https://sfpl.org",
			Era:       EraAjax,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			Timeout:   30 * time.Second,
		},
		Output: OutputConfig{
			JacketDirectory: "./jackets",
			Color:           true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("SFPL_BASE_URL"); baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if hoursURL := os.Getenv("SFPL_HOURS_URL"); hoursURL != "" {
		c.Site.HoursURL = hoursURL
	}
	if era := os.Getenv("SFPL_ERA"); era != "" {
		c.Site.Era = strings.ToLower(era)
	}
	if userAgent := os.Getenv("SFPL_USER_AGENT"); userAgent != "" {
		c.Site.UserAgent = userAgent
	}
	if timeout := os.Getenv("SFPL_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid SFPL_TIMEOUT: %w", err)
		}
		c.Site.Timeout = d
	}

	if barcode := os.Getenv("SFPL_BARCODE"); barcode != "" {
		c.Account.Barcode = barcode
	}
	if pin := os.Getenv("SFPL_PIN"); pin != "" {
		c.Account.PIN = pin
	}

	if dir := os.Getenv("SFPL_JACKET_DIR"); dir != "" {
		c.Output.JacketDirectory = dir
	}
	if os.Getenv("NO_COLOR") != "" {
		c.Output.Color = false
	}

	if logLevel := os.Getenv("SFPL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("SFPL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or TOML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, c)
	} else {
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".sfpl.yaml",
		".sfpl.yml",
		".sfpl.toml",
		filepath.Join(home, ".config", "sfpl", "config.yaml"),
		filepath.Join(home, ".config", "sfpl", "config.yml"),
		filepath.Join(home, ".config", "sfpl", "config.toml"),
		filepath.Join(home, ".sfpl.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Site.BaseURL == "" {
		errs = append(errs, errors.New("site base URL is required"))
	} else if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("site base URL must be http(s): %s", c.Site.BaseURL))
	}
	if c.Site.HoursURL == "" {
		errs = append(errs, errors.New("site hours URL is required"))
	}
	switch c.Site.Era {
	case EraAjax, EraLegacy:
	default:
		errs = append(errs, fmt.Errorf("unknown site era %q (want %s or %s)", c.Site.Era, EraAjax, EraLegacy))
	}
	if c.Site.Timeout <= 0 {
		errs = append(errs, errors.New("site timeout must be positive"))
	}

	if c.Output.JacketDirectory == "" {
		errs = append(errs, errors.New("jacket directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file, as TOML when the path ends in .toml
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Site.BaseURL = baseURL
	}
	if era, ok := flags["era"].(string); ok && era != "" {
		c.Site.Era = strings.ToLower(era)
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Site.Timeout = timeout
	}
	if barcode, ok := flags["barcode"].(string); ok && barcode != "" {
		c.Account.Barcode = barcode
	}
	if dir, ok := flags["jacket-dir"].(string); ok && dir != "" {
		c.Output.JacketDirectory = dir
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Output.Color = false
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables already set, so the first file wins
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".sfpl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

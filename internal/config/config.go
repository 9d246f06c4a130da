package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source drivers.
const (
	DriverSheets = "sheets"
	DriverCSV    = "csv"
	DriverXLSX   = "xlsx"
	DriverStatic = "static"
)

// Config holds the schemedex service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Source   SourceConfig   `yaml:"source"`
	Pamphlet PamphletConfig `yaml:"pamphlet"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SourceConfig selects and configures the spreadsheet the catalog loads.
type SourceConfig struct {
	Driver string `yaml:"driver"` // sheets, csv, xlsx, static (default: sheets)
	// ID is the spreadsheet id (sheets, csv) or the workbook path (xlsx).
	ID              string `yaml:"id"`
	Sheet           string `yaml:"sheet"`
	CredentialsFile string `yaml:"credentials_file"`
	CredentialsJSON string `yaml:"credentials_json"`
	CSVURLTemplate  string `yaml:"csv_url_template"`
	CSVToken        string `yaml:"csv_token"`
	TimeoutSec      int    `yaml:"timeout_sec"`
}

// Timeout returns the load timeout.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// PamphletConfig holds pamphlet fetch settings.
type PamphletConfig struct {
	TimeoutSec   int     `yaml:"timeout_sec"`
	MaxBytes     int64   `yaml:"max_bytes"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"` // 0 = unlimited
	Burst        int     `yaml:"burst"`
}

// Timeout returns the per-fetch timeout.
func (p PamphletConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Source.Driver == "" {
		c.Source.Driver = DriverSheets
	}
	if c.Source.Sheet == "" {
		c.Source.Sheet = "Sheet1"
	}
	if c.Source.TimeoutSec <= 0 {
		c.Source.TimeoutSec = 30
	}
	if c.Pamphlet.TimeoutSec <= 0 {
		c.Pamphlet.TimeoutSec = 10
	}
	if c.Pamphlet.MaxBytes <= 0 {
		c.Pamphlet.MaxBytes = 10 << 20
	}
	if c.Pamphlet.RateLimitRPS > 0 && c.Pamphlet.Burst <= 0 {
		c.Pamphlet.Burst = 1
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Source.Driver {
	case DriverSheets, DriverCSV, DriverXLSX:
		if strings.TrimSpace(c.Source.ID) == "" {
			return fmt.Errorf("source.id is required for driver %q", c.Source.Driver)
		}
	case DriverStatic:
		// ok
	default:
		return fmt.Errorf(
			"source.driver must be one of %q, %q, %q, %q, got %q",
			DriverSheets, DriverCSV, DriverXLSX, DriverStatic, c.Source.Driver,
		)
	}
	if c.Pamphlet.RateLimitRPS < 0 {
		return fmt.Errorf("pamphlet.rate_limit_rps must not be negative, got %v", c.Pamphlet.RateLimitRPS)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

// Package config loads the transcript-export configuration from a YAML file
// and TRANSCRIPT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidValue   = errors.New("invalid config value")
)

// maxConfigSize limits config input (1 MB).
const maxConfigSize = 1 << 20

// Config holds all settings of the CLI.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Browser BrowserConfig `yaml:"browser"`
	Page    PageConfig    `yaml:"page"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig locates the transcript service.
type ServiceConfig struct {
	BaseURL  string `yaml:"baseURL"`
	Token    string `yaml:"token"`    // sent as a bearer token when set
	Cookie   string `yaml:"cookie"`   // session cookie value when set
	CacheTTL string `yaml:"cacheTTL"` // e.g. "5m"; empty or "0" disables caching
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	Backend      string `yaml:"backend"` // "chromedp" or "rod"
	ChromePath   string `yaml:"chromePath"`
	NoSandbox    bool   `yaml:"noSandbox"`
	AutoDownload bool   `yaml:"autoDownload"`
	Timeout      string `yaml:"timeout"`     // e.g. "60s"
	SettleDelay  string `yaml:"settleDelay"` // e.g. "100ms"
}

// PageConfig controls the page image.
type PageConfig struct {
	Scale   float64 `yaml:"scale"`
	Quality int     `yaml:"quality"`
	Padding float64 `yaml:"padding"` // millimetres on every side
}

// OutputConfig defines where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{BaseURL: "http://localhost:5000", CacheTTL: "5m"},
		Browser: BrowserConfig{Backend: "chromedp", Timeout: "60s", SettleDelay: "100ms"},
		Page:    PageConfig{Scale: 2, Quality: 95, Padding: 15},
		Output:  OutputConfig{Dir: "."},
		Log:     LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrConfigParse, len(data), maxConfigSize)
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envPrefix starts every environment override.
const envPrefix = "TRANSCRIPT_"

// ApplyEnv overrides fields from TRANSCRIPT_* variables looked up with
// lookup, usually [os.LookupEnv]. It returns the names of unrecognised
// TRANSCRIPT_* variables found in environ so callers can warn about typos.
func (c *Config) ApplyEnv(lookup func(string) (string, bool), environ []string) ([]string, error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(envPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, envPrefix, key, v)
		}
		*dst = b
		return nil
	}

	str("BASE_URL", &c.Service.BaseURL)
	str("TOKEN", &c.Service.Token)
	str("COOKIE", &c.Service.Cookie)
	str("CACHE_TTL", &c.Service.CacheTTL)
	str("BACKEND", &c.Browser.Backend)
	str("CHROME_PATH", &c.Browser.ChromePath)
	str("TIMEOUT", &c.Browser.Timeout)
	str("SETTLE_DELAY", &c.Browser.SettleDelay)
	str("OUTPUT_DIR", &c.Output.Dir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	if err := boolean("NO_SANDBOX", &c.Browser.NoSandbox); err != nil {
		return nil, err
	}
	if err := boolean("AUTO_DOWNLOAD", &c.Browser.AutoDownload); err != nil {
		return nil, err
	}

	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[strings.TrimPrefix(name, envPrefix)] {
			unknown = append(unknown, name)
		}
	}
	return unknown, c.Validate()
}

var knownEnvVars = map[string]bool{
	"BASE_URL": true, "TOKEN": true, "COOKIE": true, "CACHE_TTL": true,
	"BACKEND": true, "CHROME_PATH": true, "TIMEOUT": true, "SETTLE_DELAY": true,
	"NO_SANDBOX": true, "AUTO_DOWNLOAD": true,
	"OUTPUT_DIR": true, "LOG_LEVEL": true, "LOG_FORMAT": true,
	"CONFIG": true,
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch c.Browser.Backend {
	case "", "chromedp", "rod":
	default:
		return fmt.Errorf("%w: browser.backend %q (want chromedp or rod)", ErrInvalidValue, c.Browser.Backend)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalidValue, c.Log.Format)
	}
	for name, v := range map[string]string{
		"service.cacheTTL":    c.Service.CacheTTL,
		"browser.timeout":     c.Browser.Timeout,
		"browser.settleDelay": c.Browser.SettleDelay,
	} {
		if _, err := parseDuration(v); err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, name, v, err)
		}
	}
	if c.Page.Scale != 0 && (c.Page.Scale < 1 || c.Page.Scale > 4) {
		return fmt.Errorf("%w: page.scale %v (want 1 to 4)", ErrInvalidValue, c.Page.Scale)
	}
	if c.Page.Quality != 0 && (c.Page.Quality < 1 || c.Page.Quality > 100) {
		return fmt.Errorf("%w: page.quality %d (want 1 to 100)", ErrInvalidValue, c.Page.Quality)
	}
	if c.Page.Padding < 0 {
		return fmt.Errorf("%w: page.padding %v is negative", ErrInvalidValue, c.Page.Padding)
	}
	return nil
}

// CacheTTL returns the parsed cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	d, _ := parseDuration(c.Service.CacheTTL)
	return d
}

// Timeout returns the parsed export timeout.
func (c *Config) Timeout() time.Duration {
	d, _ := parseDuration(c.Browser.Timeout)
	return d
}

// SettleDelay returns the parsed font settle delay.
func (c *Config) SettleDelay() time.Duration {
	d, _ := parseDuration(c.Browser.SettleDelay)
	return d
}

// parseDuration accepts "" and "0" as zero.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("negative duration")
	}
	return d, nil
}

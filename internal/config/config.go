package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edupredict/edupredict/internal/listview"
)

// Defaults applied by New before the config file and environment are read.
const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultOutputFormat = "table"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "json"

	configFileName  = "config.yaml"
	sessionFileName = "session.json"
	auditFileName   = "audit.log"
	outputTypeFile  = "file"
)

// Validation errors.
var (
	ErrInvalidBaseURL      = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout      = errors.New("api.timeout must be positive")
	ErrInvalidPageSize     = errors.New("pagination.page_size out of range")
	ErrInvalidOutputFormat = errors.New("output.default_format must be table, json or ndjson")
	ErrInvalidLogFormat    = errors.New("logging.format must be json or console")
)

// Config is the edupredict CLI configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Pagination PaginationConfig `yaml:"pagination"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Session    SessionConfig    `yaml:"session"`

	configPath string
}

// APIConfig points the client at the EduPredict backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PaginationConfig holds list defaults.
type PaginationConfig struct {
	PageSize int `yaml:"page_size"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig controls the process logger and the audit log.
type LoggingConfig struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   string      `yaml:"file"`
	Audit  AuditConfig `yaml:"audit"`
}

// AuditConfig controls the audit log of state-changing commands.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// SessionConfig locates the persisted session token.
type SessionConfig struct {
	File string `yaml:"file"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Pagination: PaginationConfig{PageSize: listview.DefaultPageSize},
		Output:     OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Audit:  AuditConfig{File: filepath.Join(dir, "logs", auditFileName)},
		},
		Session:    SessionConfig{File: filepath.Join(dir, sessionFileName)},
		configPath: filepath.Join(dir, configFileName),
	}
}

// New returns defaults overlaid with the config file (if present) and the
// environment. Load errors fall back to defaults plus environment; use Load to
// see them.
func New() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = "." + appName
	}
	cfg, err := Load(filepath.Join(dir, configFileName))
	if err != nil {
		cfg = Default(dir)
		_ = cfg.ApplyEnv()
	}
	return cfg
}

// Load reads path over the defaults and applies the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path over the defaults, ignoring the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))
	cfg.configPath = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// DefaultPath returns the config file location under GetConfigDir.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// ConfigPath returns the file this config is saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Pagination.PageSize < listview.MinPageSize || c.Pagination.PageSize > listview.MaxPageSize {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPageSize,
			c.Pagination.PageSize, listview.MinPageSize, listview.MaxPageSize)
	}
	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

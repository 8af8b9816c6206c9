package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	appName   = "edupredict"
	envPrefix = "EDUPREDICT"
)

// envOverrides maps EDUPREDICT_* variables onto config fields.
// Unset variables leave the file value alone.
type envOverrides struct {
	BaseURL      string        `envconfig:"API_BASE_URL"`
	Timeout      time.Duration `envconfig:"API_TIMEOUT"`
	PageSize     int           `envconfig:"PAGE_SIZE"`
	OutputFormat string        `envconfig:"OUTPUT_FORMAT"`
	LogLevel     string        `envconfig:"LOG_LEVEL"`
	LogFormat    string        `envconfig:"LOG_FORMAT"`
	LogFile      string        `envconfig:"LOG_FILE"`
	AuditEnabled *bool         `envconfig:"AUDIT_ENABLED"`
	SessionFile  string        `envconfig:"SESSION_FILE"`
}

// ApplyEnv overlays EDUPREDICT_* environment variables.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("reading %s_* environment: %w", envPrefix, err)
	}

	if env.BaseURL != "" {
		c.API.BaseURL = env.BaseURL
	}
	if env.Timeout > 0 {
		c.API.Timeout = env.Timeout
	}
	if env.PageSize > 0 {
		c.Pagination.PageSize = env.PageSize
	}
	if env.OutputFormat != "" {
		c.Output.DefaultFormat = env.OutputFormat
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Logging.Format = env.LogFormat
	}
	if env.LogFile != "" {
		c.Logging.File = env.LogFile
	}
	if env.AuditEnabled != nil {
		c.Logging.Audit.Enabled = *env.AuditEnabled
	}
	if env.SessionFile != "" {
		c.Session.File = env.SessionFile
	}
	return nil
}

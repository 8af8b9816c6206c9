package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownKey is returned for a key that is not a known config setting.
var ErrUnknownKey = errors.New("unknown config key")

// setting binds a dotted key to a config field.
type setting struct {
	get func(*Config) string
	set func(*Config, string) error
}

//nolint:gochecknoglobals // static lookup table of settable keys
var settings = map[string]setting{
	"api.base_url": {
		get: func(c *Config) string { return c.API.BaseURL },
		set: func(c *Config, v string) error { c.API.BaseURL = strings.TrimRight(v, "/"); return nil },
	},
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("parsing duration %q: %w", v, err)
			}
			c.API.Timeout = d
			return nil
		},
	},
	"pagination.page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Pagination.PageSize) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parsing page size %q: %w", v, err)
			}
			c.Pagination.PageSize = n
			return nil
		},
	},
	"output.default_format": {
		get: func(c *Config) string { return c.Output.DefaultFormat },
		set: func(c *Config, v string) error { c.Output.DefaultFormat = strings.ToLower(v); return nil },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	},
	"logging.file": {
		get: func(c *Config) string { return c.Logging.File },
		set: func(c *Config, v string) error { c.Logging.File = v; return nil },
	},
	"logging.audit.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.Logging.Audit.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("parsing bool %q: %w", v, err)
			}
			c.Logging.Audit.Enabled = b
			return nil
		},
	},
	"logging.audit.file": {
		get: func(c *Config) string { return c.Logging.Audit.File },
		set: func(c *Config, v string) error { c.Logging.Audit.File = v; return nil },
	},
	"session.file": {
		get: func(c *Config) string { return c.Session.File },
		set: func(c *Config, v string) error { c.Session.File = v; return nil },
	},
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key.
func (c *Config) Get(key string) (string, error) {
	s, ok := settings[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return s.get(c), nil
}

// Set assigns a dotted key and validates the result. On a validation error
// the previous value is restored.
func (c *Config) Set(key, value string) error {
	s, ok := settings[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	prev := s.get(c)
	if err := s.set(c, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		_ = s.set(c, prev)
		return err
	}
	return nil
}

// List returns every key with its current value.
func (c *Config) List() map[string]string {
	out := make(map[string]string, len(settings))
	for k, s := range settings {
		out[k] = s.get(c)
	}
	return out
}

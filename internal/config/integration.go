package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfigInit flag
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized

// InitGlobalConfig initializes the global configuration.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	GlobalConfig = New()
	globalConfigInit = true
}

// SetGlobalConfigForTest installs cfg as the global configuration.
func SetGlobalConfigForTest(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = cfg
	globalConfigInit = cfg != nil
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	SetGlobalConfigForTest(nil)
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetPageSize returns the configured default page size.
func GetPageSize() int {
	return GetGlobalConfig().Pagination.PageSize
}

// GetAPIConfig returns the backend connection settings.
func GetAPIConfig() APIConfig {
	return GetGlobalConfig().API
}

// GetSessionFile returns the session token path.
func GetSessionFile() string {
	return GetGlobalConfig().Session.File
}

// EnsureConfigDir ensures the edupredict configuration directory exists.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// EnsureLogDir creates the parent directory of the configured log and audit
// files. Unset paths are skipped.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	for _, path := range []string{cfg.Logging.File, cfg.Logging.Audit.File} {
		if path == "" {
			continue
		}
		logDir := filepath.Dir(path)
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
		}
	}
	return nil
}

// GetConfigDir returns the edupredict configuration directory,
// $EDUPREDICT_HOME or ~/.edupredict.
func GetConfigDir() (string, error) {
	if home := os.Getenv("EDUPREDICT_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+appName), nil
}

package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupredict/edupredict/internal/config"
)

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")

	res := execute(t, nil, "", "config", "init", "--base-url", "https://edupredict.example.edu/")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Configuration initialized successfully")
	assert.Contains(t, res.stdout, path)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://edupredict.example.edu", cfg.API.BaseURL)

	res = execute(t, nil, "", "config", "init")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")

	res = execute(t, nil, "", "config", "init", "--force")
	require.NoError(t, res.err)
}

func TestConfigSetGet(t *testing.T) {
	home := setupCLITest(t)

	res := execute(t, nil, "", "config", "set", "pagination.page_size", "25")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "pagination.page_size = 25")

	res = execute(t, nil, "", "config", "get", "pagination.page_size")
	require.NoError(t, res.err)
	assert.Equal(t, "25\n", res.stdout)

	res = execute(t, nil, "", "config", "set", "pagination.page_size", "0")
	require.ErrorIs(t, res.err, config.ErrInvalidPageSize)

	res = execute(t, nil, "", "config", "get", "nope")
	require.ErrorIs(t, res.err, config.ErrUnknownKey)
	assert.Contains(t, res.err.Error(), "api.base_url")

	// Environment overrides are read but never written back.
	t.Setenv("EDUPREDICT_OUTPUT_FORMAT", "json")
	res = execute(t, nil, "", "config", "set", "api.timeout", "5s")
	require.NoError(t, res.err)
	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_format: table")
}

func TestConfigList(t *testing.T) {
	setupCLITest(t)

	res := execute(t, nil, "", "config", "list")
	require.NoError(t, res.err)
	for _, key := range config.Keys() {
		assert.Contains(t, res.stdout, key)
	}
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)
	backend := newFakeBackend(t, 0)

	res := execute(t, nil, "", "config", "validate", "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Configuration is valid")
	assert.Contains(t, res.stdout, "Page size: 10")

	res = execute(t, backend, "", "config", "validate", "--remote")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "version 1.2.0")

	t.Setenv("EDUPREDICT_PAGE_SIZE", "1001")
	res = execute(t, nil, "", "config", "validate")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "configuration validation failed")
}

func TestRootConfigOverlay(t *testing.T) {
	setupCLITest(t)
	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("pagination:\n  page_size: 7\n"), 0o600))

	res := execute(t, nil, "", "config", "get", "pagination.page_size", "--config", overlay)
	require.NoError(t, res.err)
	assert.Equal(t, "7\n", res.stdout)

	res = execute(t, nil, "", "config", "get", "api.base_url", "--api-url", "ftp://nope")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--api-url")
}

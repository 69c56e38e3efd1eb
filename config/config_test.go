package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/veriview/veriview/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_OPENAI_API_KEY", "key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://test.openai.azure.com")
	t.Setenv("AZURE_OPENAI_INSTANCE", "test")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o")
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.Model.APIKey)
	assert.Equal(t, "https://test.openai.azure.com", cfg.Model.Endpoint)
	assert.Equal(t, "test", cfg.Model.Instance)
	assert.Equal(t, "gpt-4o", cfg.Model.Deployment)

	// Defaults
	assert.Equal(t, config.DefaultAPIVersion, cfg.Model.APIVersion)
	assert.Equal(t, 2, cfg.Model.MaxRetries)
	assert.True(t, cfg.Model.StructuredOutput)
	assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AZURE_OPENAI_API_VERSION", "2025-01-01-preview")
	t.Setenv("VERIVIEW_MAX_RETRIES", "5")
	t.Setenv("VERIVIEW_STRUCTURED_OUTPUT", "false")
	t.Setenv("VERIVIEW_ARTIFACTS_DIR", "/tmp/evidence")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01-preview", cfg.Model.APIVersion)
	assert.Equal(t, 5, cfg.Model.MaxRetries)
	assert.False(t, cfg.Model.StructuredOutput)
	assert.Equal(t, "/tmp/evidence", cfg.Artifacts.Dir)
}

func TestLoadMissingRequiredValues(t *testing.T) {
	testCases := []struct {
		name    string
		missing string
	}{
		{name: "api key", missing: "AZURE_OPENAI_API_KEY"},
		{name: "endpoint", missing: "AZURE_OPENAI_ENDPOINT"},
		{name: "instance", missing: "AZURE_OPENAI_INSTANCE"},
		{name: "deployment", missing: "AZURE_OPENAI_DEPLOYMENT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.missing, "")

			_, err := config.Load()
			require.Error(t, err)

			var cfgErr *config.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.missing, cfgErr.Key)
		})
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	raw, err := yaml.Marshal(map[string]any{
		"model": map[string]any{
			"api_version": "2024-12-01",
			"max_retries": 4,
		},
		"artifacts": map[string]any{
			"dir": "run-artifacts",
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() {
		require.NoError(t, os.Chdir(wd))
	}()

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "2024-12-01", cfg.Model.APIVersion)
	assert.Equal(t, 4, cfg.Model.MaxRetries)
	assert.Equal(t, "run-artifacts", cfg.Artifacts.Dir)
}

package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ConfigurationError reports a missing required startup value. It is fatal:
// callers are expected to abort before any test runs.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration value %q", e.Key)
}

// ModelConfig holds the language-model provider connection settings.
// All fields are fixed at process start and read-only afterwards.
type ModelConfig struct {
	APIKey     string
	Endpoint   string
	Instance   string
	Deployment string
	APIVersion string
	// MaxRetries bounds automatic retries on transient provider failures.
	MaxRetries int
	// StructuredOutput selects provider-enforced response schemas. When
	// false the raw text is parsed with the heuristic fallback.
	StructuredOutput bool
}

// ArtifactsConfig holds settings for persisted diagnostic artifacts.
type ArtifactsConfig struct {
	Dir string
}

// Config is the root configuration object. It is constructed once by Load
// and passed by ownership into the components that need it.
type Config struct {
	Model     ModelConfig
	Artifacts ArtifactsConfig
}

// DefaultAPIVersion is used when AZURE_OPENAI_API_VERSION is not set.
const DefaultAPIVersion = "2024-08-01-preview"

func newViper() *viper.Viper {
	v := viper.New()

	// Set default values
	v.SetDefault("model.api_version", DefaultAPIVersion)
	v.SetDefault("model.max_retries", 2)
	v.SetDefault("model.structured_output", true)
	v.SetDefault("artifacts.dir", "artifacts")

	// Environment variables
	v.AutomaticEnv()
	v.BindEnv("model.api_key", "AZURE_OPENAI_API_KEY")
	v.BindEnv("model.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("model.instance", "AZURE_OPENAI_INSTANCE")
	v.BindEnv("model.deployment", "AZURE_OPENAI_DEPLOYMENT")
	v.BindEnv("model.api_version", "AZURE_OPENAI_API_VERSION")
	v.BindEnv("model.max_retries", "VERIVIEW_MAX_RETRIES")
	v.BindEnv("model.structured_output", "VERIVIEW_STRUCTURED_OUTPUT")
	v.BindEnv("artifacts.dir", "VERIVIEW_ARTIFACTS_DIR")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configPaths := []string{
		".",
		"$HOME/.veriview",
		"/etc/veriview",
	}
	for _, path := range configPaths {
		v.AddConfigPath(os.ExpandEnv(path))
	}

	return v
}

// Load reads configuration from the environment and an optional config.yaml.
// It returns a *ConfigurationError when any required model credential is
// missing.
func Load() (*Config, error) {
	v := newViper()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found; use env and defaults
	}

	cfg := &Config{
		Model: ModelConfig{
			APIKey:           v.GetString("model.api_key"),
			Endpoint:         v.GetString("model.endpoint"),
			Instance:         v.GetString("model.instance"),
			Deployment:       v.GetString("model.deployment"),
			APIVersion:       v.GetString("model.api_version"),
			MaxRetries:       v.GetInt("model.max_retries"),
			StructuredOutput: v.GetBool("model.structured_output"),
		},
		Artifacts: ArtifactsConfig{
			Dir: v.GetString("artifacts.dir"),
		},
	}

	required := []struct {
		key string
		val string
	}{
		{"AZURE_OPENAI_API_KEY", cfg.Model.APIKey},
		{"AZURE_OPENAI_ENDPOINT", cfg.Model.Endpoint},
		{"AZURE_OPENAI_INSTANCE", cfg.Model.Instance},
		{"AZURE_OPENAI_DEPLOYMENT", cfg.Model.Deployment},
	}
	for _, r := range required {
		if r.val == "" {
			return nil, &ConfigurationError{Key: r.key}
		}
	}

	if cfg.Model.MaxRetries < 0 {
		cfg.Model.MaxRetries = 0
	}

	return cfg, nil
}

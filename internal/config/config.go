// Package config loads CLI configuration from a YAML file, with
// environment-variable overrides applied on top.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the cliquefusion CLI. None of
// it reaches the core packages (covariance, observation, spatialindex,
// compatgraph, bronkerbosch, cliqueindex), which take their chi-squared
// threshold and observation batch as plain function arguments.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
}

// LoggingConfig controls the CLI's structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EngineConfig controls the default clique-fusion parameters used when
// the CLI is not given explicit flags.
type EngineConfig struct {
	Chi2Confidence string `yaml:"chi2_confidence"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Engine: EngineConfig{
			Chi2Confidence: "95",
		},
	}
}

// Load reads configuration from a YAML file at path, falling back to
// DefaultConfig if path does not exist. A .env file in the current working
// directory, if present, is loaded into the process environment first so
// CLIQUEFUSION_* variables can override the resulting values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort: absence of a .env file is not an error

	cfg := DefaultConfig()

	if path == "" {
		path = "cliquefusion.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyEnvOverrides(cfg)

		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if level := os.Getenv("CLIQUEFUSION_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("CLIQUEFUSION_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if chi2 := os.Getenv("CLIQUEFUSION_CHI2_CONFIDENCE"); chi2 != "" {
		cfg.Engine.Chi2Confidence = chi2
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Engine.Chi2Confidence {
	case "90", "95", "99":
	default:
		return fmt.Errorf("config: engine.chi2_confidence must be one of 90, 95, 99, got %q", c.Engine.Chi2Confidence)
	}

	return nil
}

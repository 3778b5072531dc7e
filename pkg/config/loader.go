package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the on-disk housecheck.yaml layout. Every field is a
// pointer/zero-value-omittable section so a deployment can specify only
// the sections it wants to override; DefaultConfig fills in the rest.
type yamlConfig struct {
	Server    *ServerConfig    `yaml:"server"`
	Models    *ModelsConfig    `yaml:"models"`
	Sampling  *SamplingConfig  `yaml:"sampling"`
	Images    *ImageConfig     `yaml:"images"`
	RateLimit *RateLimitConfig `yaml:"rate_limit"`
	Cache     *CacheConfig     `yaml:"cache"`
	Batch     *BatchConfig     `yaml:"batch"`
	Inference *InferenceConfig `yaml:"inference"`
	Security  *SecurityConfig  `yaml:"security"`
	Paths     *PathsConfig     `yaml:"paths"`
}

const configFileName = "housecheck.yaml"

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load housecheck.yaml from configDir (missing file is not an error —
//     the built-in defaults apply on their own)
//  2. Expand environment variables
//  3. Merge the user-provided sections on top of the built-in defaults
//  4. Validate the merged configuration
//  5. Return Config ready for use
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	cfg, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized successfully",
		"vision_model", cfg.Models.VisionModel,
		"text_model", cfg.Models.TextModel,
		"rate_limit_tpm", cfg.RateLimit.TPM,
		"rate_limit_rpm", cfg.RateLimit.RPM)

	return cfg, nil
}

func load(configDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.configDir = configDir

	user, err := loadYAMLFile(configDir)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return cfg, nil
	}

	if err := mergeSection(&cfg.Server, user.Server); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Models, user.Models); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Sampling, user.Sampling); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Images, user.Images); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.RateLimit, user.RateLimit); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Cache, user.Cache); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Batch, user.Batch); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Inference, user.Inference); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Security, user.Security); err != nil {
		return nil, err
	}
	if err := mergeSection(&cfg.Paths, user.Paths); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeSection overlays a user-provided section onto the built-in default,
// leaving zero-valued fields in the user section untouched (defaults win).
func mergeSection[T any](dst *T, src *T) error {
	if src == nil {
		return nil
	}
	if err := mergo.Merge(dst, src, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge configuration section: %w", err)
	}
	return nil
}

func loadYAMLFile(configDir string) (*yamlConfig, error) {
	path := filepath.Join(configDir, configFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("configuration file not found, using built-in defaults", "path", path)
			return nil, nil
		}
		return nil, err
	}

	data = ExpandEnv(data)

	var cfg yamlConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	v := NewValidator(cfg)
	return v.ValidateAll()
}

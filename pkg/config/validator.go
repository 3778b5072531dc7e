package config

import (
	"fmt"
	"net"

	"github.com/go-playground/validator/v10"
)

// Validator validates configuration comprehensively with clear error messages.
type Validator struct {
	cfg *Config
	v   *validator.Validate
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg, v: validator.New()}
}

// ValidateAll performs comprehensive validation (fail-fast — stops at the
// first error). Struct-tag validation (required/min/max) runs per section
// first, since the cross-field checks below assume well-formed values.
func (val *Validator) ValidateAll() error {
	sections := []struct {
		name string
		data any
	}{
		{"server", &val.cfg.Server},
		{"models", &val.cfg.Models},
		{"sampling", &val.cfg.Sampling},
		{"images", &val.cfg.Images},
		{"rate_limit", &val.cfg.RateLimit},
		{"cache", &val.cfg.Cache},
		{"batch", &val.cfg.Batch},
		{"inference", &val.cfg.Inference},
		{"paths", &val.cfg.Paths},
	}

	for _, s := range sections {
		if err := val.v.Struct(s.data); err != nil {
			return NewValidationError(s.name, "", "", err)
		}
	}

	return val.validateInferenceAddress()
}

// validateInferenceAddress confirms the configured gRPC endpoint is at
// least a well-formed host:port pair before the inference client ever
// dials it, so misconfiguration fails at startup rather than on the first
// request.
func (val *Validator) validateInferenceAddress() error {
	addr := val.cfg.Inference.Address
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return NewValidationError("inference", "", "address", fmt.Errorf("must be a host:port pair: %w", err))
	}
	return nil
}

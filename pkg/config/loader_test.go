package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644))
}

func TestInitializeMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Models.VisionModel, cfg.Models.VisionModel)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestInitializeOverridesOnlySpecifiedSections(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
server:
  host: 127.0.0.1
  port: 9000
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Untouched sections keep their built-in defaults.
	assert.Equal(t, DefaultConfig().RateLimit.TPM, cfg.RateLimit.TPM)
}

func TestInitializeExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
inference:
  address: ${INFERENCE_ADDR}
  timeout_seconds: 45
`)
	t.Setenv("INFERENCE_ADDR", "vision.internal:50051")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "vision.internal:50051", cfg.Inference.Address)
	assert.Equal(t, 45, cfg.Inference.TimeoutSeconds)
}

func TestInitializeRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "server: [this is not valid yaml")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}

func TestInitializeRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
server:
  host: 0.0.0.0
  port: 70000
`)

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
}

func TestInitializeRejectsMalformedInferenceAddress(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
inference:
  address: "not-a-host-port"
  timeout_seconds: 30
`)

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
}

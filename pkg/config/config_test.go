package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 9090

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestConfigResolvedDataDirRelative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.configDir = "/etc/housecheck"
	cfg.Paths.DataDir = "data"

	assert.Equal(t, "/etc/housecheck/data", cfg.ResolvedDataDir())
}

func TestConfigResolvedDataDirAbsolute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.configDir = "/etc/housecheck"
	cfg.Paths.DataDir = "/var/lib/housecheck/data"

	assert.Equal(t, "/var/lib/housecheck/data", cfg.ResolvedDataDir())
}

func TestConfigResolvedDemoDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.configDir = "/etc/housecheck"
	cfg.Paths.DemoDir = "demo"

	assert.Equal(t, "/etc/housecheck/demo", cfg.ResolvedDemoDir())
}

func TestConfigDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.configDir = "/etc/housecheck"

	assert.Equal(t, "/etc/housecheck", cfg.ConfigDir())
}

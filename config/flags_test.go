package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsApplyOnlyOverridesExplicitlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-listen", "127.0.0.1:9999", "-fail-threshold", "5"}))

	cfg := &Config{
		ListenAddr:       "0.0.0.0:8080",
		PrimaryURL:       "http://p.local",
		BackupURL:        "http://b.local",
		FailThreshold:    3,
		RecoverThreshold: 2,
	}
	flags.Apply(cfg)

	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.FailThreshold)
	assert.Equal(t, 2, cfg.RecoverThreshold)
	assert.Equal(t, "http://p.local", cfg.PrimaryURL)
}

func TestFlagsConfigPath(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", "/etc/failoverproxy.yaml"}))

	assert.Equal(t, "/etc/failoverproxy.yaml", flags.ConfigPath())
}

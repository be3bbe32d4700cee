package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "primary: http://p.local\nbackup: http://b.local\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultManagementAddr, cfg.ManagementAddr)
	assert.Equal(t, DefaultFailThreshold, cfg.FailThreshold)
	assert.Equal(t, DefaultRecoverThreshold, cfg.RecoverThreshold)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodyBytes)
}

func TestFinalizeRejectsMissingPrimary(t *testing.T) {
	cfg := &Config{BackupURL: "http://b.local"}
	err := cfg.Finalize()
	assert.Error(t, err)
}

func TestFinalizeRejectsInvalidFailThreshold(t *testing.T) {
	cfg := &Config{PrimaryURL: "http://p.local", BackupURL: "http://b.local", FailThreshold: -1}
	err := cfg.Finalize()
	assert.Error(t, err)
}

func TestFinalizeRejectsBadWebhookFormat(t *testing.T) {
	cfg := &Config{
		PrimaryURL:    "http://p.local",
		BackupURL:     "http://b.local",
		WebhookURL:    "http://hooks.example.com/x",
		WebhookFormat: "teams",
	}
	err := cfg.Finalize()
	assert.Error(t, err)
}

func TestParseDurationUnits(t *testing.T) {
	cases := map[string]int64{
		"500ms": int64(500 * 1e6),
		"2s":    int64(2 * 1e9),
		"1m":    int64(60 * 1e9),
	}
	for raw, want := range cases {
		d, err := ParseDuration(raw)
		require.NoError(t, err)
		assert.Equal(t, want, int64(d))
	}
}

func TestParseSizeUnits(t *testing.T) {
	cases := map[string]int64{
		"1024B": 1024,
		"10KB":  10 * 1024,
		"10MB":  10 * 1024 * 1024,
	}
	for raw, want := range cases {
		n, err := ParseSize(raw)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestParseSizeRejectsGarbage(t *testing.T) {
	_, err := ParseSize("not-a-size")
	assert.Error(t, err)
}

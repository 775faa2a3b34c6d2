package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to reset global state between tests.
func resetGlobalConfig() {
	k = nil
	once = sync.Once{}
}

func newTestFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	return fs
}

func TestInitGlobalConfig_IsIdempotent(t *testing.T) {
	resetGlobalConfig()
	InitGlobalConfig()
	first := k
	InitGlobalConfig()
	assert.Equal(t, first, k, "koanf instance should not change on repeated InitGlobalConfig calls")
}

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "top", cfg.Scan.Ports)
	assert.Equal(t, time.Second, cfg.Scan.Timeout)
	assert.Equal(t, 50, cfg.Scan.Concurrency)
	assert.Equal(t, 1, cfg.Scan.PingCount)
	assert.Empty(t, cfg.OUI.TablePath)
}

func TestManager_Load_LoadsDefaultsWhenNoSources(t *testing.T) {
	resetGlobalConfig()
	manager := NewManager()
	require.NoError(t, manager.Load(nil, ""))
	cfg := manager.Get()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Scan.Concurrency)
}

func TestManager_Load_OverridesWithFlags(t *testing.T) {
	resetGlobalConfig()
	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, flags.Set("log.level", "error"))
	require.NoError(t, flags.Set("log.format", "json"))
	require.NoError(t, flags.Set("oui.table_path", "/tmp/oui.yaml"))

	require.NoError(t, manager.Load(flags, ""))
	cfg := manager.Get()
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/oui.yaml", cfg.OUI.TablePath)
}

func TestManager_Load_ConfigFileOverridesDefaults(t *testing.T) {
	resetGlobalConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "hostscout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
scan:
  concurrency: 10
  ports: "22,80"
`), 0o600))

	manager := NewManager()
	require.NoError(t, manager.Load(nil, path))
	cfg := manager.Get()
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Scan.Concurrency)
	assert.Equal(t, "22,80", cfg.Scan.Ports)
	// Untouched keys keep their defaults.
	assert.Equal(t, time.Second, cfg.Scan.Timeout)
}

func TestManager_Load_MissingConfigFileFails(t *testing.T) {
	resetGlobalConfig()
	manager := NewManager()
	err := manager.Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestManager_Load_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero concurrency", "scan:\n  concurrency: 0\n"},
		{"negative timeout", "scan:\n  timeout: -1s\n"},
		{"bad log format", "log:\n  format: xml\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetGlobalConfig()
			dir := t.TempDir()
			path := filepath.Join(dir, "hostscout.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o600))

			err := NewManager().Load(nil, path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

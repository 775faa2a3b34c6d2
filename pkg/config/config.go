// Package config loads and validates hostscout configuration from
// defaults, an optional YAML file, and command-line flags, in that
// precedence order.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Global koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global koanf instance. It should be
// called early in the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = koanf.New(".")
	})
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	validate      *validator.Validate
	mu            sync.RWMutex
}

// NewManager creates a new configuration Manager backed by the global
// koanf instance.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{
		koanfInstance: k,
		validate:      validator.New(),
	}
}

// DefaultConfig returns a Config populated with hardcoded default values.
// These serve as the baseline if no other source overrides them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scan: ScanConfig{
			Ports:       "top",
			Timeout:     time.Second,
			Concurrency: 50,
			PingCount:   1,
		},
		OUI:     OUIConfig{},
		Session: SessionConfig{},
	}
}

// Load merges configuration sources by precedence (defaults, then file,
// then flags), unmarshals the result, and validates it.
func (m *Manager) Load(flags *pflag.FlagSet, configFilePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.koanfInstance.Load(confmap.Provider(defaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}

	if configFilePath != "" {
		if err := m.koanfInstance.Load(file.Provider(configFilePath), koanfyaml.Parser()); err != nil {
			return fmt.Errorf("load config file %q: %w", configFilePath, err)
		}
	}

	if flags != nil {
		// posflag needs the koanf instance to map flag names onto keys.
		if err := m.koanfInstance.Load(posflag.Provider(flags, ".", m.koanfInstance), nil); err != nil {
			return fmt.Errorf("load command-line flags: %w", err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := m.validate.Struct(newCfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.currentConfig = newCfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// BindFlags registers the configuration keys that may be overridden from
// the command line on the given flag set.
func BindFlags(fs *pflag.FlagSet) {
	def := DefaultConfig()
	fs.String("log.level", def.Log.Level, "Log level (debug, info, warn, error)")
	fs.String("log.format", def.Log.Format, "Log format: json | text")
	fs.String("oui.table_path", "", "External OUI database file (YAML)")
	fs.Bool("oui.watch", false, "Reload the external OUI database on file changes")
}

// defaultConfigAsMap converts DefaultConfig into the flat map shape
// koanf's confmap provider expects, so koanf knows every key up front.
func defaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,

		"scan.ports":       def.Scan.Ports,
		"scan.timeout":     def.Scan.Timeout,
		"scan.concurrency": def.Scan.Concurrency,
		"scan.ping_count":  def.Scan.PingCount,
		"scan.privileged":  def.Scan.Privileged,
		"scan.skip_ping":   def.Scan.SkipPing,

		"oui.table_path": def.OUI.TablePath,
		"oui.watch":      def.OUI.Watch,

		"session.dir":      def.Session.Dir,
		"session.disabled": def.Session.Disabled,
	}
}

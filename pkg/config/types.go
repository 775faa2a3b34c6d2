package config

import "time"

// Config is the root configuration structure for hostscout. It aggregates
// all other specific configuration structs.
type Config struct {
	Log     LogConfig     `description:"Logging configuration" koanf:"log"`
	Scan    ScanConfig    `description:"Scan configuration" koanf:"scan"`
	OUI     OUIConfig     `description:"OUI database configuration" koanf:"oui"`
	Session SessionConfig `description:"Session directory configuration" koanf:"session"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format" validate:"oneof=json text"`
}

// ScanConfig holds configuration for host discovery and fact collection.
type ScanConfig struct {
	Ports       string        `description:"Ports/port ranges for TCP scan (e.g. 'top', '22,80,443', '1-1024')" koanf:"ports"`
	Timeout     time.Duration `description:"Timeout for network operations like ping/port connect" koanf:"timeout" validate:"gt=0"`
	Concurrency int           `description:"Concurrency for parallel operations" koanf:"concurrency" validate:"min=1,max=4096"`
	PingCount   int           `description:"Number of ICMP pings per host" koanf:"ping_count" validate:"min=1"`
	Privileged  bool          `description:"Use raw ICMP sockets (requires root)" koanf:"privileged"`
	SkipPing    bool          `description:"Skip liveness probing and scan every expanded target" koanf:"skip_ping"`
}

// OUIConfig holds configuration for the vendor prefix database.
type OUIConfig struct {
	TablePath string `description:"External OUI database file (YAML); empty uses the embedded table" koanf:"table_path"`
	Watch     bool   `description:"Reload the external OUI database on file changes" koanf:"watch"`
}

// SessionConfig holds configuration for per-run session persistence.
type SessionConfig struct {
	Dir      string `description:"Session root directory" koanf:"dir"`
	Disabled bool   `description:"Disable session persistence for this run" koanf:"disabled"`
}

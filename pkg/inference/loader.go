package inference

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed data/oui_db.yaml
var embeddedOUIYAML []byte

// supportedSchema is the schema-version constraint this build can parse.
// Data files with a v2+ schema must not be silently misread.
const supportedSchema = "^1"

type tableDocument struct {
	SchemaVersion string  `yaml:"schema_version"`
	Entries       []Entry `yaml:"entries"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the OUI table embedded in the binary. The embedded
// data is validated at build time by the loader tests, so a parse failure
// here degrades to an empty table rather than failing classification.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		tbl, err := ParseTable(embeddedOUIYAML)
		if err != nil {
			tbl = NewTable(nil)
		}
		defaultTable = tbl
	})
	return defaultTable
}

// ParseTable decodes a YAML OUI database and checks its schema version
// against the supported constraint.
func ParseTable(data []byte) (*Table, error) {
	var doc tableDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse oui database: %w", err)
	}

	if doc.SchemaVersion == "" {
		return nil, fmt.Errorf("oui database missing schema_version")
	}
	version, err := semver.NewVersion(doc.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid schema_version %q: %w", doc.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return nil, fmt.Errorf("invalid schema constraint %q: %w", supportedSchema, err)
	}
	if !constraint.Check(version) {
		return nil, fmt.Errorf("unsupported oui database schema %s (supported: %s)", doc.SchemaVersion, supportedSchema)
	}

	return NewTable(doc.Entries), nil
}

// LoadTableFile reads an external OUI database from disk. It is used for
// deployments that carry the full vendor list instead of the embedded
// subset.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read oui database: %w", err)
	}
	return ParseTable(data)
}

package inference

import "strings"

// UnknownDevice is returned when no OUI prefix matches.
const UnknownDevice = "Unknown Device"

// Entry is a single prefix-to-category pair in an OUI table. Prefix is the
// first three octets of a MAC address as six hex characters.
type Entry struct {
	Prefix   string `yaml:"prefix"`
	Category string `yaml:"category"`
}

// Table maps normalized OUI prefixes to coarse device-vendor categories.
// Lookup is exact-match on the uppercased, delimiter-stripped first six hex
// characters. Tables are immutable after construction and safe for
// concurrent use.
type Table struct {
	entries map[string]string
}

// NewTable builds a Table from ordered entries. Prefixes are normalized the
// same way lookups are; on duplicate prefixes the first entry wins, which
// keeps table semantics deterministic when data files overlap.
func NewTable(entries []Entry) *Table {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		prefix, ok := normalizePrefix(e.Prefix)
		if !ok || e.Category == "" {
			continue
		}
		if _, exists := m[prefix]; exists {
			continue
		}
		m[prefix] = e.Category
	}
	return &Table{entries: m}
}

// Len reports the number of usable entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Classify maps a MAC address to its device-vendor category. The address
// may use colon, dash, dot or no delimiters in any case. The MACUnknown
// sentinel, empty input, or anything shorter than one full OUI after
// normalization yields UnknownDevice. Classify never fails.
func (t *Table) Classify(mac string) string {
	if strings.EqualFold(mac, MACUnknown) {
		return UnknownDevice
	}
	prefix, ok := normalizePrefix(mac)
	if !ok {
		return UnknownDevice
	}
	if category, found := t.entries[prefix]; found {
		return category
	}
	return UnknownDevice
}

// normalizePrefix strips delimiters, uppercases and returns the first six
// hex characters. ok is false when fewer than six hex characters remain.
func normalizePrefix(mac string) (string, bool) {
	cleaned := strings.NewReplacer(":", "", "-", "", ".", "", " ", "").Replace(mac)
	cleaned = strings.ToUpper(cleaned)
	if len(cleaned) < 6 {
		return "", false
	}
	prefix := cleaned[:6]
	for _, r := range prefix {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return "", false
		}
	}
	return prefix, true
}

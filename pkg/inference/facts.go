// Package inference combines MAC-OUI lookups with port, service and OS
// heuristics to produce a confidence-scored device classification.
package inference

// PortRecord describes a single open port observed on a host.
type PortRecord struct {
	Port     int    `json:"port" yaml:"port"`
	Protocol string `json:"protocol" yaml:"protocol"` // "tcp" or "udp"
	Service  string `json:"service" yaml:"service"`
}

// HostFacts is the normalized per-host input consumed by the inference
// engine. The collector is responsible for sanitizing raw tool output into
// this shape; missing data is represented by empty strings or the
// MACUnknown sentinel, never by errors.
type HostFacts struct {
	MACAddress    string       `json:"mac_address" yaml:"mac_address"`
	OpenPorts     []PortRecord `json:"open_ports" yaml:"open_ports"`
	OSFingerprint string       `json:"os_fingerprint" yaml:"os_fingerprint"`
	VendorHint    string       `json:"mac_vendor_hint,omitempty" yaml:"mac_vendor_hint,omitempty"`
}

// MACUnknown is the sentinel value for a host whose MAC address could not
// be resolved (e.g. no ARP entry).
const MACUnknown = "Unknown"

// Tier is the coarse confidence bucket derived from the numeric score.
type Tier string

const (
	TierHigh    Tier = "High"
	TierMedium  Tier = "Medium"
	TierLow     Tier = "Low"
	TierVeryLow Tier = "Very Low"
)

// TierForScore maps a confidence score onto its tier using fixed thresholds.
func TierForScore(score int) Tier {
	switch {
	case score >= 60:
		return TierHigh
	case score >= 40:
		return TierMedium
	case score >= 20:
		return TierLow
	default:
		return TierVeryLow
	}
}

// ClassificationResult is the structured outcome of a single inference
// call. It is constructed fresh per call and never mutated afterwards.
// Rendering (confidence annotation, bracketed method list) is a display
// concern handled by Describe, not part of this value.
type ClassificationResult struct {
	Label   string   `json:"label" yaml:"label"`
	Score   int      `json:"confidence_score" yaml:"confidence_score"`
	Tier    Tier     `json:"confidence_tier" yaml:"confidence_tier"`
	Methods []string `json:"methods_used" yaml:"methods_used"`
}

package inference

import "strings"

// Device-type labels emitted by the signature rule families.
const (
	LabelPrinter       = "Printer / MFP"
	LabelRouter        = "Router / Gateway"
	LabelWindowsServer = "Windows PC / Server"
	LabelEmbeddedLinux = "Raspberry Pi / Embedded Linux"
	LabelSSHHost       = "Linux machine / SSH host"
	LabelMobile        = "Mobile device / Phone (likely)"
	LabelIoT           = "IoT device"
	LabelWindows       = "Windows device"
	LabelLinuxAndroid  = "Linux / Android device"

	// LabelUnidentified replaces any partial label when the final score
	// lands in the Very Low tier.
	LabelUnidentified = "Unknown / Unidentified device"
)

// Method tags identifying which evidence source produced a contribution.
const (
	MethodMACOUI           = "MAC OUI"
	MethodPortAnalysis     = "Port Analysis"
	MethodPortOSAnalysis   = "Port + OS Analysis"
	MethodServiceAnalysis  = "Service Analysis"
	MethodMobileHeuristics = "MAC Vendor + Mobile Heuristics"
	MethodIoTPortAnalysis  = "IoT Port Analysis"
	MethodOSFingerprint    = "OS Fingerprinting"
)

// Contribution is one firing signature rule: a candidate label, its point
// value, and the method tag recorded for display. Authoritative marks
// contributions from the port-priority family, which overwrite the running
// label unconditionally; all other families only fill an unknown label.
type Contribution struct {
	Label         string
	Points        int
	Method        string
	Authoritative bool
}

var mobileVendorHints = []string{"samsung", "huawei", "xiaomi", "google", "oneplus"}

// MatchSignatures evaluates the heuristic rule families against the
// observed ports, service names, OS fingerprint text and vendor hint.
// Families are independent: each may contribute at most one entry, in
// family order, and within a family the first matching case wins. The
// function is pure and never fails; no matches yields an empty slice.
func MatchSignatures(ports []PortRecord, services []string, osFingerprint, vendorHint string) []Contribution {
	var out []Contribution

	osLower := strings.ToLower(osFingerprint)
	vendorLower := strings.ToLower(vendorHint)
	open := portSet(ports)
	svc := serviceSet(services)

	// osConsumed tracks whether the fingerprint text already backed a
	// combined rule (port+OS or service+OS). The OS fallback family must
	// not count the same evidence twice.
	osConsumed := false

	// Family 1: port priority. Printer ports are checked before router
	// heuristics so a print server exposing UPnP still classifies as a
	// printer.
	switch {
	case open[9100] || open[631] || open[515]:
		out = append(out, Contribution{Label: LabelPrinter, Points: 35, Method: MethodPortAnalysis, Authoritative: true})
	case open[1900] || open[5000] || strings.Contains(osLower, "router") || svc["upnp"]:
		out = append(out, Contribution{Label: LabelRouter, Points: 35, Method: MethodPortAnalysis, Authoritative: true})
	case open[445] || open[3389] || open[135]:
		out = append(out, Contribution{Label: LabelWindowsServer, Points: 35, Method: MethodPortAnalysis, Authoritative: true})
	case open[22] && unixLike(osLower):
		osConsumed = true
		if strings.Contains(vendorLower, "raspberry") {
			out = append(out, Contribution{Label: LabelEmbeddedLinux, Points: 35, Method: MethodPortOSAnalysis, Authoritative: true})
		} else {
			out = append(out, Contribution{Label: LabelSSHHost, Points: 30, Method: MethodPortOSAnalysis, Authoritative: true})
		}
	}

	// Family 2: service evidence.
	if svc["ssh"] && unixLike(osLower) {
		osConsumed = true
		out = append(out, Contribution{Label: LabelSSHHost, Points: 25, Method: MethodServiceAnalysis})
	}

	// Family 3: mobile vendor hints.
	for _, hint := range mobileVendorHints {
		if strings.Contains(vendorLower, hint) {
			out = append(out, Contribution{Label: LabelMobile, Points: 30, Method: MethodMobileHeuristics})
			break
		}
	}

	// Family 4: IoT ports paired with any vendor evidence.
	if (open[80] || open[554] || open[5555]) && vendorHint != "" {
		out = append(out, Contribution{Label: LabelIoT, Points: 25, Method: MethodIoTPortAnalysis})
	}

	// Family 5: OS fingerprint text, only when the text was not already
	// part of a combined match above.
	switch {
	case osConsumed:
	case strings.Contains(osLower, "windows"):
		out = append(out, Contribution{Label: LabelWindows, Points: 20, Method: MethodOSFingerprint})
	case strings.Contains(osLower, "linux") || strings.Contains(osLower, "android"):
		out = append(out, Contribution{Label: LabelLinuxAndroid, Points: 20, Method: MethodOSFingerprint})
	}

	return out
}

func unixLike(osLower string) bool {
	return strings.Contains(osLower, "linux") || strings.Contains(osLower, "unix")
}

func portSet(ports []PortRecord) map[int]bool {
	set := make(map[int]bool, len(ports))
	for _, p := range ports {
		set[p.Port] = true
	}
	return set
}

func serviceSet(services []string) map[string]bool {
	set := make(map[string]bool, len(services))
	for _, s := range services {
		if s == "" {
			continue
		}
		set[strings.ToLower(s)] = true
	}
	return set
}

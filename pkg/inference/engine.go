package inference

// Scoring constants for the confidence aggregator.
const (
	ouiMatchPoints        = 40
	crossValidationBonus  = 10
	conflictPenaltyPoints = 10
)

// Engine aggregates OUI classification and signature matching into a
// single scored result. It holds only an immutable OUI table, so one
// Engine may classify many hosts concurrently without locking.
type Engine struct {
	table *Table
}

// NewEngine builds an Engine over the given OUI table. A nil table falls
// back to the embedded default database.
func NewEngine(table *Table) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	return &Engine{table: table}
}

// Table returns the OUI table the engine classifies against.
func (e *Engine) Table() *Table {
	return e.table
}

// Infer classifies a host from its collected facts. It is a pure function
// of the facts and the engine's tables: no I/O, deterministic output, and
// degraded inputs (unknown MAC, empty ports, empty fingerprint) lower the
// score instead of failing.
func (e *Engine) Infer(facts HostFacts) ClassificationResult {
	score := 0
	detected := UnknownDevice
	var methods []string

	macType := e.table.Classify(facts.MACAddress)
	if macType != UnknownDevice {
		score += ouiMatchPoints
		detected = macType
		methods = append(methods, MethodMACOUI)
	}

	contributions := MatchSignatures(facts.OpenPorts, servicesOf(facts.OpenPorts), facts.OSFingerprint, facts.VendorHint)
	for _, c := range contributions {
		score += c.Points
		methods = append(methods, c.Method)
		if c.Authoritative || detected == UnknownDevice {
			detected = c.Label
		}
	}

	// Cross-validation: when MAC evidence and signature evidence disagree,
	// the OUI category wins and the agreement of two independent sources is
	// rewarded. The penalty branch is unreachable while the OUI gate above
	// records its method, but is kept so a future refactor cannot silently
	// inflate conflicting scores.
	if macType != UnknownDevice && detected != UnknownDevice && detected != macType {
		if containsMethod(methods, MethodMACOUI) {
			detected = macType
			score += crossValidationBonus
		} else {
			score -= conflictPenaltyPoints
		}
	}

	tier := TierForScore(score)
	if tier == TierVeryLow {
		detected = LabelUnidentified
	}

	return ClassificationResult{
		Label:   detected,
		Score:   score,
		Tier:    tier,
		Methods: methods,
	}
}

// servicesOf extracts the service-name set from observed port records.
func servicesOf(ports []PortRecord) []string {
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		if p.Service != "" {
			names = append(names, p.Service)
		}
	}
	return names
}

func containsMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

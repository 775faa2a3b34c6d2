package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hostscout/hostscout/pkg/inference"
	"github.com/hostscout/hostscout/pkg/scanner"
)

// HostResult pairs the facts gathered for a host with its classification.
type HostResult struct {
	Addr           string                         `json:"addr" yaml:"addr"`
	Facts          inference.HostFacts            `json:"facts" yaml:"facts"`
	Classification inference.ClassificationResult `json:"classification" yaml:"classification"`
}

// Report is the persisted artifact of one scan run.
type Report struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Targets     []string     `json:"targets" yaml:"targets"`
	Hosts       []HostResult `json:"hosts" yaml:"hosts"`
}

// BuildReport assembles a Report from scan output and the per-host
// classifications, which must be index-aligned with the reports slice.
func BuildReport(runID string, targets []string, hostReports []scanner.HostReport, results []inference.ClassificationResult) Report {
	hosts := make([]HostResult, 0, len(hostReports))
	for i, hr := range hostReports {
		res := HostResult{Addr: hr.Addr, Facts: hr.Facts}
		if i < len(results) {
			res.Classification = results[i]
		}
		hosts = append(hosts, res)
	}
	return Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Targets:     targets,
		Hosts:       hosts,
	}
}

// WriteReport persists the report under the run's reports directory as
// both JSON and YAML, returning the JSON path.
func (r *Run) WriteReport(report Report) (string, error) {
	base := filepath.Join(r.ReportsDir(), report.RunID)

	jsonPath := base + ".json"
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o640); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	yamlData, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(base+".yaml", yamlData, 0o640); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return jsonPath, nil
}

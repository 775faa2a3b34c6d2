package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hostscout/hostscout/pkg/inference"
)

func runClassify(t *testing.T, args ...string) string {
	t.Helper()

	cmd := NewCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"classify"}, args...))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	return buf.String()
}

func TestClassifyTextOutput(t *testing.T) {
	out := runClassify(t, "--mac", "3C:22:FB:AA:BB:CC", "--ports", "445")

	if !strings.Contains(out, "Apple Device") {
		t.Fatalf("expected Apple Device in output, got %q", out)
	}
	if !strings.Contains(out, "High confidence") {
		t.Fatalf("expected High confidence in output, got %q", out)
	}
}

func TestClassifyJSONOutput(t *testing.T) {
	out := runClassify(t, "--mac", "3C:22:FB:AA:BB:CC", "--ports", "445", "-o", "json")

	var payload struct {
		Facts          inference.HostFacts            `json:"facts"`
		Classification inference.ClassificationResult `json:"classification"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if payload.Classification.Label != "Apple Device" {
		t.Fatalf("expected Apple Device, got %q", payload.Classification.Label)
	}
	if payload.Classification.Score != 85 {
		t.Fatalf("expected score 85, got %d", payload.Classification.Score)
	}
	if len(payload.Facts.OpenPorts) != 1 || payload.Facts.OpenPorts[0].Service != "microsoft-ds" {
		t.Fatalf("unexpected facts: %+v", payload.Facts)
	}
}

func TestClassifyServiceOverride(t *testing.T) {
	out := runClassify(t, "--ports", "2222", "--service", "2222=ssh", "--os", "Linux 5.15", "-o", "json")

	var payload struct {
		Classification inference.ClassificationResult `json:"classification"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if payload.Classification.Label != "Linux machine / SSH host" {
		t.Fatalf("expected ssh host classification, got %+v", payload.Classification)
	}
}

func TestClassifyRejectsBadServiceOverride(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"classify", "--service", "ssh"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a malformed service override")
	}
}

package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hostscout/hostscout/pkg/version"
)

func TestRootCommandRunsVersion(t *testing.T) {
	cmd := NewCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version", "--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}

	if got := strings.TrimSpace(buf.String()); got != version.Version {
		t.Fatalf("expected version %q, got %q", version.Version, got)
	}
}

func TestRootCommandRejectsMissingConfigFile(t *testing.T) {
	cmd := NewCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "/definitely/not/here.yaml", "version"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

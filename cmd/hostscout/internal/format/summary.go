// Copyright 2025 Hostscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostscout/hostscout/pkg/inference"
)

// ScanSummary holds the aggregate numbers displayed after a scan.
type ScanSummary struct {
	Targets    int
	HostsFound int
	OpenPorts  int
	Duration   time.Duration
	ReportPath string
}

var (
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)

	summaryLabelStyle = lipgloss.NewStyle().Bold(true).Width(13)

	tierHighStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	tierMediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	tierLowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	tierVeryLowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TierStyle returns the display style for a confidence tier.
func TierStyle(tier inference.Tier) lipgloss.Style {
	switch tier {
	case inference.TierHigh:
		return tierHighStyle
	case inference.TierMedium:
		return tierMediumStyle
	case inference.TierLow:
		return tierLowStyle
	default:
		return tierVeryLowStyle
	}
}

// RenderScanSummary renders the post-scan summary box.
func RenderScanSummary(s ScanSummary) string {
	var sb strings.Builder

	row := func(label, value string) {
		sb.WriteString(summaryLabelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("Targets:", fmt.Sprintf("%d", s.Targets))
	row("Hosts found:", fmt.Sprintf("%d", s.HostsFound))
	row("Open ports:", fmt.Sprintf("%d", s.OpenPorts))
	row("Duration:", fmt.Sprintf("%.1fs", s.Duration.Seconds()))
	if s.ReportPath != "" {
		row("Report:", s.ReportPath)
	}

	return summaryBoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderClassification renders the one-line classification with its tier
// colored, e.g. for the per-host listing after a scan.
func RenderClassification(r inference.ClassificationResult) string {
	line := inference.Describe(r)
	return TierStyle(r.Tier).Render(fmt.Sprintf("score %d", r.Score)) + "  " + line
}

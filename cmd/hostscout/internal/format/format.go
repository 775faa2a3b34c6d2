// Copyright 2025 Hostscout Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// OutputMode defines the output format for CLI commands
type OutputMode string

const (
	// ModeText outputs human-readable text
	ModeText OutputMode = "text"
	// ModeJSON outputs data as JSON
	ModeJSON OutputMode = "json"
	// ModeYAML outputs data as YAML
	ModeYAML OutputMode = "yaml"
)

// ParseMode converts a string to OutputMode, failing on unknown values.
func ParseMode(mode string) (OutputMode, error) {
	switch OutputMode(strings.ToLower(mode)) {
	case ModeText, "":
		return ModeText, nil
	case ModeJSON:
		return ModeJSON, nil
	case ModeYAML:
		return ModeYAML, nil
	default:
		return "", fmt.Errorf("invalid output mode: %s (must be 'text', 'json' or 'yaml')", mode)
	}
}

// Formatter provides consistent output formatting across CLI commands
type Formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New creates a new Formatter
func New(stdout, stderr io.Writer, mode OutputMode, quiet, useColor bool) *Formatter {
	return &Formatter{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		quiet:  quiet,
		color:  useColor,
	}
}

// Mode returns the formatter's output mode.
func (f *Formatter) Mode() OutputMode {
	return f.mode
}

// PrintStructured outputs data in the structured format the formatter was
// created with. In text mode it falls back to JSON so callers always get
// machine-readable output from a single call site.
func (f *Formatter) PrintStructured(data any) error {
	if f.mode == ModeYAML {
		out, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = f.stdout.Write(out)
		return err
	}

	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintLine outputs a plain line to stdout in text mode. Structured modes
// suppress it so their output stays parseable.
func (f *Formatter) PrintLine(line string) error {
	if f.mode != ModeText {
		return nil
	}
	_, err := fmt.Fprintln(f.stdout, line)
	return err
}

// PrintTable outputs data as an aligned table to stdout
func (f *Formatter) PrintTable(headers []string, rows [][]string) error {
	if f.mode != ModeText {
		// In structured modes, convert the table to records.
		var items []map[string]string
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			items = append(items, item)
		}
		return f.PrintStructured(items)
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	// Print header (uppercase and bold if color enabled)
	if f.color {
		headerLine := make([]string, len(headers))
		for i, h := range headers {
			headerLine[i] = color.New(color.Bold).Sprint(strings.ToUpper(h))
		}
		if _, err := fmt.Fprintln(w, strings.Join(headerLine, "\t")); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

// PrintSummary outputs a summary message to stdout (unless quiet mode)
func (f *Formatter) PrintSummary(message string) error {
	if f.quiet {
		return nil
	}

	if f.mode != ModeText {
		// Structured modes: summary goes to stderr (not stdout)
		_, err := fmt.Fprintln(f.stderr, message)
		return err
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}

	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

// PrintError outputs an error to stderr (or a JSON object to stdout in
// structured modes)
func (f *Formatter) PrintError(err error) error {
	if err == nil {
		return nil
	}

	if f.mode != ModeText {
		return f.PrintStructured(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	var writeErr error
	if f.color {
		_, writeErr = color.New(color.FgRed).Fprintf(f.stderr, "Error: %v\n", err)
	} else {
		_, writeErr = fmt.Fprintf(f.stderr, "Error: %v\n", err)
	}

	return writeErr
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hostscout/hostscout/cmd/hostscout/internal/format"
	"github.com/hostscout/hostscout/pkg/config"
	"github.com/hostscout/hostscout/pkg/inference"
	"github.com/hostscout/hostscout/pkg/netutil"
	"github.com/hostscout/hostscout/pkg/scanner"
	"github.com/hostscout/hostscout/pkg/session"
	"github.com/hostscout/hostscout/pkg/stringutil"
)

// NewScanCommand defines the 'scan' command: expand targets, gather facts,
// classify every live host and persist a report.
func NewScanCommand() *cobra.Command {
	var (
		outputFormat string
		sessionDir   string
		noSession    bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "scan [targets...]",
		Short: "Scan network targets and classify discovered devices",
		Long: `Scans the given targets (IPs, CIDR ranges like 192.168.1.0/24, or octet
ranges like 192.168.1.10-50) for live hosts, collects per-host facts and
infers a device type with a confidence score for each one.`,
		GroupID: "scan",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.With().Str("command", "scan").Logger()

			mode, err := format.ParseMode(outputFormat)
			if err != nil {
				return err
			}
			out := format.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, quiet, true)

			manager, err := managerFromCommand(cmd)
			if err != nil {
				return err
			}
			cfg := manager.Get()
			applyScanFlagOverrides(cmd, &cfg.Scan)

			targets := netutil.ExpandTargets(args)
			if len(targets) == 0 {
				return errors.New("no scannable targets after expansion")
			}
			logger.Info().Strs("targets", args).Int("expanded", len(targets)).Msg("Starting scan")

			table, err := loadTable(cfg.OUI)
			if err != nil {
				return err
			}

			var engine atomic.Pointer[inference.Engine]
			engine.Store(inference.NewEngine(table))

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if cfg.OUI.Watch && cfg.OUI.TablePath != "" {
				watcher, watchErr := inference.NewTableWatcher(cfg.OUI.TablePath, func(t *inference.Table) {
					engine.Store(inference.NewEngine(t))
				}, log.Logger)
				if watchErr != nil {
					logger.Warn().Err(watchErr).Msg("Failed to start oui database watcher")
				} else {
					go func() { _ = watcher.Start(ctx) }()
				}
			}

			var run *session.Run
			if !noSession && !cfg.Session.Disabled {
				dir := sessionDir
				if dir == "" {
					dir = cfg.Session.Dir
				}
				run, err = session.Begin(dir)
				if err != nil {
					return fmt.Errorf("begin session: %w", err)
				}
				defer run.Close()
				logger.Info().Str("session", run.Root).Str("run_id", run.ID).Msg("Session ready")
			}

			collector := scanner.NewCollector(cfg.Scan, log.Logger,
				scanner.WithVendorLookup(func(mac string) string {
					if cat := engine.Load().Table().Classify(mac); cat != inference.UnknownDevice {
						return cat
					}
					return ""
				}),
			)

			start := time.Now()
			hostReports, scanErr := collector.Collect(ctx, targets)
			if scanErr != nil && !errors.Is(scanErr, context.Canceled) {
				return scanErr
			}

			results := make([]inference.ClassificationResult, len(hostReports))
			for i, hr := range hostReports {
				results[i] = engine.Load().Infer(hr.Facts)
			}

			runID := ""
			if run != nil {
				runID = run.ID
			}
			report := session.BuildReport(runID, args, hostReports, results)

			reportPath := ""
			if run != nil {
				reportPath, err = run.WriteReport(report)
				if err != nil {
					logger.Warn().Err(err).Msg("Failed to persist scan report")
				}
			}

			if mode != format.ModeText {
				if err := out.PrintStructured(report); err != nil {
					return err
				}
			} else {
				printScanText(out, report, format.ScanSummary{
					Targets:    len(targets),
					HostsFound: len(hostReports),
					OpenPorts:  totalOpenPorts(hostReports),
					Duration:   time.Since(start),
					ReportPath: reportPath,
				})
			}

			if scanErr != nil {
				_ = out.PrintError(fmt.Errorf("scan interrupted: %w", scanErr))
			}
			return nil
		},
	}

	cmd.Flags().StringP("ports", "p", "", "Ports/port ranges to scan (e.g. 'top', '22,80,443', '1-1024')")
	cmd.Flags().Duration("timeout", 0, "Timeout for network operations like ping/port connect")
	cmd.Flags().Int("concurrency", 0, "Concurrency for parallel probes")
	cmd.Flags().Int("ping-count", 0, "Number of ICMP pings per host")
	cmd.Flags().Bool("privileged", false, "Use raw-socket ICMP (requires privileges)")
	cmd.Flags().Bool("skip-ping", false, "Skip liveness probing and scan every target")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&sessionDir, "session-dir", "", "Override session root directory")
	cmd.Flags().BoolVar(&noSession, "no-session", false, "Disable report persistence for this run")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress summary output")

	return cmd
}

// applyScanFlagOverrides layers explicitly set scan flags over the loaded
// configuration.
func applyScanFlagOverrides(cmd *cobra.Command, cfg *config.ScanConfig) {
	if cmd.Flags().Changed("ports") {
		cfg.Ports, _ = cmd.Flags().GetString("ports")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if cmd.Flags().Changed("ping-count") {
		cfg.PingCount, _ = cmd.Flags().GetInt("ping-count")
	}
	if cmd.Flags().Changed("privileged") {
		cfg.Privileged, _ = cmd.Flags().GetBool("privileged")
	}
	if cmd.Flags().Changed("skip-ping") {
		cfg.SkipPing, _ = cmd.Flags().GetBool("skip-ping")
	}
}

// loadTable resolves the OUI table: the embedded database unless an
// external file is configured.
func loadTable(cfg config.OUIConfig) (*inference.Table, error) {
	if cfg.TablePath == "" {
		return inference.DefaultTable(), nil
	}
	table, err := inference.LoadTableFile(cfg.TablePath)
	if err != nil {
		return nil, fmt.Errorf("load oui database: %w", err)
	}
	return table, nil
}

func totalOpenPorts(reports []scanner.HostReport) int {
	total := 0
	for _, r := range reports {
		total += len(r.Facts.OpenPorts)
	}
	return total
}

// printScanText renders the human-readable scan output: summary box first,
// then one block per classified host.
func printScanText(out *format.Formatter, report session.Report, summary format.ScanSummary) {
	_ = out.PrintLine("")
	_ = out.PrintLine(format.RenderScanSummary(summary))
	_ = out.PrintLine("")

	if len(report.Hosts) == 0 {
		_ = out.PrintLine("No live hosts found.")
		return
	}

	for _, host := range report.Hosts {
		_ = out.PrintLine(fmt.Sprintf("## %s", host.Addr))
		_ = out.PrintLine("   " + format.RenderClassification(host.Classification))
		if host.Facts.MACAddress != inference.MACUnknown {
			_ = out.PrintLine("   MAC: " + host.Facts.MACAddress)
		}
		if host.Facts.OSFingerprint != "" {
			_ = out.PrintLine("   OS:  " + stringutil.Ellipsis(host.Facts.OSFingerprint, 80))
		}
		for _, port := range host.Facts.OpenPorts {
			line := fmt.Sprintf("   - %d/%s", port.Port, port.Protocol)
			if port.Service != "" {
				line += " (" + port.Service + ")"
			}
			_ = out.PrintLine(line)
		}
		_ = out.PrintLine("")
	}
}

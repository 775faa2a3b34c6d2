// Package scanner gathers per-host facts (liveness, open ports, MAC
// addresses, banner-derived OS hints) for the inference engine. It only
// uses its own sockets and the kernel ARP cache; no external scanning
// binaries are invoked.
package scanner

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostscout/hostscout/pkg/config"
	"github.com/hostscout/hostscout/pkg/inference"
)

// HostReport pairs a target address with the facts collected for it.
type HostReport struct {
	Addr  string              `json:"addr" yaml:"addr"`
	Facts inference.HostFacts `json:"facts" yaml:"facts"`
}

// VendorLookup resolves a MAC address to a vendor name string, feeding
// the inference vendor-hint heuristics. Deployments typically wire this
// to an external vendor database; a nil lookup leaves the hint empty.
type VendorLookup func(mac string) string

// Collector drives the fact-gathering pipeline: liveness probing, TCP
// connect scanning, ARP resolution and banner grabbing.
type Collector struct {
	cfg    config.ScanConfig
	logger zerolog.Logger

	pingerFactory pingerFactoryFunc
	dial          dialFunc
	macResolver   MACResolver
	vendorLookup  VendorLookup
}

// Option adjusts a Collector. Used by tests to substitute the network
// touching parts.
type Option func(*Collector)

// WithPingerFactory overrides how pingers are constructed.
func WithPingerFactory(f func(addr string) (Pinger, error)) Option {
	return func(c *Collector) { c.pingerFactory = f }
}

// WithDialer overrides the TCP dialer.
func WithDialer(d func(ctx context.Context, network, addr string) (net.Conn, error)) Option {
	return func(c *Collector) { c.dial = d }
}

// WithMACResolver overrides the ARP-table resolver.
func WithMACResolver(r MACResolver) Option {
	return func(c *Collector) { c.macResolver = r }
}

// WithVendorLookup wires an external MAC-vendor database.
func WithVendorLookup(v VendorLookup) Option {
	return func(c *Collector) { c.vendorLookup = v }
}

// NewCollector builds a Collector from scan configuration.
func NewCollector(cfg config.ScanConfig, logger zerolog.Logger, opts ...Option) *Collector {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	if cfg.PingCount < 1 {
		cfg.PingCount = 1
	}

	dialer := &net.Dialer{}
	c := &Collector{
		cfg:           cfg,
		logger:        logger.With().Str("component", "scanner").Logger(),
		pingerFactory: defaultPingerFactory,
		dial:          dialer.DialContext,
		macResolver:   NewProcARPTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect expands nothing itself: it takes already-expanded IP targets,
// filters them down to live hosts (unless skip_ping is set), and returns
// one HostReport per live host. A canceled context returns the reports
// finished so far along with ctx.Err().
func (c *Collector) Collect(ctx context.Context, targets []string) ([]HostReport, error) {
	portList, err := ParsePorts(c.cfg.Ports)
	if err != nil {
		return nil, err
	}

	hosts := targets
	if !c.cfg.SkipPing {
		c.logger.Info().Int("targets", len(targets)).Msg("Probing for live hosts")
		hosts = c.pingHosts(ctx, targets)
		c.logger.Info().Int("alive", len(hosts)).Msg("Liveness probing finished")
	}

	var reports []HostReport
	for _, host := range hosts {
		select {
		case <-ctx.Done():
			return reports, ctx.Err()
		default:
		}
		reports = append(reports, HostReport{Addr: host, Facts: c.collectHost(ctx, host, portList)})
	}
	return reports, nil
}

// collectHost gathers the facts for one live host.
func (c *Collector) collectHost(ctx context.Context, host string, portList []int) inference.HostFacts {
	open := c.scanPorts(ctx, host, portList)
	c.logger.Debug().Str("host", host).Int("open", len(open)).Msg("Port scan finished")

	mac := c.macResolver.Resolve(host)

	var vendorHint string
	if c.vendorLookup != nil && mac != inference.MACUnknown {
		vendorHint = c.vendorLookup(mac)
	}

	var osHint string
	for _, rec := range open {
		if rec.Service != "ssh" {
			continue
		}
		if hint := osHintFromBanner(c.grabBanner(ctx, host, rec.Port)); hint != "" {
			osHint = hint
		}
		break
	}

	return inference.HostFacts{
		MACAddress:    mac,
		OpenPorts:     open,
		OSFingerprint: osHint,
		VendorHint:    vendorHint,
	}
}

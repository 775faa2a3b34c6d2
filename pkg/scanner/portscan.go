package scanner

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"

	"github.com/hostscout/hostscout/pkg/inference"
	"github.com/hostscout/hostscout/pkg/stringutil"
)

// topPorts is the default scan set: the ports the inference rule families
// key on, plus common management and web services.
var topPorts = []int{
	21, 22, 23, 25, 53, 80, 110, 135, 139, 143, 443, 445, 515, 554,
	631, 993, 995, 1900, 3306, 3389, 5000, 5432, 5555, 8080, 8443, 9100,
}

// wellKnownServices maps scanned ports to conventional service names.
// These names feed the inference service family, so the ssh entry must
// stay lowercase "ssh".
var wellKnownServices = map[int]string{
	21:   "ftp",
	22:   "ssh",
	23:   "telnet",
	25:   "smtp",
	53:   "domain",
	80:   "http",
	110:  "pop3",
	135:  "msrpc",
	139:  "netbios-ssn",
	143:  "imap",
	443:  "https",
	445:  "microsoft-ds",
	515:  "printer",
	554:  "rtsp",
	631:  "ipp",
	993:  "imaps",
	995:  "pop3s",
	1900: "upnp",
	3306: "mysql",
	3389: "ms-wbt-server",
	5000: "upnp",
	5432: "postgresql",
	5555: "adb",
	8080: "http-proxy",
	8443: "https-alt",
	9100: "jetdirect",
}

// ParsePorts expands a port specification ("top", "22,80,443", "1-1024",
// or a mix like "22,8000-8010") into a sorted, deduplicated port list.
func ParsePorts(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "top") {
		out := make([]int, len(topPorts))
		copy(out, topPorts)
		return out, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			lo, errLo := cast.ToIntE(strings.TrimSpace(bounds[0]))
			hi, errHi := cast.ToIntE(strings.TrimSpace(bounds[1]))
			if errLo != nil || errHi != nil {
				return nil, fmt.Errorf("invalid port range %q", part)
			}
			if lo < 1 || hi > 65535 || lo > hi {
				return nil, fmt.Errorf("port range %q out of bounds", part)
			}
			for p := lo; p <= hi; p++ {
				seen[p] = true
			}
			continue
		}
		p, err := cast.ToIntE(part)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", part)
		}
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("port %d out of range", p)
		}
		seen[p] = true
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

// ServiceName returns the conventional service name for a port, or empty
// when the port has no well-known assignment in the scan set.
func ServiceName(port int) string {
	return wellKnownServices[port]
}

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// scanPorts connect-scans the given ports on one host and returns the
// open ones as inference port records, sorted by port number.
func (c *Collector) scanPorts(ctx context.Context, host string, portList []int) []inference.PortRecord {
	var (
		mu   sync.Mutex
		open []inference.PortRecord
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, c.cfg.Concurrency)

	for _, port := range portList {
		select {
		case <-ctx.Done():
			wg.Wait()
			sortRecords(open)
			return open
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(p int) {
			defer wg.Done()
			defer func() { <-sem }()

			dialCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()

			conn, err := c.dial(dialCtx, "tcp", net.JoinHostPort(host, fmt.Sprint(p)))
			if err != nil {
				return
			}
			_ = conn.Close()

			mu.Lock()
			open = append(open, inference.PortRecord{
				Port:     p,
				Protocol: "tcp",
				Service:  ServiceName(p),
			})
			mu.Unlock()
		}(port)
	}

	wg.Wait()
	sortRecords(open)
	return open
}

func sortRecords(records []inference.PortRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].Port < records[j].Port })
}

// grabBanner reads the service greeting from an open port, used for the
// opportunistic OS hint. Servers that wait for the client first simply
// time out and return nothing.
func (c *Collector) grabBanner(ctx context.Context, host string, port int) string {
	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	conn, err := c.dial(dialCtx, "tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return ""
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return ""
	}
	return stringutil.Ellipsis(string(buf[:n]), 120)
}

// osHintFromBanner derives a coarse OS fingerprint string from a service
// banner. SSH greetings are the most reliable source on a connect scan.
func osHintFromBanner(banner string) string {
	lower := strings.ToLower(banner)
	switch {
	case lower == "":
		return ""
	case strings.Contains(lower, "ubuntu"),
		strings.Contains(lower, "debian"),
		strings.Contains(lower, "raspbian"):
		return "Linux (" + banner + ")"
	case strings.Contains(lower, "openssh"):
		// OpenSSH without a distro suffix still overwhelmingly means a
		// unix-like host.
		return "Unix-like (" + banner + ")"
	case strings.Contains(lower, "windows"), strings.Contains(lower, "microsoft"):
		return "Windows (" + banner + ")"
	case strings.Contains(lower, "mikrotik"), strings.Contains(lower, "routeros"):
		return "RouterOS (" + banner + ")"
	default:
		return ""
	}
}

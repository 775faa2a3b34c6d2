package scanner

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hostscout/hostscout/pkg/inference"
)

// MACResolver resolves an IP address to its MAC address. Implementations
// return inference.MACUnknown when no mapping exists; they never error on
// a miss.
type MACResolver interface {
	Resolve(ip string) string
}

// procARPTable reads the kernel ARP cache on Linux. The table only holds
// neighbors the kernel has actually exchanged traffic with, which the
// ping/port phases guarantee for live hosts on the local segment.
type procARPTable struct {
	path string
}

// NewProcARPTable returns a resolver backed by /proc/net/arp.
func NewProcARPTable() MACResolver {
	return &procARPTable{path: "/proc/net/arp"}
}

func (t *procARPTable) Resolve(ip string) string {
	entries, err := parseARPFile(t.path)
	if err != nil {
		return inference.MACUnknown
	}
	if mac, ok := entries[ip]; ok {
		return mac
	}
	return inference.MACUnknown
}

// parseARPFile parses the /proc/net/arp format:
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         a4:5e:60:11:22:33     *        eth0
//
// Incomplete entries (flags 0x0, all-zero MAC) are dropped.
func parseARPFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open arp table: %w", err)
	}
	defer f.Close()

	entries := make(map[string]string)
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first { // header line
			first = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		ip, flags, mac := fields[0], fields[2], fields[3]
		if flags == "0x0" || mac == "00:00:00:00:00:00" {
			continue
		}
		entries[ip] = strings.ToUpper(mac)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read arp table: %w", err)
	}
	return entries, nil
}

// staticMACResolver serves fixed mappings; used in tests and for facts
// supplied directly by the operator.
type staticMACResolver map[string]string

func (s staticMACResolver) Resolve(ip string) string {
	if mac, ok := s[ip]; ok {
		return mac
	}
	return inference.MACUnknown
}

// Package netutil expands operator-supplied target notations into
// concrete IP lists.
package netutil

import (
	"bytes"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Hard cap on expansion so a stray /8 cannot exhaust memory.
const maxExpandedTargets = 65536

// ExpandTargets expands CIDRs, simple last-octet ranges and full IP ranges
// into a deduplicated list of individual IP strings. Invalid entries are
// logged and skipped rather than failing the whole run.
func ExpandTargets(targets []string) []string {
	var expanded []string
	for _, t := range targets {
		target := strings.TrimSpace(t)
		if target == "" {
			continue
		}

		switch {
		case strings.Contains(target, "/"):
			expanded = append(expanded, expandCIDR(target)...)
		case strings.Contains(target, "-"):
			expanded = append(expanded, expandRange(target)...)
		default:
			expanded = append(expanded, target)
		}

		if len(expanded) >= maxExpandedTargets {
			log.Warn().Str("target", target).Int("count", len(expanded)).Msg("Target expansion hit the hard cap, truncating")
			break
		}
	}
	return dedupeAndFilter(expanded)
}

func expandCIDR(target string) []string {
	ipAddr, ipNet, err := net.ParseCIDR(target)
	if err != nil {
		log.Warn().Str("target", target).Err(err).Msg("Skipping unparseable CIDR")
		return nil
	}

	var out []string
	networkIP, broadcastIP := edgeAddrs(ipNet)
	for ip := ipAddr.Mask(ipNet.Mask); ipNet.Contains(ip); incIP(ip) {
		// Skip network and broadcast addresses for ordinary IPv4 subnets;
		// /31 and /32 have no such reserved hosts.
		if networkIP != nil && (ip.Equal(networkIP) || ip.Equal(broadcastIP)) {
			continue
		}
		ipCopy := make(net.IP, len(ip))
		copy(ipCopy, ip)
		out = append(out, ipCopy.String())

		if len(out) >= maxExpandedTargets {
			log.Warn().Str("target", target).Msg("CIDR expansion truncated at hard cap")
			break
		}
	}
	return out
}

// expandRange handles "192.168.1.10-20" and "192.168.1.10-192.168.1.20".
func expandRange(target string) []string {
	parts := strings.SplitN(target, "-", 2)
	if len(parts) != 2 {
		return []string{target}
	}
	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	startIP := net.ParseIP(startStr)
	endIP := net.ParseIP(endStr)

	// Last-octet shorthand.
	if startIP != nil && endIP == nil {
		base := strings.Split(startStr, ".")
		if len(base) == 4 {
			startOctet, errStart := cast.ToIntE(base[3])
			endOctet, errEnd := cast.ToIntE(endStr)
			if errStart == nil && errEnd == nil &&
				startOctet >= 0 && endOctet >= startOctet && endOctet <= 255 {
				prefix := strings.Join(base[:3], ".")
				out := make([]string, 0, endOctet-startOctet+1)
				for i := startOctet; i <= endOctet; i++ {
					out = append(out, fmt.Sprintf("%s.%d", prefix, i))
				}
				return out
			}
		}
	}

	if startIP == nil || endIP == nil {
		log.Warn().Str("target", target).Msg("Skipping invalid IP range")
		return nil
	}
	start4, end4 := startIP.To4(), endIP.To4()
	if (start4 == nil) != (end4 == nil) {
		log.Warn().Str("target", target).Msg("Skipping range with mismatched IP versions")
		return nil
	}
	if start4 != nil {
		startIP, endIP = start4, end4
	}
	if bytes.Compare(startIP, endIP) > 0 {
		log.Warn().Str("target", target).Msg("Skipping range with start greater than end")
		return nil
	}

	var out []string
	current := make(net.IP, len(startIP))
	copy(current, startIP)
	for {
		ipCopy := make(net.IP, len(current))
		copy(ipCopy, current)
		out = append(out, ipCopy.String())

		if bytes.Equal(current, endIP) || len(out) >= maxExpandedTargets {
			break
		}
		incIP(current)
	}
	return out
}

// edgeAddrs returns the network and broadcast addresses for IPv4 subnets
// that reserve them, nil otherwise.
func edgeAddrs(ipNet *net.IPNet) (net.IP, net.IP) {
	ip4 := ipNet.IP.To4()
	if ip4 == nil {
		return nil, nil
	}
	ones, bits := ipNet.Mask.Size()
	if bits != 32 || ones >= 31 || ones == 0 {
		return nil, nil
	}
	broadcast := make(net.IP, net.IPv4len)
	for i := 0; i < net.IPv4len; i++ {
		broadcast[i] = ip4[i] | ^ipNet.Mask[i]
	}
	return ip4, broadcast
}

// incIP increments an IP address in place (IPv4 and IPv6).
func incIP(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

// dedupeAndFilter removes duplicates and generally non-targetable
// addresses (multicast, unspecified, link-local).
func dedupeAndFilter(ips []string) []string {
	seen := make(map[string]bool, len(ips))
	var result []string
	for _, ipStr := range ips {
		trimmed := strings.TrimSpace(ipStr)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		ip := net.ParseIP(trimmed)
		if ip == nil ||
			ip.IsMulticast() ||
			ip.IsUnspecified() ||
			ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	return result
}

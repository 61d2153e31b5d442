package netutil

import (
	"net/netip"
	"strings"
	"unicode/utf8"
)

// MaxUserAgentLength caps what we persist on a session row.
const MaxUserAgentLength = 512

// NormalizeIP accepts a bare IP or a host:port address (including bracketed
// IPv6) and returns the canonical IP portion without zone identifiers. The
// second return value reports whether parsing succeeded.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		return addrPort.Addr().WithZone("").String(), true
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		return addr.WithZone("").String(), true
	}
	// host:port with a non-numeric port, or trailing junk.
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		host := strings.Trim(raw[:idx], "[]")
		if addr, err := netip.ParseAddr(host); err == nil {
			return addr.WithZone("").String(), true
		}
	}
	return raw, false
}

// TruncateUserAgent trims overly long user agents to MaxUserAgentLength
// runes without splitting multi-byte characters.
func TruncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	runes := 0
	for i := range ua {
		if runes == MaxUserAgentLength {
			return ua[:i]
		}
		runes++
	}
	return ua
}

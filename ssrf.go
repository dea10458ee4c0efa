package main

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
)

// allowLocalEnv lifts private address blocking; tests set it to reach
// httptest servers on loopback.
const allowLocalEnv = "HTML2DOCBOOK_TEST_ALLOW_LOCAL"

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),    // IPv4 loopback
	netip.MustParsePrefix("10.0.0.0/8"),     // RFC1918
	netip.MustParsePrefix("172.16.0.0/12"),  // RFC1918
	netip.MustParsePrefix("192.168.0.0/16"), // RFC1918
	netip.MustParsePrefix("169.254.0.0/16"), // RFC3927 link-local
	netip.MustParsePrefix("100.64.0.0/10"),  // RFC6598 carrier-grade NAT
	netip.MustParsePrefix("::1/128"),        // IPv6 loopback
	netip.MustParsePrefix("fe80::/10"),      // IPv6 link-local
	netip.MustParsePrefix("fc00::/7"),       // IPv6 unique local
}

func isPrivateIP(ip netip.Addr) bool {
	if os.Getenv(allowLocalEnv) == "1" {
		return false
	}
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, p := range privatePrefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// safeDialContext wraps a dialer to block connections to private IPs.
// It resolves the hostname, checks the IP, and then dials the safe IP directly.
func safeDialContext(dialer *net.Dialer) func(context.Context, string, string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, err
		}

		var safe netip.Addr
		for _, ip := range ips {
			if !isPrivateIP(ip) {
				safe = ip.Unmap()
				break
			}
		}
		if !safe.IsValid() {
			return nil, fmt.Errorf("blocked connection to private/local IP for %s", host)
		}

		// Dial the IP directly to avoid re-resolution between check and use.
		// TLS callers keep the original hostname for SNI.
		return dialer.DialContext(ctx, network, net.JoinHostPort(safe.String(), port))
	}
}

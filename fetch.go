// Remote input: fetch pages with a browser-like TLS fingerprint.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const defaultUA = "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0"

// defaultMaxResponseBytes caps a single response body unless overridden by
// --max-response-size.
const defaultMaxResponseBytes int64 = 128 * 1024 * 1024

// fetchOpts controls remote input retrieval.
type fetchOpts struct {
	timeout   time.Duration
	userAgent string
	// proxy, when non-empty, routes requests through an HTTP proxy with
	// standard TLS, since uTLS cannot negotiate CONNECT tunnels.
	proxy string
	// maxBytes rejects larger bodies; 0 means unlimited.
	maxBytes int64
}

func defaultFetchOpts() fetchOpts {
	return fetchOpts{
		timeout:   30 * time.Second,
		userAgent: defaultUA,
		maxBytes:  defaultMaxResponseBytes,
	}
}

// newProxyClient creates an HTTP client that routes through the given proxy
// address using standard TLS. If proxyAddr is empty, it creates a direct
// client with standard TLS.
func newProxyClient(proxyAddr string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		DialContext: safeDialContext(&net.Dialer{Timeout: timeout}),
	}
	if proxyAddr != "" {
		proxyURL, err := url.Parse(proxyAddr)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", proxyAddr, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// readLimited reads r fully, failing once more than limit bytes arrive.
// A limit of 0 or less reads without limit.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	// Read limit+1 bytes so we can detect overflow without a custom reader.
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("input exceeds maximum allowed size (%s)", humanSize(limit))
	}
	return data, nil
}

// humanSize formats a byte count for log lines and error messages.
func humanSize(n int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	f := float64(n)
	for _, u := range units {
		if math.Abs(f) < 1024 {
			return fmt.Sprintf("%.1f%s", f, u)
		}
		f /= 1024
	}
	return fmt.Sprintf("%.1f%s", f, units[len(units)-1])
}

// utlsConn wraps a utls.UConn and satisfies net.Conn + the
// ConnectionState interface that net/http2 needs.
type utlsConn struct {
	*utls.UConn
}

func (c *utlsConn) ConnectionState() tls.ConnectionState {
	cs := c.UConn.ConnectionState()
	return tls.ConnectionState{
		Version:                    cs.Version,
		HandshakeComplete:          cs.HandshakeComplete,
		CipherSuite:                cs.CipherSuite,
		NegotiatedProtocol:         cs.NegotiatedProtocol,
		NegotiatedProtocolIsMutual: cs.NegotiatedProtocolIsMutual,
		ServerName:                 cs.ServerName,
		PeerCertificates:           cs.PeerCertificates,
		VerifiedChains:             cs.VerifiedChains,
		OCSPResponse:               cs.OCSPResponse,
		TLSUnique:                  cs.TLSUnique,
	}
}

// newBrowserClient creates an HTTP client that mimics a real browser's
// TLS fingerprint using utls. Supports both HTTP/1.1 and HTTP/2.
func newBrowserClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}

	// HTTP/2 transport for h2 connections
	h2Transport := &http2.Transport{}

	// HTTP/1.1 transport with utls dialer
	h1Transport := &http.Transport{
		DialContext: safeDialContext(dialer),
	}

	// Custom round tripper that dials with utls and routes to h1 or h2
	// based on ALPN negotiation.
	rt := &browserTransport{
		dialer:  dialer,
		h1:      h1Transport,
		h2:      h2Transport,
		timeout: timeout,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}

type browserTransport struct {
	dialer  *net.Dialer
	h1      *http.Transport
	h2      *http2.Transport
	timeout time.Duration
}

func (bt *browserTransport) dialUTLS(ctx context.Context, network, addr string) (net.Conn, string, error) {
	conn, err := safeDialContext(bt.dialer)(ctx, network, addr)
	if err != nil {
		return nil, "", err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
	}, utls.HelloFirefox_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, "", err
	}

	alpn := tlsConn.ConnectionState().NegotiatedProtocol
	return &utlsConn{tlsConn}, alpn, nil
}

func (bt *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return bt.h1.RoundTrip(req)
	}

	addr := req.URL.Host
	if !hasPort(addr) {
		addr = addr + ":443"
	}

	conn, alpn, err := bt.dialUTLS(req.Context(), "tcp", addr)
	if err != nil {
		return nil, err
	}

	if alpn == "h2" {
		// For HTTP/2, use http2.ClientConn directly
		h2conn, err := bt.h2.NewClientConn(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return h2conn.RoundTrip(req)
	}

	// For HTTP/1.1, inject the TLS conn into a one-shot transport
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return conn, nil
		},
	}
	return transport.RoundTrip(req)
}

func hasPort(host string) bool {
	_, _, err := net.SplitHostPort(host)
	return err == nil
}

// isRemote reports whether arg names an http or https resource.
func isRemote(arg string) bool {
	u, err := url.Parse(arg)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// fetchHTML downloads a URL and returns the body and the parsed URL.
// Uses browser-like TLS fingerprint and headers to avoid bot detection.
func fetchHTML(ctx context.Context, rawURL string, opts fetchOpts, log *slog.Logger) ([]byte, *url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, nil, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}

	var client *http.Client
	switch {
	case opts.proxy != "":
		client, err = newProxyClient(opts.proxy, opts.timeout)
		if err != nil {
			return nil, nil, err
		}
	case parsed.Scheme == "https":
		client = newBrowserClient(opts.timeout)
	default:
		client = &http.Client{
			Timeout: opts.timeout,
			Transport: &http.Transport{
				DialContext: safeDialContext(&net.Dialer{Timeout: opts.timeout}),
			},
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, err
	}
	ua := opts.userAgent
	if ua == "" {
		ua = defaultUA
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := readLimited(resp.Body, opts.maxBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	log.Info("fetched", "url", rawURL, "size", humanSize(int64(len(body))))
	return body, parsed, nil
}

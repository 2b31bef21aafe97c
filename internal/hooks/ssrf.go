// Package hooks evaluates webhook conditions against mutated records and
// delivers the resulting notifications over HTTP, email or plugin channels,
// logging every attempt according to the configured automation log level.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrPrivateAddress marks an outbound delivery that resolved to a private,
// loopback or otherwise non-public address while local hooks are disabled.
var ErrPrivateAddress = errors.New("destination resolves to a non-public address")

// guardedDialer wraps the default dialer with an address check performed
// AFTER name resolution, so a hostname pointing at an internal address is
// caught even when the literal URL looks public.
type guardedDialer struct {
	dialer *net.Dialer
}

func newGuardedDialer() *guardedDialer {
	return &guardedDialer{
		dialer: &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second},
	}
}

func (g *guardedDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	for _, ip := range ips {
		if isNonPublic(ip.IP) {
			return nil, fmt.Errorf("dial %s: %w", addr, ErrPrivateAddress)
		}
	}

	// Pin the connection to a vetted address so a second resolution cannot
	// swap in a different one.
	return g.dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
}

// isNonPublic reports whether the address belongs to a range that outbound
// webhooks must not reach: loopback, RFC 1918, link-local, CGNAT, ULA and
// the unspecified address.
func isNonPublic(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsUnspecified() || ip.IsPrivate() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	// 100.64.0.0/10 carrier-grade NAT
	if v4 := ip.To4(); v4 != nil && v4[0] == 100 && v4[1]&0xc0 == 64 {
		return true
	}
	return false
}

// NewHTTPClient builds the outbound delivery client. When allowLocal is
// false every connection goes through the guarded dialer.
func NewHTTPClient(timeout time.Duration, allowLocal bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !allowLocal {
		transport.DialContext = newGuardedDialer().DialContext
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

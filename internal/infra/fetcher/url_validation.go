package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"syscall"
)

// validateURL checks scheme and host and, when denyPrivateIPs is set,
// resolves the host and rejects loopback, private and link-local targets.
func validateURL(ctx context.Context, u *url.URL, denyPrivateIPs bool) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	if ip := net.ParseIP(hostname); ip != nil {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s", ErrPrivateIP, ip)
		}
		return nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}
	for _, addr := range addrs {
		if isPrivateIP(addr.IP) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", ErrPrivateIP, hostname, addr.IP)
		}
	}
	return nil
}

// parseAndValidate parses rawURL and applies validateURL.
func parseAndValidate(ctx context.Context, rawURL string, denyPrivateIPs bool) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}
	if err := validateURL(ctx, u, denyPrivateIPs); err != nil {
		return nil, err
	}
	return u, nil
}

// isPrivateIP reports whether ip is loopback, private (RFC 1918 / RFC 4193)
// or link-local.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// denyPrivateDial is a net.Dialer Control hook. It sees the address after
// DNS resolution, so it also covers hosts that re-resolve after validateURL.
func denyPrivateDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: dial address %q: %v", ErrInvalidURL, address, err)
	}
	ip := net.ParseIP(host)
	if ip == nil || isPrivateIP(ip) {
		return fmt.Errorf("%w: dial to %s", ErrPrivateIP, address)
	}
	return nil
}

// Package fetcher imports articles from the web as source text for
// content generation.
package fetcher

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"contentflow/internal/domain/entity"
)

// Import failure kinds. Rejected URLs also match entity.ErrInvalidInput.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http(s).
	ErrInvalidURL = fmt.Errorf("%w: invalid URL or unsupported scheme", entity.ErrInvalidInput)

	// ErrPrivateIP indicates the host resolves to a loopback, private or
	// link-local address.
	ErrPrivateIP = fmt.Errorf("%w: private IP access denied", entity.ErrInvalidInput)

	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrTimeout          = errors.New("request timeout")

	// ErrReadabilityFailed indicates the page had no extractable article text.
	ErrReadabilityFailed = errors.New("content extraction failed")
)

// validateURL checks scheme and host and, when denyPrivateIPs is set,
// resolves the host and rejects internal addresses.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}

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

	// DNS 解決してプライベート IP を拒否（SSRF 対策）
	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}

// isPrivateIP reports loopback (127.0.0.0/8, ::1), private (RFC 1918,
// fc00::/7) and link-local (169.254.0.0/16, fe80::/10) addresses.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

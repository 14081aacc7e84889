// Package session finds the admin API bearer token in the user's logged-in
// browser session, either read live from a browser profile or from an
// exported cookies.txt file.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoSession means no matching session cookie was found.
	ErrNoSession = errors.New("no session cookie found")
	// ErrSessionExpired means the session cookie exists but has expired.
	ErrSessionExpired = errors.New("session cookie expired")
)

// candidate is a cookie from any source reduced to what token selection needs.
type candidate struct {
	Domain  string
	Name    string
	Value   string
	Expires time.Time // zero = session cookie
}

// matchesDomain reports whether cookieDomain is domain or one of its subdomains.
func matchesDomain(cookieDomain, domain string) bool {
	if domain == "" {
		return true
	}
	cd := strings.ToLower(strings.TrimPrefix(cookieDomain, "."))
	d := strings.ToLower(strings.TrimPrefix(domain, "."))
	return cd == d || strings.HasSuffix(cd, "."+d)
}

// selectToken picks the freshest unexpired cookie named name for domain.
func selectToken(cookies []candidate, name, domain string, now time.Time) (string, error) {
	var (
		best      *candidate
		sawExpiry bool
	)

	for i := range cookies {
		c := &cookies[i]
		if c.Name != name || c.Value == "" || !matchesDomain(c.Domain, domain) {
			continue
		}

		if !c.Expires.IsZero() && c.Expires.Before(now) {
			sawExpiry = true
			continue
		}

		// Session cookies (no expiry) win over persistent ones
		if best == nil || c.Expires.IsZero() || (!best.Expires.IsZero() && c.Expires.After(best.Expires)) {
			best = c
		}
	}

	if best != nil {
		return best.Value, nil
	}
	if sawExpiry {
		return "", fmt.Errorf("%s for %s: %w", name, domain, ErrSessionExpired)
	}
	return "", fmt.Errorf("%s for %s: %w", name, domain, ErrNoSession)
}

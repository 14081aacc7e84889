package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"
)

// SupportedBrowsers lists the browser stores compiled in.
var SupportedBrowsers = []string{"chrome", "chromium", "firefox", "edge", "opera"}

// BrowserSource reads the session token straight from local browser profiles.
type BrowserSource struct {
	Browser    string // empty = any browser
	Domain     string
	CookieName string
}

// Token returns the freshest matching session cookie value.
func (s *BrowserSource) Token(ctx context.Context) (string, error) {
	filters := []kooky.Filter{kooky.Name(s.CookieName)}
	if s.Domain != "" {
		filters = append(filters, kooky.DomainHasSuffix(s.Domain))
	}

	cookies, err := kooky.ReadCookies(ctx, filters...)
	if err != nil && len(cookies) == 0 {
		return "", fmt.Errorf("read cookies from browser: %w", err)
	}

	browser := strings.ToLower(s.Browser)
	candidates := make([]candidate, 0, len(cookies))
	for _, cookie := range cookies {
		if browser != "" && cookie.Browser != nil {
			if !strings.Contains(strings.ToLower(cookie.Browser.Browser()), browser) {
				continue
			}
		}

		// Browsers store session cookies with a zero or epoch expiry
		expires := cookie.Expires
		if expires.Unix() <= 0 {
			expires = time.Time{}
		}

		candidates = append(candidates, candidate{
			Domain:  cookie.Domain,
			Name:    cookie.Name,
			Value:   cookie.Value,
			Expires: expires,
		})
	}

	return selectToken(candidates, s.CookieName, s.Domain, time.Now())
}

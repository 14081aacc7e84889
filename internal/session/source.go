package session

import "context"

// Source yields the current session token.
type Source interface {
	Token(ctx context.Context) (string, error)
}

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*BrowserSource)(nil)
)

// NewSource prefers an exported cookie file and falls back to reading the
// browser profiles directly.
func NewSource(cookieFile, browser, cookieName, domain string) Source {
	if cookieFile != "" {
		return &FileSource{Path: cookieFile, Domain: domain, CookieName: cookieName}
	}
	return &BrowserSource{Browser: browser, Domain: domain, CookieName: cookieName}
}

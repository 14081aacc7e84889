package session

import (
	"context"
	"fmt"
	"time"
)

// FileSource reads the session token from a Netscape cookies.txt export.
type FileSource struct {
	Path       string
	Domain     string
	CookieName string
	Now        func() time.Time
}

// Token returns the session cookie value. The file is re-read on every call
// so a refreshed export is picked up without restarting.
func (s *FileSource) Token(ctx context.Context) (string, error) {
	cookies, err := ParseFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("parse cookie file: %w", err)
	}

	candidates := make([]candidate, 0, len(cookies))
	for _, c := range cookies {
		var expires time.Time
		if c.Expiration > 0 {
			expires = time.Unix(c.Expiration, 0)
		}
		candidates = append(candidates, candidate{
			Domain:  c.Domain,
			Name:    c.Name,
			Value:   c.Value,
			Expires: expires,
		})
	}

	return selectToken(candidates, s.CookieName, s.Domain, s.now())
}

func (s *FileSource) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

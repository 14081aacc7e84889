package domain

import (
	"net/url"
	"strings"
)

// hostPlatforms mapea sufijos de host a IDs de plataforma
var hostPlatforms = []struct {
	suffix   string
	platform string
}{
	{"facebook.com", PlatformFacebook},
	{"fb.com", PlatformFacebook},
	{"instagram.com", PlatformInstagram},
	{"youtube.com", PlatformYouTube},
	{"youtu.be", PlatformYouTube},
	{"twitter.com", PlatformTwitter},
	{"x.com", PlatformTwitter},
	{"linkedin.com", PlatformLinkedIn},
	{"tiktok.com", PlatformTikTok},
}

// DetectPlatform detecta la plataforma desde la URL de un perfil.
// Retorna "" si la URL no pertenece a ninguna plataforma conocida.
func DetectPlatform(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	for _, hp := range hostPlatforms {
		if host == hp.suffix || strings.HasSuffix(host, "."+hp.suffix) {
			return hp.platform
		}
	}

	return ""
}

// ExtractHandle extrae el nombre de usuario de la URL de un perfil
func ExtractHandle(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	for _, part := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		switch part {
		case "", "in", "c", "channel", "user", "company", "profile.php":
			continue
		}
		return strings.TrimPrefix(part, "@")
	}

	return ""
}

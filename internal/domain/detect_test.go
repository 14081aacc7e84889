package domain

import "testing"

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.facebook.com/mypage", "facebook"},
		{"https://m.facebook.com/mypage", "facebook"},
		{"https://www.instagram.com/someone/", "instagram"},
		{"https://www.youtube.com/@channel", "youtube"},
		{"https://youtu.be/dQw4w9WgXcQ", "youtube"},
		{"https://twitter.com/user", "twitter"},
		{"https://x.com/user", "twitter"},
		{"https://www.linkedin.com/in/someone", "linkedin"},
		{"https://www.tiktok.com/@user", "tiktok"},
		{"tiktok.com/@user", "tiktok"},
		{"https://box.com/user", ""},
		{"https://unknown-site.com/profile", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := DetectPlatform(tt.url)
			if result != tt.expected {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, result, tt.expected)
			}
		})
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.instagram.com/someone/", "someone"},
		{"https://www.youtube.com/@channel", "channel"},
		{"https://www.youtube.com/channel/UC123", "UC123"},
		{"https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"https://www.tiktok.com/@user/video/123", "user"},
		{"https://x.com/user", "user"},
		{"https://x.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := ExtractHandle(tt.url)
			if result != tt.expected {
				t.Errorf("ExtractHandle(%q) = %q, want %q", tt.url, result, tt.expected)
			}
		})
	}
}

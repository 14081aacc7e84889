// Package backendsync maps backend account records onto the registry and
// replaces its contents wholesale.
package backendsync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BackendAccount is one account record as returned by the backend API.
type BackendAccount struct {
	AccountID      FlexID  `json:"account_id"`
	Platform       string  `json:"platform"`
	ChannelName    *string `json:"channel_name,omitempty"`
	ChannelID      *string `json:"channel_id,omitempty"`
	IsActive       bool    `json:"is_active"`
	IsTokenValid   bool    `json:"is_token_valid"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	ConnectedAt    *string `json:"connected_at,omitempty"`
	LastPost       *string `json:"last_post,omitempty"`
	Followers      *int64  `json:"followers,omitempty"`
}

// FlexID is an id the backend may encode as a JSON string or number. null
// decodes as empty.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the layouts the backend is known to emit. Empty,
// missing or unparseable values report false.
func ParseTimestamp(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func nonEmpty(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}

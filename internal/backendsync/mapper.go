package backendsync

import (
	"time"

	"github.com/elsanchez/autopost/internal/domain"
)

const (
	// MaskedToken replaces token material; tokens never leave the server.
	MaskedToken = "***"
	// UnknownChannel names accounts the backend sent without a channel name.
	UnknownChannel = "Unknown"
)

// Mapper converts backend records into registry accounts.
type Mapper struct {
	Catalog *domain.Catalog
	Now     func() time.Time
}

// NewMapper creates a mapper over catalog using the wall clock.
func NewMapper(catalog *domain.Catalog) *Mapper {
	return &Mapper{Catalog: catalog, Now: time.Now}
}

// Map converts one record. It is total: every missing or unknown field has
// an explicit default.
func (m *Mapper) Map(rec BackendAccount) domain.PlatformAccount {
	now := m.now()

	// Unknown platforms fall back to the first catalog entry
	acc := domain.NewAccountFor(m.Catalog.Resolve(rec.Platform))
	acc.ID = string(rec.AccountID)

	name, ok := nonEmpty(rec.ChannelName)
	if !ok {
		name = UnknownChannel
	}
	acc.AccountName = name

	acc.AccessToken = MaskedToken
	acc.Connected = rec.IsActive && rec.IsTokenValid

	profile := &domain.ProfileInfo{
		DisplayName: name,
		Verified:    rec.IsTokenValid,
	}
	if channelID, ok := nonEmpty(rec.ChannelID); ok {
		profile.Username = channelID
	}
	if avatar, ok := nonEmpty(rec.ProfilePicture); ok {
		profile.Avatar = &avatar
	}
	acc.ProfileInfo = profile

	createdAt, ok := ParseTimestamp(rec.ConnectedAt)
	if !ok {
		createdAt = now
	}
	acc.CreatedAt = createdAt

	lastPost, ok := ParseTimestamp(rec.LastPost)
	if !ok {
		lastPost = now
	}
	acc.LastPost = &lastPost

	if rec.Followers != nil {
		followers := *rec.Followers
		acc.Followers = &followers
	}

	return acc
}

// MapAll converts every record, preserving order.
func (m *Mapper) MapAll(records []BackendAccount) []domain.PlatformAccount {
	out := make([]domain.PlatformAccount, 0, len(records))
	for _, rec := range records {
		out = append(out, m.Map(rec))
	}
	return out
}

func (m *Mapper) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

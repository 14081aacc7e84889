package domain

import "time"

// PlatformAccount representa una cuenta conectada a una plataforma.
// Los campos de presentación (nombre, color, gradiente, icono) se copian
// de la plataforma al crear o sincronizar la cuenta.
type PlatformAccount struct {
	ID           string       `json:"id"`
	PlatformID   string       `json:"platformId"`
	PlatformName string       `json:"platformName"`
	Color        string       `json:"color"`
	Gradient     string       `json:"gradient"`
	Icon         string       `json:"icon"`
	AccountName  string       `json:"accountName"`
	AccessToken  string       `json:"accessToken"`
	Connected    bool         `json:"connected"`
	ProfileInfo  *ProfileInfo `json:"profileInfo,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastPost     *time.Time   `json:"lastPost,omitempty"`
	Followers    *int64       `json:"followers,omitempty"`
}

// ProfileInfo contiene metadatos libres del perfil
type ProfileInfo struct {
	DisplayName string  `json:"displayName,omitempty"`
	Username    string  `json:"username,omitempty"`
	Verified    bool    `json:"verified"`
	Avatar      *string `json:"avatar,omitempty"`
}

// AccountPatch es una actualización parcial; nil significa "sin cambios"
type AccountPatch struct {
	AccountName *string      `json:"accountName,omitempty"`
	AccessToken *string      `json:"accessToken,omitempty"`
	Connected   *bool        `json:"connected,omitempty"`
	ProfileInfo *ProfileInfo `json:"profileInfo,omitempty"`
	LastPost    *time.Time   `json:"lastPost,omitempty"`
	Followers   *int64       `json:"followers,omitempty"`
}

// NewAccountFor construye una cuenta copiando los datos de la plataforma
func NewAccountFor(p Platform) PlatformAccount {
	return PlatformAccount{
		PlatformID:   p.ID,
		PlatformName: p.Name,
		Color:        p.Color,
		Gradient:     p.Gradient,
		Icon:         p.Icon,
	}
}

// Apply aplica el patch sobre la cuenta
func (a *PlatformAccount) Apply(p AccountPatch) {
	if p.AccountName != nil {
		a.AccountName = *p.AccountName
	}
	if p.AccessToken != nil {
		a.AccessToken = *p.AccessToken
	}
	if p.Connected != nil {
		a.Connected = *p.Connected
	}
	if p.ProfileInfo != nil {
		info := p.ProfileInfo.Clone()
		a.ProfileInfo = info
	}
	if p.LastPost != nil {
		t := *p.LastPost
		a.LastPost = &t
	}
	if p.Followers != nil {
		n := *p.Followers
		a.Followers = &n
	}
}

// Clone retorna una copia profunda de la cuenta
func (a PlatformAccount) Clone() PlatformAccount {
	out := a
	out.ProfileInfo = a.ProfileInfo.Clone()
	if a.LastPost != nil {
		t := *a.LastPost
		out.LastPost = &t
	}
	if a.Followers != nil {
		n := *a.Followers
		out.Followers = &n
	}
	return out
}

// Clone retorna una copia profunda (nil-safe)
func (p *ProfileInfo) Clone() *ProfileInfo {
	if p == nil {
		return nil
	}
	out := *p
	if p.Avatar != nil {
		avatar := *p.Avatar
		out.Avatar = &avatar
	}
	return &out
}

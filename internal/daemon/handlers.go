package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/registry"
	"github.com/elsanchez/autopost/internal/repository"
)

// Handlers maneja las peticiones del servidor
type Handlers struct {
	registry     *registry.Registry
	sync         *SyncManager
	syncRuns     repository.SyncRunRepository
	syncInterval time.Duration
	startedAt    time.Time
}

// NewHandlers crea un nuevo conjunto de handlers
func NewHandlers(
	reg *registry.Registry,
	syncManager *SyncManager,
	syncRuns repository.SyncRunRepository,
	syncInterval time.Duration,
) *Handlers {
	return &Handlers{
		registry:     reg,
		sync:         syncManager,
		syncRuns:     syncRuns,
		syncInterval: syncInterval,
		startedAt:    time.Now(),
	}
}

// decodePayload tolera payloads vacíos o null
func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func ok(v interface{}) Response {
	data, err := json.Marshal(v)
	if err != nil {
		return fail(fmt.Errorf("marshal response: %w", err))
	}
	return Response{Success: true, Data: data}
}

func fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// HandlePlatforms retorna el catálogo de plataformas
func (h *Handlers) HandlePlatforms(ctx context.Context) Response {
	return ok(map[string]interface{}{
		"platforms": h.registry.Platforms(),
	})
}

// AccountsPayload filtra el listado de cuentas
type AccountsPayload struct {
	PlatformID    string `json:"platform_id,omitempty"`
	ConnectedOnly bool   `json:"connected_only,omitempty"`
}

// HandleAccounts lista las cuentas del registro
func (h *Handlers) HandleAccounts(ctx context.Context, payload json.RawMessage) Response {
	var req AccountsPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}

	var accounts []domain.PlatformAccount
	switch {
	case req.PlatformID != "":
		accounts = h.registry.AccountsByPlatform(req.PlatformID)
	case req.ConnectedOnly:
		accounts = h.registry.ConnectedAccounts()
	default:
		accounts = h.registry.Accounts()
	}

	if req.PlatformID != "" && req.ConnectedOnly {
		connected := accounts[:0]
		for _, a := range accounts {
			if a.Connected {
				connected = append(connected, a)
			}
		}
		accounts = connected
	}

	return ok(map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// AddAccountPayload es el payload para añadir una cuenta. Si PlatformID está
// vacío se detecta a partir de ProfileURL.
type AddAccountPayload struct {
	PlatformID  string              `json:"platform_id,omitempty"`
	ProfileURL  string              `json:"profile_url,omitempty"`
	AccountName string              `json:"account_name"`
	AccessToken string              `json:"access_token"`
	ProfileInfo *domain.ProfileInfo `json:"profile_info,omitempty"`
}

// HandleAdd añade una cuenta al registro
func (h *Handlers) HandleAdd(ctx context.Context, payload json.RawMessage) Response {
	var req AddAccountPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}

	platformID := req.PlatformID
	profile := req.ProfileInfo
	if req.ProfileURL != "" {
		if platformID == "" {
			platformID = domain.DetectPlatform(req.ProfileURL)
		}
		if profile == nil {
			if handle := domain.ExtractHandle(req.ProfileURL); handle != "" {
				profile = &domain.ProfileInfo{Username: handle}
			}
		}
	}

	if platformID == "" {
		return fail(fmt.Errorf("platform_id or a recognised profile_url is required"))
	}

	account, added := h.registry.AddAccount(ctx, platformID, req.AccountName, req.AccessToken, profile)
	if !added {
		return fail(fmt.Errorf("unknown platform: %s", platformID))
	}

	return ok(account)
}

// UpdateAccountPayload es el payload para actualizar una cuenta
type UpdateAccountPayload struct {
	ID    string              `json:"id"`
	Patch domain.AccountPatch `json:"patch"`
}

// HandleUpdate aplica un patch a una cuenta
func (h *Handlers) HandleUpdate(ctx context.Context, payload json.RawMessage) Response {
	var req UpdateAccountPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}
	if req.ID == "" {
		return fail(fmt.Errorf("id is required"))
	}

	account, found := h.registry.UpdateAccount(ctx, req.ID, req.Patch)
	if !found {
		return fail(fmt.Errorf("account not found: %s", req.ID))
	}

	return ok(account)
}

// IDPayload identifica una cuenta
type IDPayload struct {
	ID string `json:"id"`
}

// HandleRemove elimina una cuenta
func (h *Handlers) HandleRemove(ctx context.Context, payload json.RawMessage) Response {
	var req IDPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}
	if req.ID == "" {
		return fail(fmt.Errorf("id is required"))
	}

	return ok(map[string]interface{}{
		"id":      req.ID,
		"removed": h.registry.RemoveAccount(ctx, req.ID),
	})
}

// PlatformPayload identifica una plataforma
type PlatformPayload struct {
	PlatformID  string `json:"platform_id"`
	AccessToken string `json:"access_token,omitempty"`
}

// HandleDisconnect elimina todas las cuentas de una plataforma
func (h *Handlers) HandleDisconnect(ctx context.Context, payload json.RawMessage) Response {
	var req PlatformPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}
	if req.PlatformID == "" {
		return fail(fmt.Errorf("platform_id is required"))
	}

	return ok(map[string]interface{}{
		"platform_id":  req.PlatformID,
		"disconnected": h.registry.DisconnectPlatform(ctx, req.PlatformID),
	})
}

// HandleConnect conecta una plataforma con un token (flujo heredado)
func (h *Handlers) HandleConnect(ctx context.Context, payload json.RawMessage) Response {
	var req PlatformPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}
	if req.PlatformID == "" {
		return fail(fmt.Errorf("platform_id is required"))
	}

	account, added := h.registry.ConnectPlatform(ctx, req.PlatformID, req.AccessToken)
	if !added {
		return fail(fmt.Errorf("unknown platform: %s", req.PlatformID))
	}

	return ok(account)
}

// SyncPayload contiene registros del backend; sin registros se consulta la API
type SyncPayload struct {
	Records []backendsync.BackendAccount `json:"records"`
}

// HandleSync sincroniza el registro con el backend
func (h *Handlers) HandleSync(ctx context.Context, payload json.RawMessage) Response {
	var req SyncPayload
	if err := decodePayload(payload, &req); err != nil {
		return fail(err)
	}

	source := domain.SyncSourceAPI
	if req.Records != nil {
		source = domain.SyncSourcePayload
	}

	run, err := h.sync.Run(ctx, source, req.Records)
	if err != nil {
		return fail(fmt.Errorf("sync: %w", err))
	}

	return ok(run)
}

// HandleStats retorna estadísticas del registro y de las sincronizaciones
func (h *Handlers) HandleStats(ctx context.Context) Response {
	accounts := h.registry.Accounts()

	stats := domain.Stats{
		Accounts:      len(accounts),
		ByPlatform:    make(map[string]int),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
	for _, a := range accounts {
		stats.ByPlatform[a.PlatformID]++
		if a.Connected {
			stats.Connected++
		}
	}
	if h.syncInterval > 0 {
		stats.SyncInterval = h.syncInterval.String()
	}

	if h.syncRuns != nil {
		last, err := h.syncRuns.GetLast(ctx)
		if err != nil {
			return fail(fmt.Errorf("get last sync: %w", err))
		}
		stats.LastSync = last

		failed, err := h.syncRuns.CountFailed(ctx)
		if err != nil {
			return fail(fmt.Errorf("count failed syncs: %w", err))
		}
		stats.FailedSyncs = failed
	}

	return ok(stats)
}

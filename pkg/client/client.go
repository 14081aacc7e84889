package client

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/domain"
)

// DefaultTimeout acota cada petición al daemon. Una sincronización contra la
// API del backend es la operación más lenta.
const DefaultTimeout = 30 * time.Second

// GetDefaultSocketPath retorna el path del socket usando XDG_RUNTIME_DIR
func GetDefaultSocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}

	return filepath.Join(runtimeDir, "autopost.sock")
}

// Client representa un cliente del daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient crea un cliente con socket path personalizado
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: DefaultTimeout}
}

// NewDefaultClient crea un cliente con el socket path por defecto
func NewDefaultClient() *Client {
	return NewClient(GetDefaultSocketPath())
}

// Request representa una petición al daemon
type Request struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Response representa una respuesta del daemon
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Send envía una petición al daemon y retorna la respuesta
func (c *Client) Send(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w (is daemon running?)", err)
	}
	defer conn.Close()

	if c.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &resp, nil
}

// call envía action con payload y decodifica data en out
func (c *Client) call(action string, payload interface{}, out interface{}) error {
	req := &Request{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		req.Payload = raw
	}

	resp, err := c.Send(req)
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s failed: %s", action, resp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// Ping verifica que el daemon responde
func (c *Client) Ping() error {
	return c.call("ping", nil, nil)
}

// Platforms retorna el catálogo de plataformas
func (c *Client) Platforms() ([]domain.Platform, error) {
	var result struct {
		Platforms []domain.Platform `json:"platforms"`
	}
	if err := c.call("platforms", nil, &result); err != nil {
		return nil, err
	}
	return result.Platforms, nil
}

// AccountFilter filtra el listado de cuentas
type AccountFilter struct {
	PlatformID    string `json:"platform_id,omitempty"`
	ConnectedOnly bool   `json:"connected_only,omitempty"`
}

// Accounts lista las cuentas del registro
func (c *Client) Accounts(filter AccountFilter) ([]domain.PlatformAccount, error) {
	var result struct {
		Accounts []domain.PlatformAccount `json:"accounts"`
	}
	if err := c.call("accounts", filter, &result); err != nil {
		return nil, err
	}
	return result.Accounts, nil
}

// AddAccountPayload representa el payload para añadir una cuenta
type AddAccountPayload struct {
	PlatformID  string              `json:"platform_id,omitempty"`
	ProfileURL  string              `json:"profile_url,omitempty"`
	AccountName string              `json:"account_name"`
	AccessToken string              `json:"access_token"`
	ProfileInfo *domain.ProfileInfo `json:"profile_info,omitempty"`
}

// AddAccount añade una cuenta
func (c *Client) AddAccount(payload *AddAccountPayload) (*domain.PlatformAccount, error) {
	var account domain.PlatformAccount
	if err := c.call("add", payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount aplica un patch a una cuenta
func (c *Client) UpdateAccount(id string, patch domain.AccountPatch) (*domain.PlatformAccount, error) {
	payload := struct {
		ID    string              `json:"id"`
		Patch domain.AccountPatch `json:"patch"`
	}{ID: id, Patch: patch}

	var account domain.PlatformAccount
	if err := c.call("update", payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// RemoveAccount elimina una cuenta; retorna false si no existía
func (c *Client) RemoveAccount(id string) (bool, error) {
	var result struct {
		Removed bool `json:"removed"`
	}
	if err := c.call("remove", map[string]string{"id": id}, &result); err != nil {
		return false, err
	}
	return result.Removed, nil
}

// DisconnectPlatform elimina las cuentas de una plataforma y retorna cuántas
func (c *Client) DisconnectPlatform(platformID string) (int, error) {
	var result struct {
		Disconnected int `json:"disconnected"`
	}
	if err := c.call("disconnect", map[string]string{"platform_id": platformID}, &result); err != nil {
		return 0, err
	}
	return result.Disconnected, nil
}

// ConnectPlatform añade una cuenta con el nombre de la plataforma
func (c *Client) ConnectPlatform(platformID, accessToken string) (*domain.PlatformAccount, error) {
	payload := map[string]string{
		"platform_id":  platformID,
		"access_token": accessToken,
	}

	var account domain.PlatformAccount
	if err := c.call("connect", payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Sync reemplaza el registro con records. Con records nil el daemon consulta
// la API del backend.
func (c *Client) Sync(records []backendsync.BackendAccount) (*domain.SyncRun, error) {
	var payload interface{}
	if records != nil {
		payload = map[string]interface{}{"records": records}
	}

	var run domain.SyncRun
	if err := c.call("sync", payload, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Stats obtiene las estadísticas del daemon
func (c *Client) Stats() (*domain.Stats, error) {
	var stats domain.Stats
	if err := c.call("stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

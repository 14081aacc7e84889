package client

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/domain"
)

// fakeDaemon responde a cada acción con la respuesta configurada
type fakeDaemon struct {
	mu        sync.Mutex
	responses map[string]Response
	requests  []Request
}

func (f *fakeDaemon) lastRequest() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func startFakeDaemon(t *testing.T, responses map[string]Response) (*Client, *fakeDaemon) {
	t.Helper()

	dir, err := os.MkdirTemp("", "apc")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	socket := filepath.Join(dir, "c.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	fake := &fakeDaemon{responses: responses}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			var req Request
			if err := json.NewDecoder(conn).Decode(&req); err == nil {
				fake.mu.Lock()
				fake.requests = append(fake.requests, req)
				resp, ok := fake.responses[req.Action]
				fake.mu.Unlock()
				if !ok {
					resp = Response{Success: false, Error: "unknown action: " + req.Action}
				}
				_ = json.NewEncoder(conn).Encode(resp)
			}
			conn.Close()
		}
	}()

	return NewClient(socket), fake
}

func okData(t *testing.T, v interface{}) Response {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return Response{Success: true, Data: data}
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))

	err := c.Ping()
	if err == nil || !strings.Contains(err.Error(), "is daemon running?") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	c, _ := startFakeDaemon(t, map[string]Response{
		"add": {Success: false, Error: "unknown platform: myspace"},
	})

	_, err := c.AddAccount(&AddAccountPayload{PlatformID: "myspace"})
	if err == nil || !strings.Contains(err.Error(), "add failed: unknown platform") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_Accounts(t *testing.T) {
	accounts := []domain.PlatformAccount{
		{ID: "a1", PlatformID: domain.PlatformYouTube, AccountName: "Chan", Connected: true},
	}
	c, fake := startFakeDaemon(t, map[string]Response{
		"accounts": okData(t, map[string]interface{}{"accounts": accounts, "count": 1}),
	})

	got, err := c.Accounts(AccountFilter{PlatformID: domain.PlatformYouTube, ConnectedOnly: true})
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("unexpected accounts: %+v", got)
	}

	var sent AccountFilter
	if err := json.Unmarshal(fake.lastRequest().Payload, &sent); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if sent.PlatformID != domain.PlatformYouTube || !sent.ConnectedOnly {
		t.Errorf("unexpected filter sent: %+v", sent)
	}
}

func TestClient_UpdateAccountSendsPatch(t *testing.T) {
	c, fake := startFakeDaemon(t, map[string]Response{
		"update": okData(t, domain.PlatformAccount{ID: "a1", AccountName: "New"}),
	})

	name := "New"
	acc, err := c.UpdateAccount("a1", domain.AccountPatch{AccountName: &name})
	if err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if acc.AccountName != "New" {
		t.Errorf("unexpected account: %+v", acc)
	}

	payload := string(fake.lastRequest().Payload)
	if !strings.Contains(payload, `"id":"a1"`) || !strings.Contains(payload, `"accountName":"New"`) {
		t.Errorf("unexpected payload: %s", payload)
	}
	if strings.Contains(payload, "accessToken") {
		t.Errorf("unset patch fields must be omitted: %s", payload)
	}
}

func TestClient_RemoveAndDisconnect(t *testing.T) {
	c, _ := startFakeDaemon(t, map[string]Response{
		"remove":     okData(t, map[string]interface{}{"id": "a1", "removed": true}),
		"disconnect": okData(t, map[string]interface{}{"platform_id": "x", "disconnected": 3}),
	})

	removed, err := c.RemoveAccount("a1")
	if err != nil || !removed {
		t.Errorf("RemoveAccount = %v, %v", removed, err)
	}

	n, err := c.DisconnectPlatform("x")
	if err != nil || n != 3 {
		t.Errorf("DisconnectPlatform = %d, %v", n, err)
	}
}

func TestClient_Sync(t *testing.T) {
	c, fake := startFakeDaemon(t, map[string]Response{
		"sync": okData(t, domain.SyncRun{ID: 4, Source: domain.SyncSourceAPI, AccountCount: 2}),
	})

	run, err := c.Sync(nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if run.ID != 4 || run.AccountCount != 2 {
		t.Errorf("unexpected run: %+v", run)
	}
	if p := string(fake.lastRequest().Payload); p != "null" && p != "" {
		t.Errorf("API sync should send no records, got %s", p)
	}

	if _, err := c.Sync([]backendsync.BackendAccount{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if p := string(fake.lastRequest().Payload); p != `{"records":[]}` {
		t.Errorf("empty snapshot must be sent explicitly, got %s", p)
	}
}

func TestClient_Stats(t *testing.T) {
	c, _ := startFakeDaemon(t, map[string]Response{
		"stats": okData(t, domain.Stats{Accounts: 5, Connected: 4, ByPlatform: map[string]int{"x": 5}}),
	})

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Accounts != 5 || stats.ByPlatform["x"] != 5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

package backendsync

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/registry"
	"github.com/elsanchez/autopost/internal/repository/memory"
)

type syncRecorder struct {
	accounts, connected int
}

func (r *syncRecorder) RecordSync(accounts, connected int) {
	r.accounts, r.connected = accounts, connected
}

func TestSyncer_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	catalog := domain.DefaultCatalog()
	reg := registry.New(ctx, memory.NewKVStore(), catalog, registry.Options{})

	local, _ := reg.AddAccount(ctx, "facebook", "Local page", "tok", nil)

	payload := `[
		{"account_id":"srv-1","platform":"youtube","channel_name":"Channel","channel_id":"UC1","is_active":true,"is_token_valid":true,"connected_at":"2025-01-01T00:00:00Z"},
		{"account_id":"srv-2","platform":"twitter","is_active":true,"is_token_valid":false,"followers":10}
	]`
	var records []BackendAccount
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	mapper := &Mapper{Catalog: catalog, Now: func() time.Time { return syncNow }}
	rec := &syncRecorder{}
	NewSyncer(mapper, reg, nil, rec).Apply(ctx, records)

	if _, ok := reg.Account(local.ID); ok {
		t.Error("local-only account must be gone after sync")
	}

	want := mapper.MapAll(records)
	if !reflect.DeepEqual(reg.Accounts(), want) {
		t.Errorf("registry differs from mapped payload:\n got  %+v\n want %+v", reg.Accounts(), want)
	}

	if got := reg.ConnectedAccounts(); len(got) != 1 || got[0].ID != "srv-1" {
		t.Errorf("unexpected connected accounts: %+v", got)
	}

	if rec.accounts != 2 || rec.connected != 1 {
		t.Errorf("recorded %d/%d, want 2/1", rec.accounts, rec.connected)
	}
}

func TestSyncer_EmptySnapshotClearsRegistry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	reg := registry.New(ctx, store, domain.DefaultCatalog(), registry.Options{})
	reg.AddAccount(ctx, "tiktok", "A", "tok", nil)

	NewSyncer(NewMapper(domain.DefaultCatalog()), reg, nil, nil).Apply(ctx, nil)

	if len(reg.Accounts()) != 0 {
		t.Errorf("expected empty registry, got %d", len(reg.Accounts()))
	}

	data, ok, _ := store.Get(ctx, registry.StorageKey)
	if !ok || string(data) != "[]" {
		t.Errorf("expected persisted [], got %q", data)
	}
}

func TestSyncer_NormalizesBackendIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	catalog := domain.DefaultCatalog()
	opts := registry.Options{IDGenerator: func() string { return "generated" }}
	reg := registry.New(ctx, store, catalog, opts)

	payload := `[
		{"account_id":"dup","platform":"youtube","is_active":true,"is_token_valid":true},
		{"account_id":"dup","platform":"tiktok","is_active":true,"is_token_valid":true},
		{"account_id":"","platform":"facebook"},
		{"account_id":17,"platform":"twitter"}
	]`
	var records []BackendAccount
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	rec := &syncRecorder{}
	res := NewSyncer(NewMapper(catalog), reg, nil, rec).Sync(ctx, records)

	type entry struct{ id, platform string }
	summarize := func(accounts []domain.PlatformAccount) []entry {
		out := make([]entry, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, entry{a.ID, a.PlatformID})
		}
		return out
	}

	want := []entry{{"dup", "youtube"}, {"generated", "facebook"}, {"17", "twitter"}}
	if got := summarize(reg.Accounts()); !reflect.DeepEqual(got, want) {
		t.Errorf("in-memory accounts = %v, want %v", got, want)
	}

	reloaded := registry.New(ctx, store, catalog, opts)
	if got := summarize(reloaded.Accounts()); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded accounts = %v, want %v", got, want)
	}

	if res.Accounts != 3 || res.Connected != 1 {
		t.Errorf("result = %+v, want 3 accounts / 1 connected", res)
	}
	if rec.accounts != 3 || rec.connected != 1 {
		t.Errorf("recorded %d/%d, want 3/1", rec.accounts, rec.connected)
	}

	if !reg.RemoveAccount(ctx, "dup") {
		t.Fatal("expected dup to be removed")
	}
	if _, ok := reg.Account("dup"); ok {
		t.Error("dup still present after remove")
	}
}

package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elsanchez/autopost/internal/domain"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestDatabase_MigrationsApplied(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	// Verificar que existe el archivo de base de datos
	dbPath := filepath.Join(tmpDir, DatabaseFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	ctx := context.Background()

	for _, table := range []string{"kv", "sync_runs"} {
		var count int
		err = db.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}

		if count != 1 {
			t.Errorf("%s table was not created", table)
		}
	}
}

func TestDatabase_ReopenKeepsMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := db.KV.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	db.Close()

	// Segunda apertura: migrate.ErrNoChange no debe ser error
	db, err = NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()

	got, ok, err := db.KV.Get(context.Background(), "k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Errorf("expected v, got %s", got)
	}
}

func TestKVStore_SetOverwrites(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if _, ok, err := db.KV.Get(ctx, "platformAccounts"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := db.KV.Set(ctx, "platformAccounts", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := db.KV.Set(ctx, "platformAccounts", []byte(`[]`)); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, ok, err := db.KV.Get(ctx, "platformAccounts")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[]` {
		t.Errorf("expected [], got %s", got)
	}

	var rows int
	if err := db.DB.GetContext(ctx, &rows, "SELECT COUNT(*) FROM kv"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 row after overwrite, got %d", rows)
	}

	if err := db.KV.Delete(ctx, "platformAccounts"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := db.KV.Get(ctx, "platformAccounts"); ok {
		t.Error("key still present after delete")
	}
}

func TestSyncRunRepository_CreateAndRecent(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if last, err := db.SyncRunRepo.GetLast(ctx); err != nil || last != nil {
		t.Fatalf("expected no runs, got %v err=%v", last, err)
	}

	base := time.Now().Add(-time.Hour)
	runs := []*domain.SyncRun{
		{Source: domain.SyncSourceAPI, AccountCount: 3, ConnectedCount: 2, CreatedAt: base},
		{Source: domain.SyncSourceScheduler, ErrorMessage: "backend unavailable", CreatedAt: base.Add(time.Minute)},
		{Source: domain.SyncSourcePayload, AccountCount: 1, ConnectedCount: 1, CreatedAt: base.Add(2 * time.Minute)},
	}

	for _, run := range runs {
		id, err := db.SyncRunRepo.Create(ctx, run)
		if err != nil {
			t.Fatalf("failed to create sync run: %v", err)
		}
		if id == 0 {
			t.Fatal("expected non-zero ID")
		}
	}

	recent, err := db.SyncRunRepo.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(recent))
	}
	if recent[0].Source != domain.SyncSourcePayload {
		t.Errorf("expected newest run first, got %s", recent[0].Source)
	}
	if !recent[1].Failed() || recent[1].ErrorMessage != "backend unavailable" {
		t.Errorf("expected failed scheduler run, got %+v", recent[1])
	}

	last, err := db.SyncRunRepo.GetLast(ctx)
	if err != nil {
		t.Fatalf("get last: %v", err)
	}
	if last.AccountCount != 1 || last.ConnectedCount != 1 {
		t.Errorf("unexpected last run: %+v", last)
	}

	failed, err := db.SyncRunRepo.CountFailed(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed run, got %d", failed)
	}
}

func TestDatabase_ConnectionPragmas(t *testing.T) {
	db := newTestDatabase(t)

	var mode string
	if err := db.DB.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int64
	if err := db.DB.Get(&timeout, "PRAGMA busy_timeout"); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != BusyTimeout.Milliseconds() {
		t.Errorf("busy_timeout = %d, want %d", timeout, BusyTimeout.Milliseconds())
	}

	if filepath.Base(db.Path()) != DatabaseFile {
		t.Errorf("unexpected path %q", db.Path())
	}
}

func TestDatabase_ReopenKeepsData(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	first, err := NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.KV.Set(ctx, "platformAccounts", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	first.Close()

	second, err := NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	data, ok, err := second.KV.Get(ctx, "platformAccounts")
	if err != nil || !ok || string(data) != "[]" {
		t.Errorf("got %q ok=%v err=%v", data, ok, err)
	}
}

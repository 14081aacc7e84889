package memory

import (
	"context"
	"testing"

	"github.com/elsanchez/autopost/internal/domain"
)

func TestSyncRunRepository(t *testing.T) {
	ctx := context.Background()
	r := NewSyncRunRepository()

	last, err := r.GetLast(ctx)
	if err != nil || last != nil {
		t.Fatalf("expected no runs, got %+v (err=%v)", last, err)
	}

	runs := []*domain.SyncRun{
		{Source: domain.SyncSourceAPI, AccountCount: 2},
		{Source: domain.SyncSourceScheduler, ErrorMessage: "boom"},
		{Source: domain.SyncSourcePayload, AccountCount: 1, ConnectedCount: 1},
	}
	for i, run := range runs {
		id, err := r.Create(ctx, run)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id != int64(i+1) {
			t.Errorf("expected id %d, got %d", i+1, id)
		}
	}

	last, _ = r.GetLast(ctx)
	if last == nil || last.Source != domain.SyncSourcePayload {
		t.Fatalf("unexpected last run: %+v", last)
	}

	recent, _ := r.GetRecent(ctx, 2)
	if len(recent) != 2 || recent[0].ID != 3 || recent[1].ID != 2 {
		t.Errorf("unexpected recent runs: %+v", recent)
	}

	failed, _ := r.CountFailed(ctx)
	if failed != 1 {
		t.Errorf("expected 1 failed run, got %d", failed)
	}
}

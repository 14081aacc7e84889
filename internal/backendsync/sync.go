package backendsync

import (
	"context"
	"log/slog"

	"github.com/elsanchez/autopost/internal/domain"
)

// Replacer is the registry surface a sync writes to.
type Replacer interface {
	Replace(ctx context.Context, accounts []domain.PlatformAccount) []domain.PlatformAccount
}

// Recorder receives sync metrics.
type Recorder interface {
	RecordSync(accounts, connected int)
}

// Syncer applies backend snapshots to a registry.
type Syncer struct {
	mapper   *Mapper
	registry Replacer
	logger   *slog.Logger
	metrics  Recorder
}

// NewSyncer creates a syncer. metrics may be nil.
func NewSyncer(mapper *Mapper, registry Replacer, logger *slog.Logger, metrics Recorder) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		mapper:   mapper,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

// Result counts the accounts a sync left in the registry.
type Result struct {
	Accounts  int
	Connected int
}

// Apply replaces the registry contents with the mapped records. Accounts not
// present in records are dropped, including local-only ones. The outcome is
// observable through the registry.
func (s *Syncer) Apply(ctx context.Context, records []BackendAccount) {
	s.Sync(ctx, records)
}

// Sync is Apply reporting the counts of the set the registry stored, which
// may be smaller than records when the backend repeats an id.
func (s *Syncer) Sync(ctx context.Context, records []BackendAccount) Result {
	applied := s.registry.Replace(ctx, s.mapper.MapAll(records))

	res := Result{Accounts: len(applied)}
	for _, a := range applied {
		if a.Connected {
			res.Connected++
		}
	}

	if s.metrics != nil {
		s.metrics.RecordSync(res.Accounts, res.Connected)
	}

	s.logger.Info("applied backend account snapshot",
		slog.Int("records", len(records)),
		slog.Int("accounts", res.Accounts),
		slog.Int("connected", res.Connected),
	)

	return res
}

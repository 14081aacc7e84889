package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/repository"
)

// ErrNoBackend se retorna cuando se pide sincronizar sin registros y no hay API configurada
var ErrNoBackend = errors.New("admin api not configured")

// AccountFetcher obtiene las cuentas del backend
type AccountFetcher interface {
	ListSocialAccounts(ctx context.Context) ([]backendsync.BackendAccount, error)
}

// SyncManager serializa las sincronizaciones y registra cada ejecución
type SyncManager struct {
	fetcher AccountFetcher
	syncer  *backendsync.Syncer
	runs    repository.SyncRunRepository
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewSyncManager crea un nuevo gestor de sincronización. fetcher puede ser nil.
func NewSyncManager(
	fetcher AccountFetcher,
	syncer *backendsync.Syncer,
	runs repository.SyncRunRepository,
	logger *slog.Logger,
) *SyncManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncManager{
		fetcher: fetcher,
		syncer:  syncer,
		runs:    runs,
		logger:  logger,
		now:     time.Now,
	}
}

// Run aplica records al registro. Con records nil las cuentas se piden al backend.
func (m *SyncManager) Run(ctx context.Context, source domain.SyncSource, records []backendsync.BackendAccount) (*domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run := &domain.SyncRun{Source: source}

	if records == nil {
		fetched, err := m.fetch(ctx)
		if err != nil {
			run.ErrorMessage = err.Error()
			m.record(ctx, run)
			return run, err
		}
		records = fetched
	}

	// Conteos del conjunto aplicado
	res := m.syncer.Sync(ctx, records)
	run.AccountCount = res.Accounts
	run.ConnectedCount = res.Connected

	m.record(ctx, run)
	return run, nil
}

func (m *SyncManager) fetch(ctx context.Context) ([]backendsync.BackendAccount, error) {
	if m.fetcher == nil {
		return nil, ErrNoBackend
	}

	records, err := m.fetcher.ListSocialAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch backend accounts: %w", err)
	}
	return records, nil
}

// record guarda la ejecución; un fallo aquí no invalida la sincronización
func (m *SyncManager) record(ctx context.Context, run *domain.SyncRun) {
	run.CreatedAt = m.now()

	if run.Failed() {
		m.logger.Error("sync failed",
			slog.String("source", string(run.Source)),
			slog.String("error", run.ErrorMessage),
		)
	}

	if m.runs == nil {
		return
	}

	id, err := m.runs.Create(ctx, run)
	if err != nil {
		m.logger.Warn("failed to record sync run",
			slog.String("source", string(run.Source)),
			slog.String("error", err.Error()),
		)
		return
	}
	run.ID = id
}

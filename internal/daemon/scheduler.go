package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/elsanchez/autopost/internal/domain"
)

// SyncScheduler ejecuta sincronizaciones periódicas contra el backend
type SyncScheduler struct {
	manager  *SyncManager
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSyncScheduler crea un nuevo scheduler
func NewSyncScheduler(manager *SyncManager, interval time.Duration, logger *slog.Logger) *SyncScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &SyncScheduler{
		manager:  manager,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start inicia el loop de sincronización. Un intervalo <= 0 lo deja deshabilitado.
func (s *SyncScheduler) Start() {
	if s.interval <= 0 {
		s.logger.Info("sync scheduler disabled")
		return
	}
	s.logger.Info("sync scheduler started", slog.Duration("interval", s.interval))
	s.wg.Add(1)
	go s.loop()
}

// Stop detiene el scheduler y espera a la sincronización en curso
func (s *SyncScheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

// Interval retorna el intervalo configurado
func (s *SyncScheduler) Interval() time.Duration {
	return s.interval
}

func (s *SyncScheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sincronizar inmediatamente al inicio
	s.tick()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *SyncScheduler) tick() {
	run, err := s.manager.Run(s.ctx, domain.SyncSourceScheduler, nil)
	if err != nil {
		// Ya registrado por el SyncManager
		return
	}

	s.logger.Debug("scheduled sync completed",
		slog.Int("accounts", run.AccountCount),
		slog.Int("connected", run.ConnectedCount),
	)
}

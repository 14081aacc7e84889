package memory

import (
	"context"
	"sync"

	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/repository"
)

// SyncRunRepository implementa repository.SyncRunRepository en memoria
type SyncRunRepository struct {
	mu     sync.RWMutex
	runs   []domain.SyncRun
	nextID int64
}

var _ repository.SyncRunRepository = (*SyncRunRepository)(nil)

// NewSyncRunRepository crea un repositorio vacío
func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{}
}

// Create guarda una copia de la ejecución y retorna su ID
func (r *SyncRunRepository) Create(ctx context.Context, run *domain.SyncRun) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *run
	stored.ID = r.nextID
	r.runs = append(r.runs, stored)

	return stored.ID, nil
}

// GetRecent retorna las últimas ejecuciones, la más reciente primero
func (r *SyncRunRepository) GetRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		return []*domain.SyncRun{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.SyncRun, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		run := r.runs[i]
		out = append(out, &run)
	}
	return out, nil
}

// GetLast retorna la última ejecución; nil si no hay ninguna
func (r *SyncRunRepository) GetLast(ctx context.Context) (*domain.SyncRun, error) {
	recent, err := r.GetRecent(ctx, 1)
	if err != nil || len(recent) == 0 {
		return nil, err
	}
	return recent[0], nil
}

// CountFailed cuenta las ejecuciones con error
func (r *SyncRunRepository) CountFailed(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for i := range r.runs {
		if r.runs[i].Failed() {
			count++
		}
	}
	return count, nil
}

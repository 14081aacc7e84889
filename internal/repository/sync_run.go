package repository

import (
	"context"

	"github.com/elsanchez/autopost/internal/domain"
)

// SyncRunRepository define las operaciones sobre el historial de sincronizaciones
type SyncRunRepository interface {
	Create(ctx context.Context, run *domain.SyncRun) (int64, error)
	GetRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error)
	GetLast(ctx context.Context) (*domain.SyncRun, error)
	CountFailed(ctx context.Context) (int, error)
}

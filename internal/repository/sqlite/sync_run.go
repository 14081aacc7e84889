package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/repository"
)

// SyncRunRepository implementa repository.SyncRunRepository usando SQLite
type SyncRunRepository struct {
	db *sqlx.DB
}

// Compiletime check: asegura que implementa la interfaz
var _ repository.SyncRunRepository = (*SyncRunRepository)(nil)

// NewSyncRunRepository crea un nuevo repositorio de sincronizaciones
func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// syncRunRow mapea la tabla SQL a struct Go
type syncRunRow struct {
	ID             int64          `db:"id"`
	Source         string         `db:"source"`
	AccountCount   int            `db:"account_count"`
	ConnectedCount int            `db:"connected_count"`
	ErrorMessage   sql.NullString `db:"error_message"`
	CreatedAt      int64          `db:"created_at"`
}

// Create inserta una sincronización
func (r *SyncRunRepository) Create(ctx context.Context, run *domain.SyncRun) (int64, error) {
	query := `
		INSERT INTO sync_runs (source, account_count, connected_count, error_message, created_at)
		VALUES (:source, :account_count, :connected_count, :error_message, :created_at)
	`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var errMsg interface{}
	if run.ErrorMessage != "" {
		errMsg = run.ErrorMessage
	}

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"source":          string(run.Source),
		"account_count":   run.AccountCount,
		"connected_count": run.ConnectedCount,
		"error_message":   errMsg,
		"created_at":      createdAt.Unix(),
	})
	if err != nil {
		return 0, fmt.Errorf("insert sync run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	return id, nil
}

// GetRecent obtiene las últimas sincronizaciones
func (r *SyncRunRepository) GetRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	var rows []syncRunRow

	query := `
		SELECT * FROM sync_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get recent sync runs: %w", err)
	}

	runs := make([]*domain.SyncRun, 0, len(rows))
	for i := range rows {
		runs = append(runs, syncRunRowToDomain(&rows[i]))
	}

	return runs, nil
}

// GetLast obtiene la última sincronización; nil si no hay ninguna
func (r *SyncRunRepository) GetLast(ctx context.Context) (*domain.SyncRun, error) {
	var row syncRunRow

	query := `SELECT * FROM sync_runs ORDER BY created_at DESC, id DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Sin sincronizaciones (no es error)
		}
		return nil, fmt.Errorf("get last sync run: %w", err)
	}

	return syncRunRowToDomain(&row), nil
}

// CountFailed cuenta las sincronizaciones fallidas
func (r *SyncRunRepository) CountFailed(ctx context.Context) (int, error) {
	var count int

	query := `SELECT COUNT(*) FROM sync_runs WHERE error_message IS NOT NULL`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count failed sync runs: %w", err)
	}

	return count, nil
}

// Helper: conversión row → domain
func syncRunRowToDomain(row *syncRunRow) *domain.SyncRun {
	return &domain.SyncRun{
		ID:             row.ID,
		Source:         domain.SyncSource(row.Source),
		AccountCount:   row.AccountCount,
		ConnectedCount: row.ConnectedCount,
		ErrorMessage:   row.ErrorMessage.String,
		CreatedAt:      time.Unix(row.CreatedAt, 0),
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/autopost/internal/repository"
)

// KVStore implementa repository.KeyValueStore sobre la tabla kv
type KVStore struct {
	db *sqlx.DB
}

// Compiletime check: asegura que implementa la interfaz
var _ repository.KeyValueStore = (*KVStore)(nil)

// NewKVStore crea un nuevo store clave/valor
func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db}
}

// Get obtiene el valor de una clave
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	query := `SELECT value FROM kv WHERE key = ?`
	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get key %s: %w", key, err)
	}

	return value, true, nil
}

// Set inserta o sobrescribe el valor de una clave en una sola sentencia
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := s.db.NamedExecContext(ctx, query, map[string]interface{}{
		"key":        key,
		"value":      value,
		"updated_at": time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}

	return nil
}

// Delete elimina una clave
func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv WHERE key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete key %s: %w", key, err)
	}
	return nil
}

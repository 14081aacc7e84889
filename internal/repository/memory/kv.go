package memory

import (
	"context"
	"sync"

	"github.com/elsanchez/autopost/internal/repository"
)

// KVStore implementa repository.KeyValueStore en memoria
type KVStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

var _ repository.KeyValueStore = (*KVStore)(nil)

// NewKVStore crea un store vacío
func NewKVStore() *KVStore {
	return &KVStore{values: make(map[string][]byte)}
}

// Get obtiene una copia del valor
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set guarda una copia del valor
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Delete elimina la clave
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Writes retorna el número de llamadas a Set
func (s *KVStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

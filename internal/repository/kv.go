package repository

import "context"

// KeyValueStore define un almacenamiento persistente clave/valor.
// Set sobrescribe el valor completo de la clave de forma atómica.
type KeyValueStore interface {
	// Get retorna el valor y si la clave existe
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

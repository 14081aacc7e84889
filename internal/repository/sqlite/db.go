package sqlite

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// DatabaseFile es el nombre del archivo SQLite dentro del directorio de datos
	DatabaseFile = "autopost.db"

	// BusyTimeout es cuánto espera una escritura si otra conexión tiene el lock
	BusyTimeout = 5 * time.Second
)

// Database agrupa el almacén clave-valor del registro y el historial de sincronizaciones
type Database struct {
	DB          *sqlx.DB
	KV          *KVStore
	SyncRunRepo *SyncRunRepository
	path        string
}

// NewDatabase abre (o crea) autopost.db en dataDir y aplica las migraciones
func NewDatabase(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dataDir, DatabaseFile)

	db, err := sqlx.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Una sola conexión: el daemon atiende clientes en paralelo y SQLite
	// serializa las escrituras de todos modos
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Database{
		DB:          db,
		KV:          NewKVStore(db),
		SyncRunRepo: NewSyncRunRepository(db),
		path:        path,
	}, nil
}

// dsn arma la cadena de conexión de go-sqlite3. WAL deja leer el historial
// mientras el registro escribe.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprint(BusyTimeout.Milliseconds()))
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	return path + "?" + params.Encode()
}

func migrateUp(db *sqlx.DB) error {
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Path devuelve la ruta del archivo de base de datos
func (d *Database) Path() string {
	return d.path
}

// Close cierra la conexión
func (d *Database) Close() error {
	return d.DB.Close()
}

// Package ledger is the SQLite store imported transactions are committed to.
package ledger

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/stmtflow/internal/dedupe"
	"github.com/cleared-dev/stmtflow/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Errors returned by account lookups.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// Store is a ledger backed by one SQLite file. Safe for concurrent use;
// writes are serialized on a single connection.
type Store struct {
	db       *sql.DB
	accounts *cache.Cache
	// KeyLength is the description prefix length stored for duplicate
	// matching. It must equal the guard's prefix length.
	KeyLength int
	now       func() time.Time
}

// Open opens (creating if needed) the ledger at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	// One connection avoids SQLITE_BUSY between concurrent imports.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging ledger %s: %w", path, err)
	}
	if err := migrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		accounts:  cache.New(5*time.Minute, 10*time.Minute),
		KeyLength: dedupe.DefaultPrefixLength,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func migrateUp(ctx context.Context, db *sql.DB) error {
	log := logger.FromContext(ctx)

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Msg("ledger schema up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}
	version, _, _ := m.Version()
	log.Info().Uint("version", version).Msg("ledger schema migrated")
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

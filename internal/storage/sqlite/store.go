// Package sqlite stores habits in a local SQLite file through the pure-Go
// modernc driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/migration"
	"github.com/julianstephens/habitchain/internal/storage/sqlstore"
	"github.com/julianstephens/habitchain/migrations"
)

const driverName = "sqlite"

type Store struct {
	*sqlstore.Store
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// dsn enables foreign keys and a busy timeout on every pooled connection.
func (s *Store) dsn() string {
	return "file:" + s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open(driverName, s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.Store = sqlstore.New(db, driverName, sq.Question)
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.DB(), sub), nil
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if s.DB() == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	r, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := r.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Debug("Initialized sqlite store", "path", s.path)
	return nil
}

// Load opens an existing database and checks its schema version.
func (s *Store) Load() error {
	if s.DB() != nil {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return sqlstore.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}

	r, err := s.runner()
	if err != nil {
		return err
	}
	return r.ValidateVersion()
}

func (s *Store) Close() error {
	db := s.DB()
	if db == nil {
		return nil
	}
	s.Store = nil
	return db.Close()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

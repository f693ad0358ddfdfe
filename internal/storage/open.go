package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/keyring"
	"github.com/julianstephens/habitchain/internal/logger"
	"github.com/julianstephens/habitchain/internal/storage/postgres"
	"github.com/julianstephens/habitchain/internal/storage/sqlite"
	"github.com/julianstephens/habitchain/internal/utils"
)

// KeyringDSN as the configured database means "read the PostgreSQL
// connection string from the OS keyring".
const KeyringDSN = "keyring"

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*JSONStore)(nil)
)

// ResolveDSN picks the effective connection string. HABITCHAIN_DB_CONNECTION
// wins over everything; "keyring" is looked up in the OS keyring. The second
// return value reports whether the DSN came from a secret store, in which
// case embedded passwords are allowed.
func ResolveDSN(configured string) (string, bool, error) {
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return env, true, nil
	}
	if configured == KeyringDSN {
		dsn, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", false, fmt.Errorf("no connection string in keyring, run 'habitchain keyring set' first: %w", err)
			}
			return "", false, err
		}
		return dsn, true, nil
	}
	return configured, false, nil
}

// Open returns an unopened Provider for the configured database. Call Init or
// Load on the result.
func Open(configured string) (Provider, error) {
	dsn, secret, err := ResolveDSN(configured)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("no database configured")
	}

	switch {
	case postgres.IsConnString(dsn):
		if err := postgres.ValidateConnString(dsn); err != nil {
			if !secret || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
		}
		logger.Debug("Using postgres storage")
		return postgres.New(dsn), nil
	case strings.HasSuffix(strings.ToLower(dsn), ".json"):
		path := utils.ExpandHome(dsn)
		logger.Debug("Using JSON storage", "path", path)
		return NewJSONStore(path), nil
	default:
		path := utils.ExpandHome(dsn)
		logger.Debug("Using sqlite storage", "path", path)
		return sqlite.New(path), nil
	}
}

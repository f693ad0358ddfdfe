package constants

import "time"

const (
	AppName            = "habitchain"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitchain"
	DefaultConfigPath  = "~/.config/habitchain/config.yaml"
	DefaultDBPath      = "~/.config/habitchain/habitchain.db"
	Version            = "v0.3.0"

	// Environment overrides
	EnvConfigPath   = "HABITCHAIN_CONFIG"
	EnvDBConnection = "HABITCHAIN_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultTimezone resolves to the host's local zone
	DefaultTimezone = "Local"

	// DefaultWindowDays is the width of the recent-days strip shown next to each habit
	DefaultWindowDays = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitchain-"
	BackupFileSuffix = ".db"

	// Logging constants
	LogDirName    = "logs"
	LogFileName   = "habitchain.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Postgres connection pool
	PostgresMaxOpenConns    = 10
	PostgresMaxIdleConns    = 10
	PostgresConnMaxLifetime = 5 * time.Minute
)

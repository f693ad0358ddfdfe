package sqlstore

import "errors"

// These are re-exported by package storage; every Provider returns them.
var (
	ErrNotFound       = errors.New("habit not found")
	ErrDuplicateTitle = errors.New("a habit with this title already exists")
	ErrNotInitialized = errors.New("storage not initialized, run 'habitchain init' first")
)

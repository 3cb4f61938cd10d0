// Package settings persists small named string values across process
// restarts. It plays the role of a platform preferences store: the chat
// client keeps its API credential here.
package settings

import (
	"fmt"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a process-independent name -> string map.
type Store interface {
	// Set writes value under name, replacing any previous value.
	Set(name, value string) error
	// Get returns the value stored under name. ok is false when the name
	// has never been set.
	Get(name string) (value string, ok bool, err error)
	// Delete removes name. Deleting a missing name is not an error.
	Delete(name string) error
	Close() error
}

// Open opens the store for the given backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported settings backend: %s (expected %s or %s)", backend, BackendFile, BackendSQLite)
	}
}

// DefaultFileName returns the file name used for the backend inside the
// settings directory.
func DefaultFileName(backend string) string {
	if backend == BackendSQLite {
		return "settings.sqlite3"
	}
	return "settings.toml"
}

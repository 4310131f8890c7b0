// Package backend selects and builds the configured repository backend.
package backend

import (
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

// Type represents the kind of repository backing the application.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// Result contains the repository instance and optional cleanup function
type Result struct {
	Repo    store.Repository
	Cleanup CleanupFunc
}

// New builds the repository the config asks for.
func New(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		slog.Info("Initialized SQLite backend", log.FieldComponent, log.ComponentBackend, "db_path", cfg.SQLiteDBPath)
		return &Result{Repo: repo, Cleanup: repo.Close}, nil

	default:
		slog.Info("Initialized memory backend", log.FieldComponent, log.ComponentBackend)
		return &Result{Repo: memory.New(), Cleanup: nil}, nil
	}
}

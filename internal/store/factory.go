package store

import (
	"fmt"
	"os"
	"path/filepath"

	"tripsort/internal/config"
	"tripsort/internal/trip"
)

// NewStateStoreFromConfig creates a StateStore based on the config type.
func NewStateStoreFromConfig(cfg config.DatabaseConfig) (trip.StateStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteStateStore(filepath.Join(cfg.DataDir, "tripsort.db"))
	case "memory":
		return NewSQLiteStateStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

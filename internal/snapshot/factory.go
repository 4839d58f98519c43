package snapshot

import (
	"fmt"

	"tripsort/internal/config"
	"tripsort/internal/trip"
)

// NewStoreFromConfig creates a SnapshotStore based on the config type.
func NewStoreFromConfig(cfg config.SnapshotConfig) (trip.SnapshotStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem snapshot store requires root to be set")
		}
		return NewFileSystemStore(cfg.Root)
	case "s3":
		return nil, fmt.Errorf("s3 snapshot store not yet implemented")
	default:
		return nil, fmt.Errorf("unknown snapshot store type: %s", cfg.Type)
	}
}

package credentials

import (
	"fmt"

	"tripsort/internal/config"
	"tripsort/internal/trip"
)

// NewStoreFromConfig creates a CredentialStore based on the config type.
// passphrase is only consulted for the age store.
func NewStoreFromConfig(cfg config.CredentialsConfig, passphrase string) (trip.CredentialStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("credentials path must be set")
	}
	switch cfg.Type {
	case "file", "":
		return NewFileCredentialStore(cfg.Path), nil
	case "age":
		return NewAgeCredentialStore(cfg.Path, passphrase)
	default:
		return nil, fmt.Errorf("unknown credentials type: %q", cfg.Type)
	}
}

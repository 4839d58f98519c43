package trip

import (
	"io"
	"time"

	"tripsort/internal/model"
)

// ProjectInfo is the store's listing view of a project.
type ProjectInfo struct {
	ID        string
	Name      string
	CreatedAt time.Time
	EditCount int
}

// StateStore persists serialized project state and serves the cached-edit
// list the reconciler merges against.
type StateStore interface {
	// SaveState persists the serialized state for a project, replacing any
	// previous serialization.
	SaveState(projectID string, state *model.PersistedState) error

	// LoadState returns the persisted state, or nil if the project has
	// never been saved.
	LoadState(projectID string) (*model.PersistedState, error)

	// LoadCachedEdits returns the durable user edits for a project, keyed
	// by file path. An unsaved project yields an empty list.
	LoadCachedEdits(projectID string) ([]model.CachedEdit, error)

	// DeleteState removes all persisted data for a project.
	DeleteState(projectID string) error

	// ListProjects returns every saved project.
	ListProjects() ([]ProjectInfo, error)

	Close() error
}

// Handle is a stored folder-access grant.
type Handle struct {
	RootPath  string    `json:"rootPath"`
	GrantedAt time.Time `json:"grantedAt"`
}

// CredentialStore persists folder-access grants keyed by project id.
// GetHandle returns ErrHandleNotFound when no grant is stored; an
// unreadable store is a distinct error and must be propagated as-is.
type CredentialStore interface {
	SaveHandle(projectID string, handle Handle) error
	GetHandle(projectID string) (Handle, error)
	RemoveHandle(projectID string) error
}

// SnapshotStore keeps versioned off-device copies of serialized project
// state, one slot per project, newest version wins.
type SnapshotStore interface {
	// PutState stores a serialized state snapshot with a version marker.
	// size is the number of bytes that will be read from r.
	PutState(projectID string, r io.Reader, size int64, version int64) error

	// GetState retrieves the latest snapshot and writes it to w.
	GetState(projectID string, w io.Writer) error

	// GetStateVersion returns the stored snapshot version, or 0 when no
	// snapshot exists for the project.
	GetStateVersion(projectID string) (int64, error)

	// ValidateSetup verifies that the snapshot backend is usable.
	ValidateSetup() error
}

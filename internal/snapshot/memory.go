package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"tripsort/internal/trip"
)

// MemoryStore is an in-memory SnapshotStore, useful for testing.
// It is safe for concurrent use.
type MemoryStore struct {
	states   map[string][]byte
	versions map[string]int64
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:   make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

func (m *MemoryStore) PutState(projectID string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[projectID] = data
	m.versions[projectID] = version
	return nil
}

func (m *MemoryStore) GetState(projectID string, w io.Writer) error {
	m.mu.RLock()
	data, ok := m.states[projectID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no snapshot for project: %s", projectID)
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

func (m *MemoryStore) GetStateVersion(projectID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[projectID], nil
}

func (m *MemoryStore) ValidateSetup() error { return nil }

var _ trip.SnapshotStore = (*MemoryStore)(nil)

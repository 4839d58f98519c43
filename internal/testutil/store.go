package testutil

import (
	"sort"
	"strconv"
	"time"

	"tripsort/internal/model"
	"tripsort/internal/trip"
)

// MemoryStateStore is an in-memory StateStore for tests.
type MemoryStateStore struct {
	states map[string]*model.PersistedState
	saves  int
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]*model.PersistedState)}
}

func (s *MemoryStateStore) SaveState(projectID string, state *model.PersistedState) error {
	s.states[projectID] = state
	s.saves++
	return nil
}

func (s *MemoryStateStore) LoadState(projectID string) (*model.PersistedState, error) {
	return s.states[projectID], nil
}

func (s *MemoryStateStore) LoadCachedEdits(projectID string) ([]model.CachedEdit, error) {
	state := s.states[projectID]
	if state == nil {
		return nil, nil
	}
	return state.Edits, nil
}

func (s *MemoryStateStore) DeleteState(projectID string) error {
	delete(s.states, projectID)
	return nil
}

func (s *MemoryStateStore) ListProjects() ([]trip.ProjectInfo, error) {
	var infos []trip.ProjectInfo
	for id, state := range s.states {
		infos = append(infos, trip.ProjectInfo{ID: id, Name: state.Name, EditCount: len(state.Edits)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

func (s *MemoryStateStore) Close() error { return nil }

// SaveCount returns how many times SaveState has been called.
func (s *MemoryStateStore) SaveCount() int { return s.saves }

var _ trip.StateStore = (*MemoryStateStore)(nil)

// MemoryCredentialStore is an in-memory CredentialStore for tests.
type MemoryCredentialStore struct {
	handles map[string]trip.Handle
}

// NewMemoryCredentialStore creates an empty in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{handles: make(map[string]trip.Handle)}
}

func (s *MemoryCredentialStore) SaveHandle(projectID string, handle trip.Handle) error {
	s.handles[projectID] = handle
	return nil
}

func (s *MemoryCredentialStore) GetHandle(projectID string) (trip.Handle, error) {
	handle, ok := s.handles[projectID]
	if !ok {
		return trip.Handle{}, trip.ErrHandleNotFound
	}
	return handle, nil
}

func (s *MemoryCredentialStore) RemoveHandle(projectID string) error {
	delete(s.handles, projectID)
	return nil
}

var _ trip.CredentialStore = (*MemoryCredentialStore)(nil)

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

// SequentialIDGenerator yields "id-1", "id-2", ... deterministically.
type SequentialIDGenerator struct {
	n int
}

func (g *SequentialIDGenerator) New() string {
	g.n++
	return "id-" + strconv.Itoa(g.n)
}

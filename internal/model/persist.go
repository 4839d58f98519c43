package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PersistedState is the durable serialized form of a project. Photos are
// not persisted wholesale: ids and thumbnails are session-local and
// detection provenance is rebuilt from a fresh scan, so only the
// user-edit slice of each photo is carried, keyed by file path. The
// serialization is deterministic (sorted edits and containers) so that
// reconciling twice with no changes yields byte-identical output.
type PersistedState struct {
	Version       int            `json:"version"`
	ProjectID     string         `json:"projectId"`
	Name          string         `json:"name"`
	Settings      Settings       `json:"settings"`
	DayLabels     map[int]string `json:"dayLabels,omitempty"`
	DayContainers []string       `json:"dayContainers,omitempty"`
	Edits         []CachedEdit   `json:"edits"`
}

// PersistedStateVersion is the current serialization format version.
const PersistedStateVersion = 1

// ToPersisted converts an in-memory project state to its durable form.
func ToPersisted(state *ProjectState) *PersistedState {
	p := &PersistedState{
		Version:   PersistedStateVersion,
		ProjectID: state.ProjectID,
		Name:      state.Name,
		Settings:  state.Settings,
		DayLabels: state.DayLabels,
	}

	for name := range state.DayContainers {
		p.DayContainers = append(p.DayContainers, name)
	}
	sort.Strings(p.DayContainers)

	p.Edits = make([]CachedEdit, 0, len(state.Photos))
	for _, photo := range state.Photos {
		p.Edits = append(p.Edits, EditOf(photo))
	}
	sort.Slice(p.Edits, func(i, j int) bool { return p.Edits[i].FilePath < p.Edits[j].FilePath })

	return p
}

// Marshal serializes the persisted state as JSON.
func (p *PersistedState) Marshal() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling project state: %w", err)
	}
	return data, nil
}

// UnmarshalPersistedState parses a serialized project state.
func UnmarshalPersistedState(data []byte) (*PersistedState, error) {
	var p PersistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling project state: %w", err)
	}
	if p.Version > PersistedStateVersion {
		return nil, fmt.Errorf("project state version %d is newer than supported %d", p.Version, PersistedStateVersion)
	}
	return &p, nil
}

// Containers converts the persisted container list back to a set.
func (p *PersistedState) Containers() map[string]bool {
	if len(p.DayContainers) == 0 {
		return nil
	}
	set := make(map[string]bool, len(p.DayContainers))
	for _, name := range p.DayContainers {
		set[name] = true
	}
	return set
}

package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tripsort/internal/trip"
)

// FileCredentialStore keeps folder-access grants in a plaintext JSON
// file. Writes go through a temp file and rename so a crash mid-save
// never corrupts the grants.
type FileCredentialStore struct {
	path string
}

// NewFileCredentialStore creates a store backed by the file at path. The
// file is created on the first save.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) SaveHandle(projectID string, handle trip.Handle) error {
	handles, err := s.load()
	if err != nil {
		return err
	}
	handles[projectID] = handle
	return s.save(handles)
}

func (s *FileCredentialStore) GetHandle(projectID string) (trip.Handle, error) {
	handles, err := s.load()
	if err != nil {
		return trip.Handle{}, err
	}
	handle, ok := handles[projectID]
	if !ok {
		return trip.Handle{}, trip.ErrHandleNotFound
	}
	return handle, nil
}

func (s *FileCredentialStore) RemoveHandle(projectID string) error {
	handles, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := handles[projectID]; !ok {
		return nil
	}
	delete(handles, projectID)
	return s.save(handles)
}

func (s *FileCredentialStore) load() (map[string]trip.Handle, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]trip.Handle), nil
		}
		return nil, fmt.Errorf("reading grants file: %w", err)
	}
	return decodeHandles(data)
}

func (s *FileCredentialStore) save(handles map[string]trip.Handle) error {
	data, err := encodeHandles(handles)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data, 0600)
}

var _ trip.CredentialStore = (*FileCredentialStore)(nil)

func decodeHandles(data []byte) (map[string]trip.Handle, error) {
	var handles map[string]trip.Handle
	if err := json.Unmarshal(data, &handles); err != nil {
		return nil, fmt.Errorf("decoding grants: %w", err)
	}
	if handles == nil {
		handles = make(map[string]trip.Handle)
	}
	return handles, nil
}

func encodeHandles(handles map[string]trip.Handle) ([]byte, error) {
	data, err := json.MarshalIndent(handles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding grants: %w", err)
	}
	return data, nil
}

// writeFileAtomic writes data to a sibling temp file and renames it into
// place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating grants directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp grants file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing grants: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting grants permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp grants file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing grants file: %w", err)
	}
	return nil
}

package snapshot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tripsort/internal/trip"
)

// FileSystemStore is a filesystem-based SnapshotStore. Snapshots live in
// a flat directory structure:
//
//	<root>/
//	  <projectID>.json     (latest serialized state)
//	  <projectID>.version  (version marker)
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a snapshot store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

func (s *FileSystemStore) PutState(projectID string, r io.Reader, size int64, version int64) error {
	destPath := filepath.Join(s.root, projectID+".json")
	if err := s.writeFile(destPath, r, size); err != nil {
		return err
	}

	versionPath := filepath.Join(s.root, projectID+".version")
	return os.WriteFile(versionPath, []byte(strconv.FormatInt(version, 10)), 0644)
}

func (s *FileSystemStore) GetState(projectID string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.root, projectID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no snapshot for project: %s", projectID)
		}
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return nil
}

func (s *FileSystemStore) GetStateVersion(projectID string) (int64, error) {
	data, err := os.ReadFile(filepath.Join(s.root, projectID+".version"))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("snapshot root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot root is not a directory: %s", s.root)
	}
	return nil
}

// writeFile writes data from r to the destination using an atomic
// temp-file-and-rename.
func (s *FileSystemStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true
	return nil
}

var _ trip.SnapshotStore = (*FileSystemStore)(nil)

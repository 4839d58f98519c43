package testutil

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"tripsort/internal/model"
	"tripsort/internal/trip"
)

// mockFile is one media file in the mock filesystem.
type mockFile struct {
	relPath string
	content []byte
	modTime time.Time
	size    int64
}

// MockFilesystemManager is an in-memory filesystem for testing the
// reconciler. Files are enumerated in insertion order, which makes the
// first-wins duplicate suppression deterministic in tests.
type MockFilesystemManager struct {
	roots map[string][]*mockFile
	fail  error
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{roots: make(map[string][]*mockFile)}
}

// AddMediaFile adds a media file under root. size defaults to the content
// length when zero.
func (m *MockFilesystemManager) AddMediaFile(root, relPath string, modTime time.Time, content []byte) {
	m.roots[root] = append(m.roots[root], &mockFile{
		relPath: relPath,
		content: content,
		modTime: modTime,
		size:    int64(len(content)),
	})
}

// AddMediaFileSized adds a media file with an explicit size, for
// fingerprint tests that do not care about content.
func (m *MockFilesystemManager) AddMediaFileSized(root, relPath string, modTime time.Time, size int64) {
	m.roots[root] = append(m.roots[root], &mockFile{
		relPath: relPath,
		modTime: modTime,
		size:    size,
	})
}

// FailWith makes every subsequent call return err.
func (m *MockFilesystemManager) FailWith(err error) { m.fail = err }

func (m *MockFilesystemManager) ListMediaFiles(root string) ([]trip.MediaFile, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var files []trip.MediaFile
	for _, f := range m.roots[root] {
		name := f.relPath
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		if !model.IsMediaName(name) || strings.HasPrefix(name, ".") {
			continue
		}
		files = append(files, trip.MediaFile{
			Path:    f.relPath,
			Name:    name,
			ModTime: f.modTime,
			Size:    f.size,
		})
	}
	return files, nil
}

func (m *MockFilesystemManager) ListFolders(root string) ([]trip.FolderInfo, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	byName := make(map[string]*trip.FolderInfo)
	seenSub := make(map[string]bool)
	var order []string
	for _, f := range m.roots[root] {
		parts := strings.Split(f.relPath, "/")
		if len(parts) < 2 {
			continue
		}
		top := parts[0]
		info, ok := byName[top]
		if !ok {
			info = &trip.FolderInfo{Name: top}
			byName[top] = info
			order = append(order, top)
		}
		if len(parts) == 2 {
			info.MediaCount++
		} else if key := top + "/" + parts[1]; !seenSub[key] {
			seenSub[key] = true
			info.Subfolders = append(info.Subfolders, parts[1])
		}
	}
	sort.Strings(order)
	folders := make([]trip.FolderInfo, 0, len(order))
	for _, name := range order {
		folders = append(folders, *byName[name])
	}
	return folders, nil
}

func (m *MockFilesystemManager) Open(root, relPath string) (io.ReadCloser, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	for _, f := range m.roots[root] {
		if f.relPath == relPath {
			return io.NopCloser(bytes.NewReader(f.content)), nil
		}
	}
	return nil, fmt.Errorf("file not found: %s", relPath)
}

var _ trip.FilesystemManager = (*MockFilesystemManager)(nil)

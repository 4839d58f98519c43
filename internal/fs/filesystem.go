package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tripsort/internal/model"
	"tripsort/internal/trip"
)

// OSFilesystemManager is the real filesystem implementation of
// FilesystemManager. It performs actual filesystem operations using the
// os package, reporting paths relative to the scanned root with forward
// slashes so state stays portable across machines.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// ListMediaFiles walks root recursively and returns every media file,
// sorted by relative path for deterministic scans. Dot-prefixed entries
// are skipped.
func (m *OSFilesystemManager) ListMediaFiles(root string) ([]trip.MediaFile, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	var files []trip.MediaFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return classify(p, err)
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !model.IsMediaName(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", p, err)
		}
		files = append(files, trip.MediaFile{
			Path:    filepath.ToSlash(rel),
			Name:    d.Name(),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		var se *trip.ScanError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ListFolders returns the top-level folders under root with their direct
// media count and immediate subfolder names, sorted by name.
func (m *OSFilesystemManager) ListFolders(root string) ([]trip.FolderInfo, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, classify(root, err)
	}

	var folders []trip.FolderInfo
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info := trip.FolderInfo{Name: entry.Name()}

		children, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, classify(filepath.Join(root, entry.Name()), err)
		}
		for _, child := range children {
			if strings.HasPrefix(child.Name(), ".") {
				continue
			}
			if child.IsDir() {
				info.Subfolders = append(info.Subfolders, child.Name())
			} else if child.Type().IsRegular() && model.IsMediaName(child.Name()) {
				info.MediaCount++
			}
		}
		folders = append(folders, info)
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	return folders, nil
}

// Open opens a media file for reading by its root-relative path.
func (m *OSFilesystemManager) Open(root, relPath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, classify(relPath, err)
	}
	return f, nil
}

// checkRoot stats the scan root up front so a vanished or revoked folder
// fails with a classified error instead of an empty walk.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return classify(root, err)
	}
	if !info.IsDir() {
		return &trip.ScanError{Kind: trip.KindFolderMissing, Path: root, Err: fmt.Errorf("not a directory")}
	}
	return nil
}

// classify maps os errors onto the failure kinds the caller can act on.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &trip.ScanError{Kind: trip.KindFolderMissing, Path: path, Err: err}
	case errors.Is(err, os.ErrPermission):
		return &trip.ScanError{Kind: trip.KindAccessDenied, Path: path, Err: err}
	default:
		return err
	}
}

var _ trip.FilesystemManager = (*OSFilesystemManager)(nil)

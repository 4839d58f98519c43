package trip

import (
	"io"
	"time"
)

// MediaFile is one media file found by a scan: a relative slash-separated
// path under the project root plus the raw metadata used for
// fingerprinting.
type MediaFile struct {
	Path    string // relative to the project root
	Name    string
	ModTime time.Time
	Size    int64
}

// FilesystemManager abstracts media enumeration and file access so the
// reconciler can be tested without touching the real filesystem.
type FilesystemManager interface {
	// ListMediaFiles enumerates all supported media files under root,
	// recursively, in a deterministic order. Hidden entries (leading dot)
	// and unsupported extensions are skipped. Failures are reported as
	// *ScanError with the access-denied or folder-missing kind.
	ListMediaFiles(root string) ([]MediaFile, error)

	// ListFolders returns the immediate child folders of root with their
	// direct media counts and child folder names, for the onboarding scan.
	ListFolders(root string) ([]FolderInfo, error)

	// Open opens one media file for reading.
	Open(root, relPath string) (io.ReadCloser, error)
}

// FolderInfo describes one top-level folder for onboarding.
type FolderInfo struct {
	Name       string
	MediaCount int
	Subfolders []string
}

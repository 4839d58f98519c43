package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tripsort/internal/config"
	"tripsort/internal/trip"
)

func putGet(t *testing.T, s trip.SnapshotStore) {
	t.Helper()

	data := `{"version":1,"projectId":"p1"}`
	if err := s.PutState("p1", strings.NewReader(data), int64(len(data)), 1); err != nil {
		t.Fatalf("PutState() error = %v", err)
	}

	var buf bytes.Buffer
	if err := s.GetState("p1", &buf); err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if buf.String() != data {
		t.Errorf("GetState() = %q, want %q", buf.String(), data)
	}

	version, err := s.GetStateVersion("p1")
	if err != nil {
		t.Fatalf("GetStateVersion() error = %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Run("put and get round-trip", func(t *testing.T) {
		putGet(t, NewMemoryStore())
	})

	t.Run("size mismatch", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.PutState("p1", strings.NewReader("short"), 100, 1); err == nil {
			t.Error("size mismatch must fail")
		}
	})

	t.Run("missing snapshot", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.GetState("nope", &bytes.Buffer{}); err == nil {
			t.Error("missing snapshot must fail")
		}
		version, err := s.GetStateVersion("nope")
		if err != nil || version != 0 {
			t.Errorf("GetStateVersion() = %d, %v, want 0, nil", version, err)
		}
	})

	t.Run("newer version replaces", func(t *testing.T) {
		s := NewMemoryStore()
		if err := s.PutState("p1", strings.NewReader("v1"), 2, 1); err != nil {
			t.Fatalf("PutState() error = %v", err)
		}
		if err := s.PutState("p1", strings.NewReader("v2"), 2, 2); err != nil {
			t.Fatalf("PutState() error = %v", err)
		}
		var buf bytes.Buffer
		if err := s.GetState("p1", &buf); err != nil {
			t.Fatalf("GetState() error = %v", err)
		}
		if buf.String() != "v2" {
			t.Errorf("GetState() = %q, want v2", buf.String())
		}
		if version, _ := s.GetStateVersion("p1"); version != 2 {
			t.Errorf("version = %d, want 2", version)
		}
	})
}

func TestFileSystemStore(t *testing.T) {
	t.Run("creates the root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "snapshots")
		s, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if _, err := os.Stat(root); err != nil {
			t.Errorf("root directory not created: %v", err)
		}
		if err := s.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("put and get round-trip", func(t *testing.T) {
		s, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		putGet(t, s)
	})

	t.Run("size mismatch leaves no snapshot behind", func(t *testing.T) {
		root := t.TempDir()
		s, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if err := s.PutState("p1", strings.NewReader("short"), 100, 1); err == nil {
			t.Fatal("size mismatch must fail")
		}
		if _, err := os.Stat(filepath.Join(root, "p1.json")); !os.IsNotExist(err) {
			t.Error("failed put must not leave a snapshot file")
		}
	})

	t.Run("version survives reconstruction", func(t *testing.T) {
		root := t.TempDir()
		s, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if err := s.PutState("p1", strings.NewReader("x"), 1, 7); err != nil {
			t.Fatalf("PutState() error = %v", err)
		}

		s2, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		if version, _ := s2.GetStateVersion("p1"); version != 7 {
			t.Errorf("version = %d, want 7", version)
		}
	})
}

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := NewStoreFromConfig(config.SnapshotConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("got %T, want *MemoryStore", s)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		s, err := NewStoreFromConfig(config.SnapshotConfig{Type: "filesystem", Root: t.TempDir()})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := s.(*FileSystemStore); !ok {
			t.Errorf("got %T, want *FileSystemStore", s)
		}
	})

	t.Run("filesystem requires root", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.SnapshotConfig{Type: "filesystem"}); err == nil {
			t.Error("missing root must be rejected")
		}
	})

	t.Run("s3 not implemented", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.SnapshotConfig{Type: "s3"}); err == nil {
			t.Error("s3 store is not implemented yet")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.SnapshotConfig{Type: "ftp"}); err == nil {
			t.Error("unknown type must be rejected")
		}
	})
}

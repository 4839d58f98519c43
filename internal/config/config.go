package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the main configuration for tripsort.
type Config struct {
	BaseDir     string            `toml:"base_dir"`
	LogDir      string            `toml:"log_dir"`
	Database    DatabaseConfig    `toml:"database"`
	Credentials CredentialsConfig `toml:"credentials"`
	Snapshot    SnapshotConfig    `toml:"snapshot"`
	Folders     FoldersConfig     `toml:"folders"`
}

// DatabaseConfig configures the state store.
// Tagged union: Type determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// CredentialsConfig configures where folder-access grants are kept.
// Tagged union: Type determines which other fields are relevant.
type CredentialsConfig struct {
	Type string `toml:"type"`           // "file" (plaintext) or "age" (encrypted)
	Path string `toml:"path,omitempty"` // grants file location
}

// SnapshotConfig configures the versioned state-snapshot backend.
// Tagged union: Type determines which other fields are relevant.
type SnapshotConfig struct {
	Type string `toml:"type"`           // "memory", "filesystem", or "s3" (reserved)
	Root string `toml:"root,omitempty"` // only used for type=filesystem

	// S3-specific fields, reserved for the unimplemented s3 backend.
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`
}

// FoldersConfig holds the default folder-role names for new projects.
type FoldersConfig struct {
	Days      string `toml:"days"`
	Archive   string `toml:"archive"`
	Favorites string `toml:"favorites"`
	Metadata  string `toml:"metadata"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Credentials: CredentialsConfig{
			Type: "file",
			Path: filepath.Join(baseDir, "grants.json"),
		},
		Snapshot: SnapshotConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "snapshots"),
		},
		Folders: FoldersConfig{
			Days:      "Days",
			Archive:   "Archive",
			Favorites: "Favorites",
			Metadata:  "_meta",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

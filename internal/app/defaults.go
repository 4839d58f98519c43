package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - TRIPSORT_CONFIG_PATH: config file location (default: ~/.config/tripsort.toml)
//   - TRIPSORT_HOME: base directory for tripsort data (default: ~/.local/share/tripsort)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking TRIPSORT_CONFIG_PATH
// first, then falling back to the default ~/.config/tripsort.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("TRIPSORT_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tripsort.toml"), nil
}

// getBaseDir returns the base directory for tripsort data, checking
// TRIPSORT_HOME first, then falling back to the XDG default
// ~/.local/share/tripsort.
func getBaseDir() (string, error) {
	if path := os.Getenv("TRIPSORT_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "tripsort"), nil
}

package app

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"tripsort/internal/config"
	"tripsort/internal/credentials"
	"tripsort/internal/fs"
	"tripsort/internal/model"
	"tripsort/internal/ordering"
	"tripsort/internal/snapshot"
	"tripsort/internal/store"
	"tripsort/internal/trip"
)

// TripApp is the application layer between the CLI and ProjectService.
// It constructs all dependencies from config, exposes high-level
// operations, and manages the store lifecycle on Close.
type TripApp struct {
	cfg       *config.Config
	states    trip.StateStore
	creds     trip.CredentialStore
	snapshots trip.SnapshotStore
	service   *trip.ProjectService
	logFile   *os.File
}

// NewTripApp creates a fully wired TripApp from the given config.
// passphrase is only consulted when the credential store is encrypted.
// The caller must call Close when done.
func NewTripApp(cfg *config.Config, passphrase string) (*TripApp, error) {
	states, err := store.NewStateStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating state store: %w", err)
	}

	creds, err := credentials.NewStoreFromConfig(cfg.Credentials, passphrase)
	if err != nil {
		states.Close()
		return nil, fmt.Errorf("creating credential store: %w", err)
	}

	snapshots, err := snapshot.NewStoreFromConfig(cfg.Snapshot)
	if err != nil {
		states.Close()
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}
	if err := snapshots.ValidateSetup(); err != nil {
		states.Close()
		return nil, fmt.Errorf("validating snapshot store: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		states.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager()
	svc := trip.NewProjectService(states, creds, snapshots, fsmgr,
		&slogAdapter{l: logger}, trip.RealClock{}, trip.UUIDGenerator{})

	return &TripApp{
		cfg:       cfg,
		states:    states,
		creds:     creds,
		snapshots: snapshots,
		service:   svc,
		logFile:   logFile,
	}, nil
}

// settings derives project settings from the configured folder-role
// names, falling back to the defaults for any name left empty.
func (a *TripApp) settings() model.Settings {
	s := model.DefaultSettings()
	if a.cfg.Folders.Days != "" {
		s.DaysFolder = a.cfg.Folders.Days
	}
	if a.cfg.Folders.Archive != "" {
		s.ArchiveFolder = a.cfg.Folders.Archive
	}
	if a.cfg.Folders.Favorites != "" {
		s.FavoritesFolder = a.cfg.Folders.Favorites
	}
	if a.cfg.Folders.Metadata != "" {
		s.MetadataFolder = a.cfg.Folders.Metadata
	}
	return s
}

// PreviewFolders runs the onboarding folder-mapping pass without creating
// anything.
func (a *TripApp) PreviewFolders(rootPath, name string, tripStart *time.Time) ([]model.FolderMapping, error) {
	return a.service.PreviewFolders(rootPath, name, a.settings(), tripStart)
}

// InitProject creates a new project rooted at rootPath and runs the first
// scan.
func (a *TripApp) InitProject(name, rootPath string, dayContainers []string, tripStart *time.Time) (*model.ProjectState, error) {
	return a.service.CreateProject(name, rootPath, a.settings(), dayContainers, tripStart)
}

// OpenProject reconciles and returns a project's current state.
func (a *TripApp) OpenProject(projectID string) (*model.ProjectState, error) {
	return a.service.OpenProject(projectID)
}

// DeleteProject removes a project's state and grant. The photos on disk
// are untouched.
func (a *TripApp) DeleteProject(projectID string) error {
	return a.service.DeleteProject(projectID)
}

// ListProjects returns every saved project.
func (a *TripApp) ListProjects() ([]trip.ProjectInfo, error) {
	return a.service.ListProjects()
}

// ListOrder opens a project and builds its display order. mode is one of
// "none", "subfolder", "bucket", or "day".
func (a *TripApp) ListOrder(projectID, mode string, separateVideos bool) (*model.ProjectState, *ordering.Result, error) {
	state, err := a.service.OpenProject(projectID)
	if err != nil {
		return nil, nil, err
	}

	groupBy, err := parseGroupMode(mode)
	if err != nil {
		return nil, nil, err
	}

	result := ordering.Build(state.Photos, ordering.Options{
		GroupBy:        groupBy,
		SeparateVideos: separateVideos,
		Subfolder:      trip.SubfolderGroup,
	})
	return state, result, nil
}

func parseGroupMode(mode string) (ordering.GroupMode, error) {
	switch mode {
	case "", "none":
		return ordering.GroupNone, nil
	case "subfolder":
		return ordering.GroupBySubfolder, nil
	case "bucket":
		return ordering.GroupByBucket, nil
	case "day":
		return ordering.GroupByDay, nil
	default:
		return ordering.GroupNone, fmt.Errorf("unknown group mode: %q", mode)
	}
}

// ProjectStatus summarizes a project for the status command.
type ProjectStatus struct {
	Name       string
	Photos     int
	Videos     int
	Assigned   int
	Unassigned int
	Archived   int
	Favorites  int
	Days       int
}

// Status opens a project and summarizes its organization progress.
func (a *TripApp) Status(projectID string) (*ProjectStatus, error) {
	state, err := a.service.OpenProject(projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{Name: state.Name}
	days := make(map[int]bool)
	for _, p := range state.Photos {
		if model.IsVideoName(p.CurrentName) {
			status.Videos++
		} else {
			status.Photos++
		}
		switch {
		case p.Archived:
			status.Archived++
		case p.Day != nil || p.Bucket != nil:
			status.Assigned++
		default:
			status.Unassigned++
		}
		if p.Favorite {
			status.Favorites++
		}
		if p.Day != nil {
			days[*p.Day] = true
		}
	}
	status.Days = len(days)
	return status, nil
}

// MovePlan opens a project and computes the moves that would bring the
// folder layout in line with the current assignments. Nothing is moved.
func (a *TripApp) MovePlan(projectID string) ([]trip.Move, error) {
	state, err := a.service.OpenProject(projectID)
	if err != nil {
		return nil, err
	}
	return trip.BuildMovePlan(state), nil
}

// RestoreState replaces the local serialized state with the latest
// snapshot copy. Used when the local database was lost or reset.
func (a *TripApp) RestoreState(projectID string) error {
	var buf bytes.Buffer
	if err := a.snapshots.GetState(projectID, &buf); err != nil {
		return fmt.Errorf("fetching state snapshot: %w", err)
	}

	state, err := model.UnmarshalPersistedState(buf.Bytes())
	if err != nil {
		return err
	}
	if err := a.states.SaveState(projectID, state); err != nil {
		return fmt.Errorf("restoring project state: %w", err)
	}
	return nil
}

// Close releases the store and log file.
func (a *TripApp) Close() error {
	var firstErr error
	if err := a.states.Close(); err != nil {
		firstErr = fmt.Errorf("closing state store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

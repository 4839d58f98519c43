package trip

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"tripsort/internal/detect"
	"tripsort/internal/model"
)

// ProjectService is the lifecycle layer above the reconciler: it owns
// create/open/save/delete and the photo mutation operations, persisting
// the full state after every mutation.
type ProjectService struct {
	states     StateStore
	creds      CredentialStore
	snapshots  SnapshotStore
	reconciler *Reconciler
	fsmgr      FilesystemManager
	logger     Logger
	clock      Clock
	idgen      IDGenerator
}

// NewProjectService creates a ProjectService with the provided dependencies.
func NewProjectService(states StateStore, creds CredentialStore, snapshots SnapshotStore, fsmgr FilesystemManager, logger Logger, clock Clock, idgen IDGenerator) *ProjectService {
	return &ProjectService{
		states:     states,
		creds:      creds,
		snapshots:  snapshots,
		reconciler: NewReconciler(fsmgr, logger, idgen),
		fsmgr:      fsmgr,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
	}
}

// PreviewFolders runs the onboarding detector pass over the top-level
// folders of a prospective project root.
func (s *ProjectService) PreviewFolders(rootPath, projectName string, settings model.Settings, tripStart *time.Time) ([]model.FolderMapping, error) {
	folders, err := s.fsmgr.ListFolders(rootPath)
	if err != nil {
		return nil, err
	}

	entries := make([]detect.FolderEntry, 0, len(folders))
	for _, f := range folders {
		entries = append(entries, detect.FolderEntry{
			Name:       f.Name,
			PhotoCount: f.MediaCount,
			Subfolders: f.Subfolders,
		})
	}

	detector := &detect.Detector{
		Settings:    settings,
		ProjectName: projectName,
		TripStart:   tripStart,
	}
	return detector.MapFolders(entries), nil
}

// CreateProject grants access to rootPath, runs the first scan, and
// persists the initial state. dayContainers marks folders the user
// explicitly confirmed as day folders during onboarding.
func (s *ProjectService) CreateProject(name, rootPath string, settings model.Settings, dayContainers []string, tripStart *time.Time) (*model.ProjectState, error) {
	projectID := s.idgen.New()

	if err := s.creds.SaveHandle(projectID, Handle{RootPath: rootPath, GrantedAt: s.clock.Now()}); err != nil {
		return nil, fmt.Errorf("saving folder grant: %w", err)
	}

	photos, err := s.reconciler.Reconcile(ReconcileInput{
		RootPath:    rootPath,
		ProjectName: name,
		Settings:    settings,
		TripStart:   tripStart,
	})
	if err != nil {
		// Roll back the grant so a failed creation leaves nothing behind.
		if rmErr := s.creds.RemoveHandle(projectID); rmErr != nil {
			s.logger.Warn("removing grant after failed creation", "error", rmErr)
		}
		return nil, err
	}

	state := &model.ProjectState{
		ProjectID: projectID,
		Name:      name,
		Photos:    photos,
		Settings:  settings,
	}
	if len(dayContainers) > 0 {
		state.DayContainers = make(map[string]bool, len(dayContainers))
		for _, c := range dayContainers {
			state.DayContainers[c] = true
		}
	}

	if err := s.persist(state); err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project", projectID, "photos", len(photos))
	return state, nil
}

// OpenProject reconciles the project against the live filesystem and
// returns the canonical state. A reconciliation failure is surfaced
// unmodified and leaves the previously persisted state untouched.
func (s *ProjectService) OpenProject(projectID string) (*model.ProjectState, error) {
	handle, err := s.creds.GetHandle(projectID)
	if err != nil {
		if errors.Is(err, ErrHandleNotFound) {
			return nil, &ScanError{Kind: KindNoCredential, Path: projectID, Err: err}
		}
		return nil, fmt.Errorf("loading folder grant: %w", err)
	}

	persisted, err := s.states.LoadState(projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project state: %w", err)
	}
	if persisted == nil {
		return nil, fmt.Errorf("unknown project: %s", projectID)
	}

	photos, err := s.reconciler.Reconcile(ReconcileInput{
		RootPath:    handle.RootPath,
		ProjectName: persisted.Name,
		Settings:    persisted.Settings,
		CachedEdits: persisted.Edits,
	})
	if err != nil {
		return nil, err
	}

	state := &model.ProjectState{
		ProjectID:     projectID,
		Name:          persisted.Name,
		Photos:        photos,
		Settings:      persisted.Settings,
		DayLabels:     persisted.DayLabels,
		DayContainers: persisted.Containers(),
	}

	if err := s.persist(state); err != nil {
		return nil, err
	}
	return state, nil
}

// DeleteProject removes both the serialized state and the stored grant.
func (s *ProjectService) DeleteProject(projectID string) error {
	if err := s.states.DeleteState(projectID); err != nil {
		return fmt.Errorf("deleting project state: %w", err)
	}
	if err := s.creds.RemoveHandle(projectID); err != nil && !errors.Is(err, ErrHandleNotFound) {
		return fmt.Errorf("removing folder grant: %w", err)
	}
	s.logger.Info("project deleted", "project", projectID)
	return nil
}

// ListProjects returns every saved project.
func (s *ProjectService) ListProjects() ([]ProjectInfo, error) {
	return s.states.ListProjects()
}

// persist serializes the state, saves it, and uploads a versioned
// snapshot copy.
func (s *ProjectService) persist(state *model.ProjectState) error {
	persisted := model.ToPersisted(state)
	if err := s.states.SaveState(state.ProjectID, persisted); err != nil {
		return fmt.Errorf("saving project state: %w", err)
	}

	data, err := persisted.Marshal()
	if err != nil {
		return err
	}
	version, err := s.snapshots.GetStateVersion(state.ProjectID)
	if err != nil {
		return fmt.Errorf("checking snapshot version: %w", err)
	}
	if err := s.snapshots.PutState(state.ProjectID, bytes.NewReader(data), int64(len(data)), version+1); err != nil {
		return fmt.Errorf("uploading state snapshot: %w", err)
	}
	return nil
}

// mutatePhoto produces a new photos collection with fn applied to a copy
// of the target photo, then persists.
func (s *ProjectService) mutatePhoto(state *model.ProjectState, photoID string, fn func(*model.Photo)) error {
	photos := make([]*model.Photo, len(state.Photos))
	found := false
	for i, p := range state.Photos {
		if p.ID == photoID {
			cp := *p
			fn(&cp)
			photos[i] = &cp
			found = true
		} else {
			photos[i] = p
		}
	}
	if !found {
		return fmt.Errorf("unknown photo: %s", photoID)
	}
	state.Photos = photos
	return s.persist(state)
}

// SetDay assigns or clears a photo's trip day.
func (s *ProjectService) SetDay(state *model.ProjectState, photoID string, day *int) error {
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.Day = day
	})
}

// SetBucket assigns or clears a photo's bucket. Assigning the archive
// bucket archives the photo; any bucket change resets the sequence, which
// is only meaningful within one day+bucket group.
func (s *ProjectService) SetBucket(state *model.ProjectState, photoID string, bucket *model.Bucket) error {
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.Bucket = bucket
		p.Sequence = nil
		p.Archived = bucket != nil && bucket.IsArchive()
	})
}

// SetSequence positions a photo within its day+bucket group. Rejected for
// photos without a non-archive bucket.
func (s *ProjectService) SetSequence(state *model.ProjectState, photoID string, seq *int) error {
	var invalid bool
	err := s.mutatePhoto(state, photoID, func(p *model.Photo) {
		if p.Bucket == nil || p.Bucket.IsArchive() {
			invalid = true
			return
		}
		p.Sequence = seq
	})
	if err != nil {
		return err
	}
	if invalid {
		return fmt.Errorf("sequence requires a non-archive bucket: %s", photoID)
	}
	return nil
}

// SetRating sets a photo's 0-5 rating.
func (s *ProjectService) SetRating(state *model.ProjectState, photoID string, rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating out of range: %d", rating)
	}
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.Rating = rating
	})
}

// ToggleFavorite flips a photo's favorite flag.
func (s *ProjectService) ToggleFavorite(state *model.ProjectState, photoID string) error {
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.Favorite = !p.Favorite
	})
}

// SetArchived archives or unarchives a photo. Archiving forces the bucket
// to the archive code; unarchiving clears it.
func (s *ProjectService) SetArchived(state *model.ProjectState, photoID string, archived bool) error {
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.Archived = archived
		p.Sequence = nil
		if archived {
			p.Bucket = model.BucketPtr(model.BucketArchive)
		} else if p.Bucket != nil && p.Bucket.IsArchive() {
			p.Bucket = nil
		}
	})
}

// Rename changes a photo's current name without touching the original.
func (s *ProjectService) Rename(state *model.ProjectState, photoID, newName string) error {
	if newName == "" {
		return fmt.Errorf("empty name for photo %s", photoID)
	}
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.CurrentName = newName
	})
}

// SetSubfolderOverride sets the three-state subfolder override.
func (s *ProjectService) SetSubfolderOverride(state *model.ProjectState, photoID string, o model.SubfolderOverride) error {
	return s.mutatePhoto(state, photoID, func(p *model.Photo) {
		p.SubfolderOverride = o
	})
}

// SetDayLabel sets the user-editable display name for a day.
func (s *ProjectService) SetDayLabel(state *model.ProjectState, day int, label string) error {
	if state.DayLabels == nil {
		state.DayLabels = make(map[int]string)
	}
	if label == "" {
		delete(state.DayLabels, day)
	} else {
		state.DayLabels[day] = label
	}
	return s.persist(state)
}

// SubfolderGroup derives the subfolder group label used by the ordering
// engine's grouped day view. An empty label means the day root.
func SubfolderGroup(p *model.Photo) string { return subfolderFor(p) }

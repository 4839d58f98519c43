package trip

import (
	"regexp"
	"strings"
	"time"

	"tripsort/internal/detect"
	"tripsort/internal/model"
)

// Reconciler merges a fresh filesystem scan with previously cached user
// edits into one canonical photo collection. Freshness wins for identity
// and media metadata, cache wins for user intent.
//
// Calls are not safe to run concurrently for the same project; callers
// must serialize reconciliation per project id.
type Reconciler struct {
	fsmgr  FilesystemManager
	logger Logger
	idgen  IDGenerator
}

// NewReconciler creates a Reconciler with the provided dependencies.
func NewReconciler(fsmgr FilesystemManager, logger Logger, idgen IDGenerator) *Reconciler {
	return &Reconciler{fsmgr: fsmgr, logger: logger, idgen: idgen}
}

// ReconcileInput is the full input of one reconciliation pass.
type ReconcileInput struct {
	RootPath    string
	ProjectName string
	Settings    model.Settings
	CachedEdits []model.CachedEdit
	TripStart   *time.Time
}

// Reconcile scans the project root, deduplicates by fingerprint, runs
// path-level detection, overlays cached edits by file path, and re-applies
// the archive-folder rule. A scan that yields zero files is a hard
// *ScanError failure: it signals a stale or revoked folder handle, not a
// genuinely empty project.
func (r *Reconciler) Reconcile(in ReconcileInput) ([]*model.Photo, error) {
	files, err := r.fsmgr.ListMediaFiles(in.RootPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &ScanError{Kind: KindEmptyScan, Path: in.RootPath}
	}

	files = r.dedupe(files)

	detector := &detect.Detector{
		Settings:    in.Settings,
		ProjectName: in.ProjectName,
		TripStart:   in.TripStart,
	}

	edits := make(map[string]model.CachedEdit, len(in.CachedEdits))
	for _, e := range in.CachedEdits {
		edits[e.FilePath] = e
	}

	photos := make([]*model.Photo, 0, len(files))
	matched := 0
	for _, f := range files {
		photo := r.freshPhoto(f, detector, in.Settings)

		if edit, ok := edits[f.Path]; ok {
			photo.ApplyEdit(edit)
			matched++
		}

		// Physical location in the archive folder is authoritative over
		// whatever the cache said.
		if pathIsArchived(f.Path, in.Settings.ArchiveFolder) {
			photo.Archived = true
			photo.Bucket = model.BucketPtr(model.BucketArchive)
		}

		photos = append(photos, photo)
	}

	if stale := len(in.CachedEdits) - matched; stale > 0 {
		r.logger.Debug("dropped stale cache entries", "count", stale)
	}
	r.logger.Info("reconciled project", "files", len(photos), "cached", matched)

	return photos, nil
}

// dedupe suppresses files whose (name, mtime, size) fingerprint was
// already seen: the same physical file reachable via two paths. The
// earlier-discovered path wins, by enumeration order. This is observable,
// deliberate behavior, not an error; downstream export logic assumes one
// physical file maps to exactly one photo.
func (r *Reconciler) dedupe(files []MediaFile) []MediaFile {
	seen := make(map[model.Fingerprint]string, len(files))
	kept := make([]MediaFile, 0, len(files))
	for _, f := range files {
		fp := fingerprintOf(f)
		if first, dup := seen[fp]; dup {
			r.logger.Debug("duplicate fingerprint suppressed", "path", f.Path, "kept", first)
			continue
		}
		seen[fp] = f.Path
		kept = append(kept, f)
	}
	return kept
}

func fingerprintOf(f MediaFile) model.Fingerprint {
	return model.Fingerprint{
		Name:    strings.ToLower(f.Name),
		ModTime: f.ModTime.UnixMilli(),
		Size:    f.Size,
	}
}

// freshPhoto builds the scan-time photo record: identity and detection
// provenance from the filesystem, editable fields seeded from detection
// only at medium confidence or better.
func (r *Reconciler) freshPhoto(f MediaFile, detector *detect.Detector, settings model.Settings) *model.Photo {
	det := detector.AnalyzePath(f.Path)

	photo := &model.Photo{
		ID:                     r.idgen.New(),
		FilePath:               f.Path,
		OriginalName:           f.Name,
		CurrentName:            f.Name,
		Timestamp:              f.ModTime.UnixMilli(),
		DetectedDay:            det.Day,
		DetectedBucket:         det.Bucket,
		IsPreOrganized:         det.IsPreOrganized,
		OrganizationConfidence: det.Overall,
	}
	photo.SetFingerprint(fingerprintOf(f))

	// Low-confidence detections stay provenance-only: they are recorded
	// but never auto-applied to the editable fields.
	if det.Day != nil && det.DayConfidence.AtLeast(model.ConfidenceMedium) && settings.AutoDay {
		photo.Day = model.IntPtr(*det.Day)
	}
	if det.Bucket != nil && det.BucketConfidence.AtLeast(model.ConfidenceMedium) {
		photo.Bucket = model.BucketPtr(*det.Bucket)
	}

	return photo
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// pathIsArchived reports whether any containing folder segment of the
// path is the archive folder: an exact match to the configured name, or a
// fuzzy match containing the token "archive" once non-alphanumerics are
// stripped.
func pathIsArchived(relPath, archiveFolder string) bool {
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	segments := strings.Split(normalized, "/")
	if len(segments) > 0 {
		segments = segments[:len(segments)-1] // drop the file name
	}
	for _, seg := range segments {
		if archiveFolder != "" && strings.EqualFold(seg, archiveFolder) {
			return true
		}
		stripped := nonAlnumRe.ReplaceAllString(strings.ToLower(seg), "")
		if strings.Contains(stripped, "archive") {
			return true
		}
	}
	return false
}

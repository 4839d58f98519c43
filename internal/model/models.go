package model

// Photo represents one media file under management.
// FilePath is the durable cross-session key; ID is stable only within a
// single in-memory session.
type Photo struct {
	ID           string `json:"id"`
	FilePath     string `json:"filePath"`     // relative to the project root
	OriginalName string `json:"originalName"` // name as discovered on disk
	CurrentName  string `json:"currentName"`  // may diverge after a rename

	Timestamp int64 `json:"timestamp"` // capture/modification instant, ms

	Day      *int    `json:"day,omitempty"`      // 1-indexed trip day
	Bucket   *Bucket `json:"bucket,omitempty"`   // story category
	Sequence *int    `json:"sequence,omitempty"` // position within day+bucket
	Rating   int     `json:"rating,omitempty"`   // 0-5
	Favorite bool    `json:"favorite,omitempty"`
	Archived bool    `json:"archived,omitempty"`

	// Detection provenance. Kept separate from Day/Bucket so the system
	// can tell "user changed this" from "detector changed this".
	DetectedDay            *int       `json:"detectedDay,omitempty"`
	DetectedBucket         *Bucket    `json:"detectedBucket,omitempty"`
	IsPreOrganized         bool       `json:"isPreOrganized,omitempty"`
	OrganizationConfidence Confidence `json:"organizationConfidence"`

	SubfolderOverride SubfolderOverride `json:"subfolderOverride,omitempty"`

	// Thumbnail is a session-local handle, regenerated on load.
	Thumbnail string `json:"-"`

	fingerprint Fingerprint
}

// Fingerprint identifies a physical file independently of its path:
// the same (name, mtime, size) triple reachable via two paths is treated
// as one file.
type Fingerprint struct {
	Name    string // lowercased original name
	ModTime int64  // ms
	Size    int64
}

// SetFingerprint records the scan-time fingerprint. The fingerprint is
// session-local and never serialized.
func (p *Photo) SetFingerprint(fp Fingerprint) { p.fingerprint = fp }

// GetFingerprint returns the scan-time fingerprint.
func (p *Photo) GetFingerprint() Fingerprint { return p.fingerprint }

// IsVideo reports whether the photo's current name has a video extension.
func (p *Photo) IsVideo() bool {
	name := p.CurrentName
	if name == "" {
		name = p.OriginalName
	}
	return IsVideoName(name)
}

// Settings holds the folder-role names and toggles for a project.
type Settings struct {
	DaysFolder      string `json:"daysFolder"`
	ArchiveFolder   string `json:"archiveFolder"`
	FavoritesFolder string `json:"favoritesFolder"`
	MetadataFolder  string `json:"metadataFolder"`
	AutoDay         bool   `json:"autoDay"`
}

// DefaultSettings returns the folder-role names used for new projects.
func DefaultSettings() Settings {
	return Settings{
		DaysFolder:      "Days",
		ArchiveFolder:   "Archive",
		FavoritesFolder: "Favorites",
		MetadataFolder:  "_meta",
		AutoDay:         true,
	}
}

// ProjectState is the persisted unit of a project. The order of Photos is
// not semantically significant; display order is re-derived on every call
// to the ordering engine.
type ProjectState struct {
	ProjectID     string          `json:"projectId"`
	Name          string          `json:"name"`
	Photos        []*Photo        `json:"photos"`
	Settings      Settings        `json:"settings"`
	DayLabels     map[int]string  `json:"dayLabels,omitempty"`
	DayContainers map[string]bool `json:"dayContainers,omitempty"`
}

// CachedEdit is the durable slice of a Photo carried across sessions,
// keyed by FilePath. Everything else is rebuilt from a fresh scan.
type CachedEdit struct {
	FilePath          string            `json:"filePath"`
	Day               *int              `json:"day,omitempty"`
	Bucket            *Bucket           `json:"bucket,omitempty"`
	Sequence          *int              `json:"sequence,omitempty"`
	Rating            int               `json:"rating,omitempty"`
	Favorite          bool              `json:"favorite,omitempty"`
	Archived          bool              `json:"archived,omitempty"`
	CurrentName       string            `json:"currentName,omitempty"`
	SubfolderOverride SubfolderOverride `json:"subfolderOverride,omitempty"`
}

// EditOf extracts the durable edit fields of a photo.
func EditOf(p *Photo) CachedEdit {
	return CachedEdit{
		FilePath:          p.FilePath,
		Day:               p.Day,
		Bucket:            p.Bucket,
		Sequence:          p.Sequence,
		Rating:            p.Rating,
		Favorite:          p.Favorite,
		Archived:          p.Archived,
		CurrentName:       p.CurrentName,
		SubfolderOverride: p.SubfolderOverride,
	}
}

// ApplyEdit overlays the durable edit fields onto a freshly scanned photo.
// Identity and detection provenance are left untouched: freshness wins for
// identity/media, cache wins for user intent.
func (p *Photo) ApplyEdit(e CachedEdit) {
	p.Day = e.Day
	p.Bucket = e.Bucket
	p.Sequence = e.Sequence
	p.Rating = e.Rating
	p.Favorite = e.Favorite
	p.Archived = e.Archived
	if e.CurrentName != "" {
		p.CurrentName = e.CurrentName
	}
	p.SubfolderOverride = e.SubfolderOverride
}

// FolderMapping is the detector's onboarding-time description of one
// top-level folder. It is used for the project-creation preview only and
// is not part of ProjectState.
type FolderMapping struct {
	FolderName    string
	Day           *int
	Confidence    Confidence
	PatternID     string
	SuggestedName string
	PhotoCount    int
	Buckets       []BucketMapping
}

// BucketMapping describes a detected bucket subfolder within a day folder.
type BucketMapping struct {
	FolderName string
	Bucket     Bucket
	Confidence Confidence
}

// IntPtr returns a pointer to v. Convenience for the nullable model fields.
func IntPtr(v int) *int { return &v }

// BucketPtr returns a pointer to b.
func BucketPtr(b Bucket) *Bucket { return &b }

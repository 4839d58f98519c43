package detect

import (
	"path"
	"strings"
	"time"

	"tripsort/internal/model"
)

// Detector carries the per-project context a path analysis needs: the
// folder-role names, the project's own name (excluded from candidacy),
// and an optional trip start date for ISO-date folders.
type Detector struct {
	Settings    model.Settings
	ProjectName string
	TripStart   *time.Time
}

// PathDetection is the detector's verdict for one relative file path.
type PathDetection struct {
	Day              *int
	DayConfidence    model.Confidence
	Bucket           *model.Bucket
	BucketConfidence model.Confidence
	Overall          model.Confidence
	IsPreOrganized   bool
}

// AnalyzePath infers day and bucket from a file's relative path by walking
// its containing folder segments.
//
// The canonical ingested layout is daysFolder/<day>/<bucket>/file: when a
// segment matches the configured days-folder role name, the next segment
// is day-extracted and the one after that bucket-extracted at full
// confidence. Any other layout falls back to scanning all segments
// left-to-right for the first day-extractable one, bucket-extracting the
// segment right after it, with confidence downgraded one tier because the
// containing structure was not confirmed.
func (d *Detector) AnalyzePath(relPath string) PathDetection {
	segments := containingFolders(relPath)

	var det PathDetection
	for i, seg := range segments {
		if !strings.EqualFold(seg, d.Settings.DaysFolder) {
			continue
		}
		if i+1 < len(segments) {
			if day, ok := d.detectDaySegment(segments[i+1]); ok {
				det.Day = model.IntPtr(day.Day)
				det.DayConfidence = day.Confidence
			}
		}
		if i+2 < len(segments) {
			if b, ok := DetectBucket(segments[i+2]); ok {
				det.Bucket = model.BucketPtr(b.Bucket)
				det.BucketConfidence = b.Confidence
			}
		}
		det.finish()
		return det
	}

	// Fallback: unconfirmed structure, scan for the first day-like segment.
	for i, seg := range segments {
		day, ok := d.detectDaySegment(seg)
		if !ok {
			continue
		}
		det.Day = model.IntPtr(day.Day)
		det.DayConfidence = day.Confidence.Downgrade()
		if i+1 < len(segments) {
			if b, ok := DetectBucket(segments[i+1]); ok {
				det.Bucket = model.BucketPtr(b.Bucket)
				det.BucketConfidence = b.Confidence.Downgrade()
			}
		}
		break
	}
	det.finish()
	return det
}

func (d *Detector) detectDaySegment(seg string) (DayDetection, bool) {
	if ShouldSkipFolder(seg, d.ProjectName) {
		return DayDetection{}, false
	}
	return DetectDay(seg, d.TripStart)
}

// finish derives the overall confidence and pre-organized flag.
//
// High requires both day and bucket at high; medium requires both present
// at medium or better; a pair with a low side is low. A day found without
// a bucket carries the day confidence alone; no day means no confidence.
func (det *PathDetection) finish() {
	det.IsPreOrganized = det.Day != nil && det.Bucket != nil

	switch {
	case det.Day == nil:
		det.Overall = model.ConfidenceNone
	case det.Bucket == nil:
		det.Overall = det.DayConfidence
	case det.DayConfidence == model.ConfidenceHigh && det.BucketConfidence == model.ConfidenceHigh:
		det.Overall = model.ConfidenceHigh
	case det.DayConfidence.AtLeast(model.ConfidenceMedium) && det.BucketConfidence.AtLeast(model.ConfidenceMedium):
		det.Overall = model.ConfidenceMedium
	default:
		det.Overall = model.ConfidenceLow
	}
}

// containingFolders returns the folder segments of a relative file path,
// excluding the file name itself. Separators are normalized to slashes.
func containingFolders(relPath string) []string {
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	dir := path.Dir(normalized)
	if dir == "." || dir == "/" || dir == "" {
		return nil
	}
	var segments []string
	for _, seg := range strings.Split(dir, "/") {
		if seg != "" && seg != "." {
			segments = append(segments, seg)
		}
	}
	return segments
}

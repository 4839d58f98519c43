package detect

import (
	"sort"

	"tripsort/internal/model"
)

// FolderEntry is the raw shape of one top-level folder handed to the
// onboarding scan: its name, how many media files it directly holds, and
// the names of its child folders.
type FolderEntry struct {
	Name       string
	PhotoCount int
	Subfolders []string
}

// MapFolders runs the detector over a folder listing and produces the
// onboarding preview: one FolderMapping per candidate folder, detected
// day folders first (ascending by day), undetected folders after.
// Skip-pattern folders and a folder named after the project are excluded
// entirely.
func (d *Detector) MapFolders(entries []FolderEntry) []model.FolderMapping {
	var mappings []model.FolderMapping

	for _, entry := range entries {
		if ShouldSkipFolder(entry.Name, d.ProjectName) {
			continue
		}

		mapping := model.FolderMapping{
			FolderName: entry.Name,
			PhotoCount: entry.PhotoCount,
		}

		if day, ok := DetectDay(entry.Name, d.TripStart); ok {
			mapping.Day = model.IntPtr(day.Day)
			mapping.Confidence = day.Confidence
			mapping.PatternID = day.PatternID
			mapping.SuggestedName = SuggestDayName(day, entry.Name)
			mapping.Buckets = d.mapBuckets(entry.Subfolders)
		}

		mappings = append(mappings, mapping)
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i].Day, mappings[j].Day
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})

	return mappings
}

func (d *Detector) mapBuckets(subfolders []string) []model.BucketMapping {
	var buckets []model.BucketMapping
	for _, name := range subfolders {
		if ShouldSkipFolder(name, d.ProjectName) {
			continue
		}
		if b, ok := DetectBucket(name); ok {
			buckets = append(buckets, model.BucketMapping{
				FolderName: name,
				Bucket:     b.Bucket,
				Confidence: b.Confidence,
			})
		}
	}
	return buckets
}

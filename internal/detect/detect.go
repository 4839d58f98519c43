// Package detect infers trip-day numbers and MECE bucket codes from folder
// names and relative paths. Everything here is pure: no I/O, no state, and
// absence of a match is the designed failure signal rather than an error.
package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tripsort/internal/model"
)

// Pattern ids reported in FolderMapping records.
const (
	PatternDayPrefix     = "day-prefix"
	PatternISODate       = "iso-date"
	PatternNumericPrefix = "numeric-prefix"
)

// DayDetection is the result of extracting a day number from a folder name.
type DayDetection struct {
	Day        int
	Confidence model.Confidence
	PatternID  string
}

// BucketDetection is the result of extracting a bucket from a folder name.
type BucketDetection struct {
	Bucket     model.Bucket
	Confidence model.Confidence
}

var (
	// "Day 7", "D07", "day_07x": the word "day" or letter "d", optional
	// separator, 1-2 digits, then a non-digit or end of string.
	dayPrefixRe = regexp.MustCompile(`(?i)^d(?:ay)?[\s_-]?(\d{1,2})(\D|$)`)

	// "2024-03-15" or "2024_03_15" anywhere in the name.
	isoDateRe = regexp.MustCompile(`(\d{4})[-_](\d{2})[-_](\d{2})`)

	// "7_Something": 1-2 leading digits followed by a separator. Ambiguous
	// with legacy bucket codes, hence only medium confidence.
	numericPrefixRe = regexp.MustCompile(`^(\d{1,2})[ _-]`)

	// Separator between a bucket letter and its label. Desktop OSes
	// silently autocorrect hyphens, so en dash, em dash, and the minus
	// sign are all tolerated.
	bucketSepClass = `[-\x{2013}\x{2014}\x{2212}_\s]`

	bucketLetterRe = regexp.MustCompile(`(?i)^([a-emx])` + bucketSepClass + `+(.+)$`)
)

// DetectDay extracts a day number from a folder name, trying patterns in
// strict priority order. tripStart anchors ISO-date folders to day 1; when
// it is nil an ISO date still yields day 1, at medium confidence.
func DetectDay(name string, tripStart *time.Time) (DayDetection, bool) {
	if m := dayPrefixRe.FindStringSubmatch(name); m != nil {
		day, _ := strconv.Atoi(m[1])
		if day >= 1 && day <= 31 {
			return DayDetection{Day: day, Confidence: model.ConfidenceHigh, PatternID: PatternDayPrefix}, true
		}
	}

	if m := isoDateRe.FindStringSubmatch(name); m != nil {
		if d, ok := dayFromISODate(m, tripStart); ok {
			return d, true
		}
	}

	if m := numericPrefixRe.FindStringSubmatch(name); m != nil {
		day, _ := strconv.Atoi(m[1])
		if day >= 1 && day <= 31 {
			return DayDetection{Day: day, Confidence: model.ConfidenceMedium, PatternID: PatternNumericPrefix}, true
		}
	}

	return DayDetection{}, false
}

func dayFromISODate(m []string, tripStart *time.Time) (DayDetection, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	dom, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || dom < 1 || dom > 31 {
		return DayDetection{}, false
	}
	date := time.Date(year, time.Month(month), dom, 0, 0, 0, 0, time.UTC)

	if tripStart == nil {
		// No trip start supplied: the found date anchors itself as day 1.
		return DayDetection{Day: 1, Confidence: model.ConfidenceMedium, PatternID: PatternISODate}, true
	}

	start := time.Date(tripStart.Year(), tripStart.Month(), tripStart.Day(), 0, 0, 0, 0, time.UTC)
	day := int(date.Sub(start).Hours()/24) + 1
	if day < 1 {
		return DayDetection{}, false
	}
	return DayDetection{Day: day, Confidence: model.ConfidenceHigh, PatternID: PatternISODate}, true
}

// DetectBucket extracts a bucket code from a folder name, trying patterns
// in priority order: letter + canonical label (high), bare letter (high),
// letter + arbitrary suffix (medium), legacy numeric code (low).
func DetectBucket(name string) (BucketDetection, bool) {
	trimmed := strings.TrimSpace(name)

	if m := bucketLetterRe.FindStringSubmatch(trimmed); m != nil {
		bucket, ok := model.ParseBucket(m[1])
		if ok {
			if strings.EqualFold(m[2], bucket.Label()) {
				return BucketDetection{Bucket: bucket, Confidence: model.ConfidenceHigh}, true
			}
			return BucketDetection{Bucket: bucket, Confidence: model.ConfidenceMedium}, true
		}
	}

	if bucket, ok := model.ParseBucket(trimmed); ok {
		return BucketDetection{Bucket: bucket, Confidence: model.ConfidenceHigh}, true
	}

	if bucket, ok := model.LegacyBucketCodes[trimmed]; ok {
		return BucketDetection{Bucket: bucket, Confidence: model.ConfidenceLow}, true
	}

	return BucketDetection{}, false
}

// skipFolderNames are never day or bucket candidates.
var skipFolderNames = map[string]bool{
	"unsorted":      true,
	"inbox":         true,
	"miscellaneous": true,
	"_meta":         true,
	"metadata":      true,
}

// ShouldSkipFolder reports whether a folder is excluded from detection:
// hidden folders, known junk names, and a folder named after the project
// itself (which would otherwise create a self-reference loop).
func ShouldSkipFolder(name, projectName string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if skipFolderNames[strings.ToLower(name)] {
		return true
	}
	return projectName != "" && strings.EqualFold(name, projectName)
}

// SuggestDayName builds the display name proposed for a detected day
// folder during onboarding.
func SuggestDayName(d DayDetection, folderName string) string {
	if d.PatternID == PatternDayPrefix && strings.EqualFold(folderName, fmt.Sprintf("day %d", d.Day)) {
		return folderName
	}
	return fmt.Sprintf("Day %d", d.Day)
}

package model

import (
	"path/filepath"
	"strings"
)

// Bucket is a single-letter MECE story category. Six narrative buckets
// plus the reserved archive code X.
type Bucket string

const (
	BucketEstablishing Bucket = "A"
	BucketPeople       Bucket = "B"
	BucketDetails      Bucket = "C"
	BucketAction       Bucket = "D"
	BucketEvening      Bucket = "E"
	BucketMood         Bucket = "M"
	BucketArchive      Bucket = "X"
)

// bucketLabels is the canonical bucket→label table. The detector's
// category names are generated from this table so the two never drift.
var bucketLabels = map[Bucket]string{
	BucketEstablishing: "Establishing",
	BucketPeople:       "People",
	BucketDetails:      "Details",
	BucketAction:       "Action",
	BucketEvening:      "Evening",
	BucketMood:         "Mood",
	BucketArchive:      "Archive",
}

// CanonicalBucketOrder is the display order: the six story buckets, then
// the archive bucket. "No bucket" sorts after all of these.
var CanonicalBucketOrder = []Bucket{
	BucketEstablishing,
	BucketPeople,
	BucketDetails,
	BucketAction,
	BucketEvening,
	BucketMood,
	BucketArchive,
}

// LegacyBucketCodes maps the legacy numeric folder codes "01".."06" to the
// six non-archive buckets.
var LegacyBucketCodes = map[string]Bucket{
	"01": BucketEstablishing,
	"02": BucketPeople,
	"03": BucketDetails,
	"04": BucketAction,
	"05": BucketEvening,
	"06": BucketMood,
}

// Label returns the canonical display label for the bucket, or "" for an
// unknown letter.
func (b Bucket) Label() string { return bucketLabels[b] }

// Valid reports whether b is one of the known bucket letters.
func (b Bucket) Valid() bool {
	_, ok := bucketLabels[b]
	return ok
}

// IsArchive reports whether b is the reserved archive code.
func (b Bucket) IsArchive() bool { return b == BucketArchive }

// ParseBucket normalizes a single letter to a Bucket, case-insensitively.
// Returns false for anything that is not exactly one known letter.
func ParseBucket(s string) (Bucket, bool) {
	if len(s) != 1 {
		return "", false
	}
	b := Bucket(strings.ToUpper(s))
	return b, b.Valid()
}

// CanonicalPosition returns the bucket's index in the canonical order.
// Unknown buckets sort after all known ones.
func (b Bucket) CanonicalPosition() int {
	for i, known := range CanonicalBucketOrder {
		if b == known {
			return i
		}
	}
	return len(CanonicalBucketOrder)
}

// Supported media extensions, lowercase, without the leading dot.
var photoExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "heic": true, "webp": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "mov": true, "webm": true, "avi": true, "mkv": true,
}

func extOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsMediaName reports whether the file name has a supported photo or
// video extension.
func IsMediaName(name string) bool {
	ext := extOf(name)
	return photoExtensions[ext] || videoExtensions[ext]
}

// IsVideoName reports whether the file name has a supported video extension.
func IsVideoName(name string) bool { return videoExtensions[extOf(name)] }

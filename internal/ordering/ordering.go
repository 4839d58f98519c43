// Package ordering defines the one canonical display order over any set of
// photos, with optional grouping and an index map for O(1) navigation.
// All functions are pure: every call takes its full input and returns a new
// result, never mutating the input slice.
package ordering

import (
	"sort"
	"strconv"
	"strings"

	"tripsort/internal/model"
)

// GroupMode selects how a built result is grouped.
type GroupMode int

const (
	GroupNone GroupMode = iota
	GroupBySubfolder
	GroupByBucket
	GroupByDay
)

// DayRootLabel is the sentinel subfolder group that always sorts first.
const DayRootLabel = "Day Root"

// SubfolderFunc derives the subfolder group label for a photo. Injected by
// the caller so the engine stays agnostic of path-role configuration.
type SubfolderFunc func(*model.Photo) string

// Options controls one Build call.
type Options struct {
	GroupBy        GroupMode
	SeparateVideos bool          // stills before videos within each group
	Subfolder      SubfolderFunc // required for GroupBySubfolder
}

// Group is one ordered slice of the display sequence.
type Group struct {
	Label      string
	Photos     []*model.Photo
	StartIndex int
}

// Result is a resolved display order: the flat sequence, a photo-id index
// map, and the groups when grouping was requested. Results are rebuilt on
// every call and never mutated in place.
type Result struct {
	Photos   []*model.Photo
	IndexMap map[string]int
	Groups   []Group
}

// Less is the base comparator: ascending timestamp, ties broken by file
// path (falling back to original name), then original name, then id. The
// chain guarantees a strict total order so no ties ever reach the UI.
func Less(a, b *model.Photo) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	if c := strings.Compare(pathKey(a), pathKey(b)); c != 0 {
		return c < 0
	}
	if c := strings.Compare(a.OriginalName, b.OriginalName); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

func pathKey(p *model.Photo) string {
	if p.FilePath != "" {
		return p.FilePath
	}
	return p.OriginalName
}

// Build produces the canonical order for the given photos under the given
// options. The input slice is not modified.
func Build(photos []*model.Photo, opts Options) *Result {
	sorted := make([]*model.Photo, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })

	var result *Result
	switch opts.GroupBy {
	case GroupBySubfolder:
		result = groupBy(sorted, subfolderLabel(opts.Subfolder), lessSubfolderLabels)
	case GroupByBucket:
		result = groupBy(sorted, bucketLabel, lessBucketLabels)
	case GroupByDay:
		result = groupBy(sorted, dayLabel, lessDayLabels)
	default:
		result = &Result{Photos: sorted}
	}

	if opts.SeparateVideos {
		separateVideos(result)
	}

	result.IndexMap = make(map[string]int, len(result.Photos))
	for i, p := range result.Photos {
		result.IndexMap[p.ID] = i
	}
	return result
}

// groupBy assigns each photo a label, orders the labels, and flattens the
// groups back into one sequence with start indexes.
func groupBy(sorted []*model.Photo, label func(*model.Photo) string, lessLabel func(a, b string) bool) *Result {
	byLabel := make(map[string][]*model.Photo)
	var labels []string
	for _, p := range sorted {
		l := label(p)
		if _, seen := byLabel[l]; !seen {
			labels = append(labels, l)
		}
		byLabel[l] = append(byLabel[l], p)
	}
	sort.SliceStable(labels, func(i, j int) bool { return lessLabel(labels[i], labels[j]) })

	result := &Result{Photos: make([]*model.Photo, 0, len(sorted))}
	for _, l := range labels {
		result.Groups = append(result.Groups, Group{
			Label:      l,
			Photos:     byLabel[l],
			StartIndex: len(result.Photos),
		})
		result.Photos = append(result.Photos, byLabel[l]...)
	}
	return result
}

// separateVideos reorders each group (or the whole sequence when ungrouped)
// so stills come before videos, each sub-list keeping the base order.
// Group membership never changes, only position within the group.
func separateVideos(result *Result) {
	if len(result.Groups) == 0 {
		result.Photos = stillsFirst(result.Photos)
		return
	}

	result.Photos = result.Photos[:0]
	for i := range result.Groups {
		g := &result.Groups[i]
		g.Photos = stillsFirst(g.Photos)
		g.StartIndex = len(result.Photos)
		result.Photos = append(result.Photos, g.Photos...)
	}
}

func stillsFirst(photos []*model.Photo) []*model.Photo {
	ordered := make([]*model.Photo, 0, len(photos))
	for _, p := range photos {
		if !p.IsVideo() {
			ordered = append(ordered, p)
		}
	}
	for _, p := range photos {
		if p.IsVideo() {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// Label derivation and group-order rules per mode.

const (
	noBucketLabel = "No Bucket"
	noDayLabel    = "No Day"
)

func subfolderLabel(fn SubfolderFunc) func(*model.Photo) string {
	return func(p *model.Photo) string {
		if fn == nil {
			return DayRootLabel
		}
		if l := fn(p); l != "" {
			return l
		}
		return DayRootLabel
	}
}

// lessSubfolderLabels sorts "Day Root" first, everything else lexicographic.
func lessSubfolderLabels(a, b string) bool {
	if a == DayRootLabel || b == DayRootLabel {
		return a == DayRootLabel && b != DayRootLabel
	}
	return a < b
}

func bucketLabel(p *model.Photo) string {
	if p.Bucket == nil {
		return noBucketLabel
	}
	return p.Bucket.Label()
}

// lessBucketLabels sorts the six story buckets in canonical order, then
// archive, then "No Bucket" last.
func lessBucketLabels(a, b string) bool {
	return bucketLabelRank(a) < bucketLabelRank(b)
}

func bucketLabelRank(label string) int {
	for i, b := range model.CanonicalBucketOrder {
		if b.Label() == label {
			return i
		}
	}
	return len(model.CanonicalBucketOrder)
}

func dayLabel(p *model.Photo) string {
	if p.Day == nil {
		return noDayLabel
	}
	return "Day " + strconv.Itoa(*p.Day)
}

// lessDayLabels sorts by ascending day number with "No Day" last.
func lessDayLabels(a, b string) bool {
	return dayLabelRank(a) < dayLabelRank(b)
}

func dayLabelRank(label string) int {
	if label == noDayLabel {
		return 1 << 30
	}
	n, _ := strconv.Atoi(strings.TrimPrefix(label, "Day "))
	return n
}

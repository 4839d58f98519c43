package ordering

import "tripsort/internal/model"

// Direction of a navigation step.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Filter decides whether a photo is a valid navigation target. A nil
// filter accepts everything.
type Filter func(*model.Photo) bool

// Navigate steps from the photo with the given id in the given direction
// within a built result. With a filter, it keeps stepping until a photo
// satisfies the predicate. Returns false when the current id is unknown or
// the sequence boundary is reached; there is no wraparound.
//
// "Next unassigned", grid navigation, and fullscreen arrow keys are all
// this one primitive with different filters.
func Navigate(result *Result, currentID string, dir Direction, filter Filter) (*model.Photo, bool) {
	idx, ok := result.IndexMap[currentID]
	if !ok {
		return nil, false
	}

	step := 1
	if dir == Prev {
		step = -1
	}

	for i := idx + step; i >= 0 && i < len(result.Photos); i += step {
		p := result.Photos[i]
		if filter == nil || filter(p) {
			return p, true
		}
	}
	return nil, false
}

// Unassigned is the filter behind "next unassigned": photos with neither a
// day nor a bucket set and not archived.
func Unassigned(p *model.Photo) bool {
	return p.Day == nil && p.Bucket == nil && !p.Archived
}

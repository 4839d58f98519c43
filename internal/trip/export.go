package trip

import (
	"path"
	"strconv"

	"tripsort/internal/model"
)

// Move is one planned file relocation, with paths relative to the project
// root. The actual shell-script templating is external; the plan
// computation lives here so the script generator can build a minimal diff
// instead of re-exporting every file.
type Move struct {
	From string
	To   string
}

// ShouldMove reports whether a photo needs to be physically relocated:
// it was renamed, the user (rather than the detector) set its day or
// bucket, or it is archived but not yet physically under the archive
// folder.
func ShouldMove(p *model.Photo, settings model.Settings) bool {
	if p.CurrentName != "" && p.CurrentName != p.OriginalName {
		return true
	}
	if p.Archived {
		return !pathIsArchived(p.FilePath, settings.ArchiveFolder)
	}
	if userAssigned(p.Day, p.DetectedDay) {
		return true
	}
	if userAssignedBucket(p.Bucket, p.DetectedBucket) {
		return true
	}
	return false
}

func userAssigned(value, detected *int) bool {
	if value == nil {
		return false
	}
	return detected == nil || *value != *detected
}

func userAssignedBucket(value, detected *model.Bucket) bool {
	if value == nil {
		return false
	}
	return detected == nil || *value != *detected
}

// TargetPath resolves where a photo belongs in the canonical ingested
// layout: daysFolder/<day label>/<subfolder>/<current name>. Archived
// photos go to the archive folder. Photos with no day assignment have no
// target and return false.
func TargetPath(p *model.Photo, state *model.ProjectState) (string, bool) {
	name := p.CurrentName
	if name == "" {
		name = p.OriginalName
	}

	if p.Archived {
		return path.Join(state.Settings.ArchiveFolder, name), true
	}
	if p.Day == nil {
		return "", false
	}

	dayFolder := state.DayLabels[*p.Day]
	if dayFolder == "" {
		dayFolder = "Day " + strconv.Itoa(*p.Day)
	}

	sub := subfolderFor(p)
	if sub == "" {
		return path.Join(state.Settings.DaysFolder, dayFolder, name), true
	}
	return path.Join(state.Settings.DaysFolder, dayFolder, sub, name), true
}

// subfolderFor applies the three-state override: a forced label wins, a
// forced day-root suppresses any subfolder, and the default derives from
// the bucket.
func subfolderFor(p *model.Photo) string {
	if label, ok := p.SubfolderOverride.Label(); ok {
		return label
	}
	if p.SubfolderOverride.IsDayRoot() {
		return ""
	}
	if p.Bucket != nil && !p.Bucket.IsArchive() {
		return string(*p.Bucket) + "_" + p.Bucket.Label()
	}
	return ""
}

// BuildMovePlan computes the minimal move list for a project: one entry
// per photo that should move and has a resolvable target different from
// its current location.
func BuildMovePlan(state *model.ProjectState) []Move {
	var plan []Move
	for _, p := range state.Photos {
		if !ShouldMove(p, state.Settings) {
			continue
		}
		target, ok := TargetPath(p, state)
		if !ok || target == p.FilePath {
			continue
		}
		plan = append(plan, Move{From: p.FilePath, To: target})
	}
	return plan
}

// UndoPlan reverses a move plan, last move first.
func UndoPlan(plan []Move) []Move {
	undo := make([]Move, 0, len(plan))
	for i := len(plan) - 1; i >= 0; i-- {
		undo = append(undo, Move{From: plan[i].To, To: plan[i].From})
	}
	return undo
}

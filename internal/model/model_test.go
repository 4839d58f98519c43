package model

import (
	"encoding/json"
	"testing"
)

func TestConfidenceOrdering(t *testing.T) {
	t.Parallel()

	if !ConfidenceHigh.AtLeast(ConfidenceMedium) {
		t.Error("high should be at least medium")
	}
	if ConfidenceLow.AtLeast(ConfidenceMedium) {
		t.Error("low should not be at least medium")
	}
	if !ConfidenceNone.AtLeast(ConfidenceNone) {
		t.Error("none should be at least none")
	}
}

func TestConfidenceDowngrade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want Confidence
	}{
		{ConfidenceHigh, ConfidenceMedium},
		{ConfidenceMedium, ConfidenceLow},
		{ConfidenceLow, ConfidenceLow},
		{ConfidenceNone, ConfidenceNone},
	}
	for _, c := range cases {
		if got := c.in.Downgrade(); got != c.want {
			t.Errorf("Downgrade(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestConfidenceJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ConfidenceMedium)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"medium"` {
		t.Errorf("got %s, want %q", data, "medium")
	}

	var c Confidence
	if err := json.Unmarshal([]byte(`"high"`), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c != ConfidenceHigh {
		t.Errorf("got %s, want high", c)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &c); err == nil {
		t.Error("expected error for unknown confidence")
	}
}

func TestSubfolderOverrideStates(t *testing.T) {
	t.Parallel()

	if !DeriveSubfolder().IsDerive() {
		t.Error("zero override should be derive")
	}
	if !ForceDayRoot().IsDayRoot() {
		t.Error("ForceDayRoot should report day root")
	}
	label, ok := ForceSubfolder("Morning").Label()
	if !ok || label != "Morning" {
		t.Errorf("Label() = %q, %v; want Morning, true", label, ok)
	}
	if _, ok := ForceDayRoot().Label(); ok {
		t.Error("day root should not carry a label")
	}
}

func TestSubfolderOverrideJSON(t *testing.T) {
	t.Parallel()

	for _, o := range []SubfolderOverride{
		DeriveSubfolder(),
		ForceDayRoot(),
		ForceSubfolder("Temple Visit"),
	} {
		data, err := json.Marshal(o)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", o, err)
		}
		var back SubfolderOverride
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if back != o {
			t.Errorf("round trip: got %s, want %s", back, o)
		}
	}

	// A missing mode decodes as derive.
	var o SubfolderOverride
	if err := json.Unmarshal([]byte(`{}`), &o); err != nil {
		t.Fatalf("Unmarshal({}) error = %v", err)
	}
	if !o.IsDerive() {
		t.Errorf("empty object decoded as %s, want derive", o)
	}
}

func TestParseBucket(t *testing.T) {
	t.Parallel()

	b, ok := ParseBucket("a")
	if !ok || b != BucketEstablishing {
		t.Errorf("ParseBucket(a) = %v, %v", b, ok)
	}
	if _, ok := ParseBucket("Z"); ok {
		t.Error("Z should not parse")
	}
	if _, ok := ParseBucket("AB"); ok {
		t.Error("two letters should not parse")
	}
}

func TestBucketCanonicalPosition(t *testing.T) {
	t.Parallel()

	if BucketEstablishing.CanonicalPosition() != 0 {
		t.Error("A should be first")
	}
	if BucketArchive.CanonicalPosition() != 6 {
		t.Error("X should be last of the known buckets")
	}
	if Bucket("Q").CanonicalPosition() != len(CanonicalBucketOrder) {
		t.Error("unknown bucket should sort after known ones")
	}
}

func TestMediaNames(t *testing.T) {
	t.Parallel()

	if !IsMediaName("IMG_0001.JPG") {
		t.Error("jpg should be media")
	}
	if !IsMediaName("clip.mov") {
		t.Error("mov should be media")
	}
	if IsMediaName("notes.txt") {
		t.Error("txt should not be media")
	}
	if !IsVideoName("clip.MP4") {
		t.Error("mp4 should be video")
	}
	if IsVideoName("photo.heic") {
		t.Error("heic should not be video")
	}
}

func TestEditOfAndApplyEdit(t *testing.T) {
	t.Parallel()

	p := &Photo{
		ID:           "p1",
		FilePath:     "Day 1/IMG_01.jpg",
		OriginalName: "IMG_01.jpg",
		CurrentName:  "IMG_01.jpg",
		DetectedDay:  IntPtr(1),
	}
	edit := CachedEdit{
		FilePath:    p.FilePath,
		Day:         IntPtr(3),
		Bucket:      BucketPtr(BucketPeople),
		Favorite:    true,
		Rating:      4,
		CurrentName: "renamed.jpg",
	}
	p.ApplyEdit(edit)

	if p.Day == nil || *p.Day != 3 {
		t.Error("day not applied")
	}
	if p.Bucket == nil || *p.Bucket != BucketPeople {
		t.Error("bucket not applied")
	}
	if !p.Favorite || p.Rating != 4 {
		t.Error("favorite/rating not applied")
	}
	if p.CurrentName != "renamed.jpg" {
		t.Error("rename not applied")
	}
	if p.DetectedDay == nil || *p.DetectedDay != 1 {
		t.Error("detection provenance must not be touched by an edit")
	}

	round := EditOf(p)
	if round.CurrentName != "renamed.jpg" || round.Rating != 4 {
		t.Error("EditOf should carry the applied fields back out")
	}
}

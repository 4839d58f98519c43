package trip_test

import (
	"errors"
	"testing"
	"time"

	"tripsort/internal/model"
	"tripsort/internal/ordering"
	"tripsort/internal/testutil"
	"tripsort/internal/trip"
)

func newReconciler(fsmgr *testutil.MockFilesystemManager) *trip.Reconciler {
	return trip.NewReconciler(fsmgr, trip.NewNopLogger(), &testutil.SequentialIDGenerator{})
}

func baseInput(root string) trip.ReconcileInput {
	return trip.ReconcileInput{
		RootPath:    root,
		ProjectName: "Japan 2024",
		Settings:    model.DefaultSettings(),
	}
}

func at(ms int64) time.Time { return time.UnixMilli(ms) }

func findByPath(t *testing.T, photos []*model.Photo, path string) *model.Photo {
	t.Helper()
	for _, p := range photos {
		if p.FilePath == path {
			return p
		}
	}
	t.Fatalf("no photo with path %q", path)
	return nil
}

func TestReconcileDetection(t *testing.T) {
	t.Parallel()

	t.Run("high confidence detection seeds editable fields", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "Days/Day 3/A_Establishing/IMG_01.jpg", at(1000), []byte("x"))

		photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		p := photos[0]
		if p.Day == nil || *p.Day != 3 {
			t.Errorf("day = %v, want 3", p.Day)
		}
		if p.Bucket == nil || *p.Bucket != model.BucketEstablishing {
			t.Errorf("bucket = %v, want A", p.Bucket)
		}
		if !p.IsPreOrganized {
			t.Error("expected pre-organized")
		}
		if p.OrganizationConfidence != model.ConfidenceHigh {
			t.Errorf("confidence = %s, want high", p.OrganizationConfidence)
		}
	})

	t.Run("low confidence detection is provenance only", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		// Legacy numeric bucket code detects at low confidence.
		fsmgr.AddMediaFile("/trip", "Days/Day 3/01/IMG_01.jpg", at(1000), []byte("x"))

		photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		p := photos[0]
		if p.Bucket != nil {
			t.Errorf("bucket = %v, want nil (low confidence not auto-applied)", p.Bucket)
		}
		if p.DetectedBucket == nil || *p.DetectedBucket != model.BucketEstablishing {
			t.Errorf("detectedBucket = %v, want A recorded for provenance", p.DetectedBucket)
		}
	})

	t.Run("autoDay off records detection without applying it", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "Days/Day 3/IMG_01.jpg", at(1000), []byte("x"))

		in := baseInput("/trip")
		in.Settings.AutoDay = false
		photos, err := newReconciler(fsmgr).Reconcile(in)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		p := photos[0]
		if p.Day != nil {
			t.Errorf("day = %v, want nil with autoDay off", p.Day)
		}
		if p.DetectedDay == nil || *p.DetectedDay != 3 {
			t.Errorf("detectedDay = %v, want 3", p.DetectedDay)
		}
	})

	t.Run("timestamps come from the scan in milliseconds", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "IMG_01.jpg", at(123456), []byte("x"))

		photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if photos[0].Timestamp != 123456 {
			t.Errorf("timestamp = %d, want 123456", photos[0].Timestamp)
		}
	})
}

func TestReconcileMerge(t *testing.T) {
	t.Parallel()

	t.Run("cache wins for user intent", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "Days/Day 1/A_Establishing/IMG_01.jpg", at(1000), []byte("x"))

		in := baseInput("/trip")
		in.CachedEdits = []model.CachedEdit{{
			FilePath: "Days/Day 1/A_Establishing/IMG_01.jpg",
			Bucket:   model.BucketPtr(model.BucketPeople),
			Favorite: true,
			Rating:   5,
		}}

		photos, err := newReconciler(fsmgr).Reconcile(in)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		p := photos[0]
		if p.Bucket == nil || *p.Bucket != model.BucketPeople {
			t.Errorf("bucket = %v, want B (cache beats detector)", p.Bucket)
		}
		if !p.Favorite || p.Rating != 5 {
			t.Error("favorite/rating from cache not preserved")
		}
		// Provenance still reflects the fresh detection.
		if p.DetectedBucket == nil || *p.DetectedBucket != model.BucketEstablishing {
			t.Errorf("detectedBucket = %v, want A from fresh scan", p.DetectedBucket)
		}
	})

	t.Run("stale cache entries are dropped silently", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "IMG_01.jpg", at(1000), []byte("x"))

		in := baseInput("/trip")
		in.CachedEdits = []model.CachedEdit{{FilePath: "gone/IMG_99.jpg", Favorite: true}}

		photos, err := newReconciler(fsmgr).Reconcile(in)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if len(photos) != 1 {
			t.Fatalf("got %d photos, want 1", len(photos))
		}
		if photos[0].Favorite {
			t.Error("stale edit must not leak onto another photo")
		}
	})

	t.Run("photo without cache entry keeps fresh detection", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "Days/Day 2/IMG_01.jpg", at(1000), []byte("x"))
		fsmgr.AddMediaFile("/trip", "Days/Day 2/IMG_02.jpg", at(2000), []byte("y"))

		in := baseInput("/trip")
		in.CachedEdits = []model.CachedEdit{{FilePath: "Days/Day 2/IMG_01.jpg", Rating: 3}}

		photos, err := newReconciler(fsmgr).Reconcile(in)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		untouched := findByPath(t, photos, "Days/Day 2/IMG_02.jpg")
		if untouched.Day == nil || *untouched.Day != 2 {
			t.Errorf("day = %v, want 2 from detection", untouched.Day)
		}
		if untouched.Rating != 0 {
			t.Error("rating must stay zero without a cache entry")
		}
	})
}

func TestReconcileArchiveRule(t *testing.T) {
	t.Parallel()

	t.Run("archive folder beats cache", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "Archive/IMG_01.jpg", at(1000), []byte("x"))

		in := baseInput("/trip")
		in.CachedEdits = []model.CachedEdit{{
			FilePath: "Archive/IMG_01.jpg",
			Archived: false,
			Bucket:   model.BucketPtr(model.BucketPeople),
		}}

		photos, err := newReconciler(fsmgr).Reconcile(in)
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}

		p := photos[0]
		if !p.Archived {
			t.Error("physical location in the archive folder must force archived")
		}
		if p.Bucket == nil || *p.Bucket != model.BucketArchive {
			t.Errorf("bucket = %v, want X", p.Bucket)
		}
	})

	t.Run("fuzzy archive segment match", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "old archive-2023/IMG_01.jpg", at(1000), []byte("x"))

		photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if !photos[0].Archived {
			t.Error("segment containing the archive token must force archived")
		}
	})

	t.Run("archive in file name does not archive", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddMediaFile("/trip", "Days/Day 1/archive-shot.jpg", at(1000), []byte("x"))

		photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		if err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
		if photos[0].Archived {
			t.Error("only folder segments count for the archive rule")
		}
	})
}

func TestReconcileDuplicateSuppression(t *testing.T) {
	t.Parallel()

	fsmgr := testutil.NewMockFilesystemManager()
	ts := at(5000)
	fsmgr.AddMediaFileSized("/trip", "Day 1/IMG_01.jpg", ts, 100)
	fsmgr.AddMediaFileSized("/trip", "backup/IMG_01.jpg", ts, 100)
	fsmgr.AddMediaFileSized("/trip", "Day 1/IMG_02.jpg", ts, 100)

	photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(photos) != 2 {
		t.Fatalf("got %d photos, want 2 (duplicate suppressed)", len(photos))
	}
	// First-enumerated path wins.
	findByPath(t, photos, "Day 1/IMG_01.jpg")
	findByPath(t, photos, "Day 1/IMG_02.jpg")
	for _, p := range photos {
		if p.FilePath == "backup/IMG_01.jpg" {
			t.Error("second-enumerated duplicate path must be suppressed")
		}
	}
}

func TestReconcileFailures(t *testing.T) {
	t.Parallel()

	t.Run("zero files is a hard empty-scan failure", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()

		_, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		se, ok := trip.ScanFailure(err)
		if !ok {
			t.Fatalf("error = %v, want *ScanError", err)
		}
		if se.Kind != trip.KindEmptyScan {
			t.Errorf("kind = %s, want empty-scan", se.Kind)
		}
	})

	t.Run("filesystem errors propagate unmodified", func(t *testing.T) {
		t.Parallel()
		fsmgr := testutil.NewMockFilesystemManager()
		want := &trip.ScanError{Kind: trip.KindAccessDenied, Path: "/trip"}
		fsmgr.FailWith(want)

		_, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
		if !errors.Is(err, want) {
			var se *trip.ScanError
			if !errors.As(err, &se) || se.Kind != trip.KindAccessDenied {
				t.Fatalf("error = %v, want the access-denied ScanError", err)
			}
		}
	})
}

func TestReconcileIdempotent(t *testing.T) {
	t.Parallel()

	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddMediaFile("/trip", "Days/Day 1/A_Establishing/IMG_01.jpg", at(1000), []byte("x"))
	fsmgr.AddMediaFile("/trip", "Days/Day 2/IMG_02.jpg", at(2000), []byte("y"))
	fsmgr.AddMediaFile("/trip", "loose.jpg", at(3000), []byte("z"))

	r := newReconciler(fsmgr)

	serialize := func(photos []*model.Photo) []byte {
		t.Helper()
		state := &model.ProjectState{ProjectID: "proj", Name: "Japan 2024", Photos: photos, Settings: model.DefaultSettings()}
		data, err := model.ToPersisted(state).Marshal()
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		return data
	}

	first, err := r.Reconcile(baseInput("/trip"))
	if err != nil {
		t.Fatalf("first Reconcile() error = %v", err)
	}
	firstBytes := serialize(first)

	in := baseInput("/trip")
	in.CachedEdits = model.ToPersisted(&model.ProjectState{Photos: first, Settings: model.DefaultSettings()}).Edits
	second, err := r.Reconcile(in)
	if err != nil {
		t.Fatalf("second Reconcile() error = %v", err)
	}
	secondBytes := serialize(second)

	if string(firstBytes) != string(secondBytes) {
		t.Errorf("reconciling twice with no changes must serialize identically\nfirst:  %s\nsecond: %s", firstBytes, secondBytes)
	}
}

func TestReconcileEndToEndOrdering(t *testing.T) {
	t.Parallel()

	fsmgr := testutil.NewMockFilesystemManager()
	fsmgr.AddMediaFile("/trip", "Day 1/IMG_01.jpg", at(1000), []byte("a"))
	fsmgr.AddMediaFile("/trip", "Day 1/IMG_02.jpg", at(900), []byte("b"))

	photos, err := newReconciler(fsmgr).Reconcile(baseInput("/trip"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	result := ordering.Build(photos, ordering.Options{})
	if result.Photos[0].OriginalName != "IMG_02.jpg" || result.Photos[1].OriginalName != "IMG_01.jpg" {
		t.Fatalf("order = [%s, %s], want [IMG_02.jpg, IMG_01.jpg]",
			result.Photos[0].OriginalName, result.Photos[1].OriginalName)
	}

	next, ok := ordering.Navigate(result, result.Photos[0].ID, ordering.Next, nil)
	if !ok || next.OriginalName != "IMG_01.jpg" {
		t.Fatalf("Navigate(next) = %v, %v; want IMG_01.jpg", next, ok)
	}
}

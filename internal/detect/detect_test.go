package detect

import (
	"testing"
	"time"

	"tripsort/internal/model"
)

func TestDetectDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		folder     string
		wantDay    int
		wantConf   model.Confidence
		wantNoHit  bool
		wantPattID string
	}{
		{name: "day word with space", folder: "Day 7", wantDay: 7, wantConf: model.ConfidenceHigh, wantPattID: PatternDayPrefix},
		{name: "short d with zero pad", folder: "D07", wantDay: 7, wantConf: model.ConfidenceHigh, wantPattID: PatternDayPrefix},
		{name: "day with underscore and suffix", folder: "day_07x", wantDay: 7, wantConf: model.ConfidenceHigh, wantPattID: PatternDayPrefix},
		{name: "day with hyphen", folder: "day-12 temples", wantDay: 12, wantConf: model.ConfidenceHigh, wantPattID: PatternDayPrefix},
		{name: "numeric prefix", folder: "7_Something", wantDay: 7, wantConf: model.ConfidenceMedium, wantPattID: PatternNumericPrefix},
		{name: "numeric prefix with space", folder: "12 Beach", wantDay: 12, wantConf: model.ConfidenceMedium, wantPattID: PatternNumericPrefix},
		{name: "day out of range", folder: "Day 42", wantNoHit: true},
		{name: "numeric prefix out of range", folder: "32_Nope", wantNoHit: true},
		{name: "zero is not a day", folder: "Day 0", wantNoHit: true},
		{name: "no pattern", folder: "Random Folder", wantNoHit: true},
		{name: "bare number without separator", folder: "7", wantNoHit: true},
		{name: "three digits", folder: "100_Things", wantNoHit: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := DetectDay(tc.folder, nil)
			if tc.wantNoHit {
				if ok {
					t.Fatalf("DetectDay(%q) matched day %d, want no match", tc.folder, got.Day)
				}
				return
			}
			if !ok {
				t.Fatalf("DetectDay(%q) did not match", tc.folder)
			}
			if got.Day != tc.wantDay {
				t.Errorf("day = %d, want %d", got.Day, tc.wantDay)
			}
			if got.Confidence != tc.wantConf {
				t.Errorf("confidence = %s, want %s", got.Confidence, tc.wantConf)
			}
			if got.PatternID != tc.wantPattID {
				t.Errorf("pattern = %q, want %q", got.PatternID, tc.wantPattID)
			}
		})
	}
}

func TestDetectDayISODate(t *testing.T) {
	t.Parallel()

	t.Run("with trip start", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		got, ok := DetectDay("2024-03-14 Kyoto", &start)
		if !ok {
			t.Fatal("expected a match")
		}
		if got.Day != 5 {
			t.Errorf("day = %d, want 5", got.Day)
		}
		if got.Confidence != model.ConfidenceHigh {
			t.Errorf("confidence = %s, want high", got.Confidence)
		}
		if got.PatternID != PatternISODate {
			t.Errorf("pattern = %q, want %q", got.PatternID, PatternISODate)
		}
	})

	t.Run("underscore separators", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		got, ok := DetectDay("2024_03_10", &start)
		if !ok || got.Day != 1 {
			t.Fatalf("got %+v, %v; want day 1", got, ok)
		}
	})

	t.Run("without trip start anchors to day 1", func(t *testing.T) {
		t.Parallel()
		got, ok := DetectDay("2024-03-14", nil)
		if !ok {
			t.Fatal("expected a match")
		}
		if got.Day != 1 {
			t.Errorf("day = %d, want 1", got.Day)
		}
		if got.Confidence != model.ConfidenceMedium {
			t.Errorf("confidence = %s, want medium", got.Confidence)
		}
	})

	t.Run("date before trip start is no match", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		if _, ok := DetectDay("2024-03-01", &start); ok {
			t.Error("date before start should not match")
		}
	})

	t.Run("day prefix beats embedded date", func(t *testing.T) {
		t.Parallel()
		got, ok := DetectDay("Day 3 2024-03-14", nil)
		if !ok || got.PatternID != PatternDayPrefix || got.Day != 3 {
			t.Fatalf("got %+v, %v; want day-prefix day 3", got, ok)
		}
	})

	t.Run("nonsense date components do not match", func(t *testing.T) {
		t.Parallel()
		if _, ok := DetectDay("2024-13-40", nil); ok {
			t.Error("month 13 should not match")
		}
	})
}

func TestDetectBucket(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		folder    string
		want      model.Bucket
		wantConf  model.Confidence
		wantNoHit bool
	}{
		{name: "standard underscore", folder: "A_Establishing", want: model.BucketEstablishing, wantConf: model.ConfidenceHigh},
		{name: "standard lowercase hyphen", folder: "a-establishing", want: model.BucketEstablishing, wantConf: model.ConfidenceHigh},
		{name: "standard en dash", folder: "A–Establishing", want: model.BucketEstablishing, wantConf: model.ConfidenceHigh},
		{name: "standard em dash", folder: "B—People", want: model.BucketPeople, wantConf: model.ConfidenceHigh},
		{name: "standard minus sign", folder: "M−Mood", want: model.BucketMood, wantConf: model.ConfidenceHigh},
		{name: "standard space", folder: "E Evening", want: model.BucketEvening, wantConf: model.ConfidenceHigh},
		{name: "bare letter", folder: "A", want: model.BucketEstablishing, wantConf: model.ConfidenceHigh},
		{name: "bare letter lowercase", folder: "x", want: model.BucketArchive, wantConf: model.ConfidenceHigh},
		{name: "letter with arbitrary suffix", folder: "A_Whatever", want: model.BucketEstablishing, wantConf: model.ConfidenceMedium},
		{name: "legacy numeric code", folder: "01", want: model.BucketEstablishing, wantConf: model.ConfidenceLow},
		{name: "legacy numeric code six", folder: "06", want: model.BucketMood, wantConf: model.ConfidenceLow},
		{name: "unknown letter", folder: "Q_Stuff", wantNoHit: true},
		{name: "legacy code out of range", folder: "07", wantNoHit: true},
		{name: "plain word", folder: "Temples", wantNoHit: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := DetectBucket(tc.folder)
			if tc.wantNoHit {
				if ok {
					t.Fatalf("DetectBucket(%q) matched %s, want no match", tc.folder, got.Bucket)
				}
				return
			}
			if !ok {
				t.Fatalf("DetectBucket(%q) did not match", tc.folder)
			}
			if got.Bucket != tc.want {
				t.Errorf("bucket = %s, want %s", got.Bucket, tc.want)
			}
			if got.Confidence != tc.wantConf {
				t.Errorf("confidence = %s, want %s", got.Confidence, tc.wantConf)
			}
		})
	}
}

func TestShouldSkipFolder(t *testing.T) {
	t.Parallel()

	for _, name := range []string{".hidden", "unsorted", "Inbox", "MISCELLANEOUS", "_meta", "metadata"} {
		if !ShouldSkipFolder(name, "Japan 2024") {
			t.Errorf("ShouldSkipFolder(%q) = false, want true", name)
		}
	}

	if !ShouldSkipFolder("japan 2024", "Japan 2024") {
		t.Error("the project's own name must be skipped")
	}
	if ShouldSkipFolder("Day 3", "Japan 2024") {
		t.Error("a regular day folder must not be skipped")
	}
	if ShouldSkipFolder("Day 3", "") {
		t.Error("empty project name must not skip everything")
	}
}

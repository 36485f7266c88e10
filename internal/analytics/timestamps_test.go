package analytics

import (
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
)

func TestDayStartTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	got := DayStart(time.Date(2025, 3, 2, 3, 30, 0, 0, loc))
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBucketStartsDaily(t *testing.T) {
	window := types.Window{
		CurrentStart: time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC),
		CurrentEnd:   time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		Granularity:  types.GranularityDay,
	}

	starts := bucketStarts(window)
	if len(starts) != 8 {
		t.Fatalf("expected 8 daily buckets, got %d", len(starts))
	}
	if !starts[0].Equal(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first bucket %v", starts[0])
	}
	if !starts[7].Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected last bucket %v", starts[7])
	}

	if idx := bucketIndex(window, window.CurrentStart); idx != 0 {
		t.Fatalf("expected start to map to bucket 0, got %d", idx)
	}
	if idx := bucketIndex(window, window.CurrentEnd.Add(-time.Nanosecond)); idx != 7 {
		t.Fatalf("expected end to map to last bucket, got %d", idx)
	}
}

func TestBucketStartsDailyAtMidnightBoundary(t *testing.T) {
	window := types.Window{
		CurrentStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CurrentEnd:   time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Granularity:  types.GranularityDay,
	}
	if got := len(bucketStarts(window)); got != 7 {
		t.Fatalf("expected 7 buckets for an aligned week, got %d", got)
	}
}

func TestBucketStartsWeekly(t *testing.T) {
	window := types.Window{
		CurrentStart: time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC),
		CurrentEnd:   time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		Granularity:  types.GranularityWeek,
	}

	starts := bucketStarts(window)
	if len(starts) != 13 {
		t.Fatalf("expected 13 weekly buckets, got %d", len(starts))
	}
	for i := 1; i < len(starts); i++ {
		if starts[i].Sub(starts[i-1]) != week {
			t.Fatalf("buckets %d and %d are not a week apart", i-1, i)
		}
	}
	last := starts[len(starts)-1]
	if !last.Before(window.CurrentEnd) || !window.CurrentEnd.Before(last.Add(week).Add(time.Nanosecond)) {
		t.Fatalf("last bucket %v does not cover window end %v", last, window.CurrentEnd)
	}
}

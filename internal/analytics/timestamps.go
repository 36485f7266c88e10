package analytics

import (
	"time"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
)

const (
	day  = 24 * time.Hour
	week = 7 * day

	bucketDateLayout = "2006-01-02"
)

// DayStart truncates t to UTC midnight.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func bucketStep(g types.Granularity) time.Duration {
	if g == types.GranularityWeek {
		return week
	}
	return day
}

// bucketStarts lists every bucket that overlaps the current range, starting at
// the UTC day of CurrentStart.
func bucketStarts(w types.Window) []time.Time {
	anchor := DayStart(w.CurrentStart)
	step := bucketStep(w.Granularity)

	starts := make([]time.Time, 0, int(w.CurrentEnd.Sub(anchor)/step)+1)
	for cursor := anchor; cursor.Before(w.CurrentEnd); cursor = cursor.Add(step) {
		starts = append(starts, cursor)
	}
	return starts
}

// bucketIndex maps a timestamp inside the current range to its bucket.
func bucketIndex(w types.Window, t time.Time) int {
	anchor := DayStart(w.CurrentStart)
	return int(t.UTC().Sub(anchor) / bucketStep(w.Granularity))
}

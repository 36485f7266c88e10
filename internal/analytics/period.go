package analytics

import (
	"time"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
)

// dailyBucketLimit is the longest current range still bucketed by day.
const dailyBucketLimit = 31 * day

var presetDurations = map[enums.PeriodPreset]time.Duration{
	enums.PeriodPreset7d:  7 * day,
	enums.PeriodPreset30d: 30 * day,
	enums.PeriodPreset90d: 90 * day,
}

// ResolvePeriod turns a request into concrete current and previous ranges.
// The previous range has the same length and ends where the current begins.
func ResolvePeriod(req types.PeriodRequest, now time.Time) (types.Window, error) {
	now = now.UTC()

	var start, end time.Time
	switch req.Preset {
	case enums.PeriodPreset7d, enums.PeriodPreset30d, enums.PeriodPreset90d:
		end = now
		start = now.Add(-presetDurations[req.Preset])
	case enums.PeriodPresetYTD:
		end = now
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		if !start.Before(end) {
			return types.Window{}, invalidPeriod(req, "year to date range is empty")
		}
	case enums.PeriodPresetCustom:
		if req.From == nil || req.To == nil {
			return types.Window{}, invalidPeriod(req, "custom period requires from and to")
		}
		start = req.From.UTC()
		end = req.To.UTC()
		if !start.Before(end) {
			return types.Window{}, invalidPeriod(req, "from must be before to")
		}
	default:
		return types.Window{}, invalidPeriod(req, "unknown period preset")
	}

	duration := end.Sub(start)
	granularity := types.GranularityDay
	if duration > dailyBucketLimit {
		granularity = types.GranularityWeek
	}

	return types.Window{
		CurrentStart:  start,
		CurrentEnd:    end,
		PreviousStart: start.Add(-duration),
		PreviousEnd:   start,
		Granularity:   granularity,
	}, nil
}

func invalidPeriod(req types.PeriodRequest, message string) error {
	details := map[string]any{"preset": req.Preset.String()}
	if req.From != nil {
		details["from"] = req.From.UTC().Format(time.RFC3339)
	}
	if req.To != nil {
		details["to"] = req.To.UTC().Format(time.RFC3339)
	}
	return pkgerrors.New(pkgerrors.CodeInvalidPeriod, message).WithDetails(details)
}

package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	analyticstypes "github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
)

// DefaultPreset applies when neither preset nor a custom range is given.
const DefaultPreset = enums.PeriodPreset30d

type periodQuery struct {
	Preset string `query:"preset" validate:"omitempty,oneof=7d 30d 90d ytd custom"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type statusQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending processing completed cancelled refunded"`
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePeriod reads preset, from and to. A range without a preset is treated
// as custom. Ordering of the bounds is left to the period resolver.
func ParsePeriod(r *http.Request) (analyticstypes.PeriodRequest, error) {
	q := periodQuery{
		Preset: strings.ToLower(queryValue(r, "preset")),
		From:   queryValue(r, "from"),
		To:     queryValue(r, "to"),
	}
	if err := Struct(q); err != nil {
		return analyticstypes.PeriodRequest{}, err
	}

	if (q.From == "") != (q.To == "") {
		return analyticstypes.PeriodRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
	}

	hasRange := q.From != ""
	preset := enums.PeriodPreset(q.Preset)
	switch {
	case preset == "" && hasRange:
		preset = enums.PeriodPresetCustom
	case preset == "":
		preset = DefaultPreset
	}

	req := analyticstypes.PeriodRequest{Preset: preset}
	if preset != enums.PeriodPresetCustom {
		return req, nil
	}
	if !hasRange {
		return analyticstypes.PeriodRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "custom period requires from and to").
			WithDetails(map[string]string{"from": "is required", "to": "is required"})
	}

	from, err := time.Parse(time.RFC3339, q.From)
	if err != nil {
		return analyticstypes.PeriodRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid from timestamp")
	}
	to, err := time.Parse(time.RFC3339, q.To)
	if err != nil {
		return analyticstypes.PeriodRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid to timestamp")
	}
	req.From = &from
	req.To = &to
	return req, nil
}

// ParseOrderStatus returns nil when no status filter is given.
func ParseOrderStatus(r *http.Request) (*enums.OrderStatus, error) {
	q := statusQuery{Status: strings.ToLower(queryValue(r, "status"))}
	if err := Struct(q); err != nil {
		return nil, err
	}
	if q.Status == "" {
		return nil, nil
	}
	status := enums.OrderStatus(q.Status)
	return &status, nil
}

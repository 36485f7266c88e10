package enums

import "fmt"

// PeriodPreset names a revenue reporting window.
type PeriodPreset string

const (
	PeriodPreset7d     PeriodPreset = "7d"
	PeriodPreset30d    PeriodPreset = "30d"
	PeriodPreset90d    PeriodPreset = "90d"
	PeriodPresetYTD    PeriodPreset = "ytd"
	PeriodPresetCustom PeriodPreset = "custom"
)

var validPeriodPresets = []PeriodPreset{
	PeriodPreset7d,
	PeriodPreset30d,
	PeriodPreset90d,
	PeriodPresetYTD,
	PeriodPresetCustom,
}

// String implements fmt.Stringer.
func (p PeriodPreset) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PeriodPreset.
func (p PeriodPreset) IsValid() bool {
	for _, candidate := range validPeriodPresets {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePeriodPreset converts raw input into a PeriodPreset.
func ParsePeriodPreset(value string) (PeriodPreset, error) {
	for _, candidate := range validPeriodPresets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid period preset %q", value)
}

package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

// PeriodRequest selects a reporting window. From and To are only read for
// the custom preset and describe the half-open range [From, To).
type PeriodRequest struct {
	Preset enums.PeriodPreset
	From   *time.Time
	To     *time.Time
}

// Granularity is the trend bucket size.
type Granularity string

const (
	GranularityDay  Granularity = "day"
	GranularityWeek Granularity = "week"
)

// Window is a resolved period. Both ranges are half-open and equal in length.
type Window struct {
	CurrentStart  time.Time   `json:"current_start"`
	CurrentEnd    time.Time   `json:"current_end"`
	PreviousStart time.Time   `json:"previous_start"`
	PreviousEnd   time.Time   `json:"previous_end"`
	Granularity   Granularity `json:"granularity"`
}

// Duration is the length of the current range.
func (w Window) Duration() time.Duration {
	return w.CurrentEnd.Sub(w.CurrentStart)
}

// InCurrent reports whether t falls in [CurrentStart, CurrentEnd).
func (w Window) InCurrent(t time.Time) bool {
	return !t.Before(w.CurrentStart) && t.Before(w.CurrentEnd)
}

// InPrevious reports whether t falls in [PreviousStart, PreviousEnd).
func (w Window) InPrevious(t time.Time) bool {
	return !t.Before(w.PreviousStart) && t.Before(w.PreviousEnd)
}

// RevenueOverview compares the current window against the previous one.
// Deltas are percentages rounded to two decimals and are 0 when the previous
// value is 0.
type RevenueOverview struct {
	Window          Window      `json:"window"`
	Revenue         money.Money `json:"revenue"`
	PreviousRevenue money.Money `json:"previous_revenue"`
	RevenueDelta    float64     `json:"revenue_delta"`
	Orders          int         `json:"orders"`
	PreviousOrders  int         `json:"previous_orders"`
	OrdersDelta     float64     `json:"orders_delta"`
	AOV             money.Money `json:"aov"`
	PreviousAOV     money.Money `json:"previous_aov"`
	AOVDelta        float64     `json:"aov_delta"`
}

// TrendPoint is one bucket of the revenue trend.
type TrendPoint struct {
	BucketStart time.Time   `json:"bucket_start"`
	Date        string      `json:"date"`
	Revenue     money.Money `json:"revenue"`
}

// CategoryRevenue is revenue for one category label.
type CategoryRevenue struct {
	Category string      `json:"category"`
	Revenue  money.Money `json:"revenue"`
}

// TopProduct ranks a product by revenue.
type TopProduct struct {
	ProductID uuid.UUID   `json:"product_id"`
	Name      string      `json:"name"`
	UnitsSold int         `json:"units_sold"`
	Revenue   money.Money `json:"revenue"`
}

// Dashboard bundles every revenue view for one window.
type Dashboard struct {
	Overview    *RevenueOverview  `json:"overview"`
	Trend       []TrendPoint      `json:"trend"`
	Categories  []CategoryRevenue `json:"categories"`
	TopProducts []TopProduct      `json:"top_products"`
}

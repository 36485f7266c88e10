package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/internal/lineitems"
	"github.com/angelmondragon/packfinderz-attribution/internal/orders"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
	"github.com/angelmondragon/packfinderz-attribution/pkg/metrics"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// Service aggregates seller revenue over a reporting window.
type Service interface {
	Overview(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (*types.RevenueOverview, error)
	Trend(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) ([]types.TrendPoint, error)
	ByCategory(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) ([]types.CategoryRevenue, error)
	TopProducts(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) ([]types.TopProduct, error)
	Dashboard(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) (*types.Dashboard, error)
}

// LineItemResolver yields the line items that belong to a store.
type LineItemResolver interface {
	Resolve(ctx context.Context, storeID uuid.UUID) ([]lineitems.SellerLineItem, error)
}

// OrderReader loads order rows for attributed line items.
type OrderReader interface {
	FindOrdersByIDs(ctx context.Context, ids []uuid.UUID, filter orders.OrderFilter) ([]orders.OrderRow, error)
}

type service struct {
	resolver LineItemResolver
	orders   OrderReader
	logg     *logger.Logger
	metrics  *metrics.EngineMetrics
}

// NewService builds the revenue aggregation service.
func NewService(resolver LineItemResolver, orderReader OrderReader, logg *logger.Logger, m *metrics.EngineMetrics) (Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("line item resolver required")
	}
	if orderReader == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		resolver: resolver,
		orders:   orderReader,
		logg:     logg,
		metrics:  m,
	}, nil
}

// dataset holds revenue-eligible line items split by window.
type dataset struct {
	window   types.Window
	current  []attributedItem
	previous []attributedItem
}

type attributedItem struct {
	item  lineitems.SellerLineItem
	order orders.OrderRow
}

func (s *service) load(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (*dataset, error) {
	window, err := ResolvePeriod(period, timeNowUTC())
	if err != nil {
		return nil, err
	}
	data := &dataset{window: window}

	items, err := s.resolver.Resolve(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return data, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.OrderID]; ok {
			continue
		}
		seen[item.OrderID] = struct{}{}
		orderIDs = append(orderIDs, item.OrderID)
	}

	rows, err := s.orders.FindOrdersByIDs(ctx, orderIDs, orders.OrderFilter{
		CreatedFrom:   &window.PreviousStart,
		CreatedBefore: &window.CurrentEnd,
	})
	if err != nil {
		return nil, pkgerrors.DataAccess(err, "load revenue orders")
	}
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revenue aggregation cancelled")
	}

	eligible := make(map[uuid.UUID]orders.OrderRow, len(rows))
	for _, row := range rows {
		if !row.Status.CountsTowardRevenue() {
			continue
		}
		eligible[row.ID] = row
	}

	for _, item := range items {
		row, ok := eligible[item.OrderID]
		if !ok {
			continue
		}
		entry := attributedItem{item: item, order: row}
		switch {
		case window.InCurrent(row.CreatedAt):
			data.current = append(data.current, entry)
		case window.InPrevious(row.CreatedAt):
			data.previous = append(data.previous, entry)
		}
	}
	return data, nil
}

func (s *service) Overview(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (result *types.RevenueOverview, err error) {
	defer s.metrics.Track("revenue_overview", time.Now(), &err)

	data, err := s.load(s.logg.WithStoreID(ctx, storeID.String()), storeID, period)
	if err != nil {
		return nil, err
	}
	return buildOverview(data), nil
}

func (s *service) Trend(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (result []types.TrendPoint, err error) {
	defer s.metrics.Track("revenue_trend", time.Now(), &err)

	data, err := s.load(s.logg.WithStoreID(ctx, storeID.String()), storeID, period)
	if err != nil {
		return nil, err
	}
	return buildTrend(data), nil
}

func (s *service) ByCategory(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (result []types.CategoryRevenue, err error) {
	defer s.metrics.Track("revenue_by_category", time.Now(), &err)

	data, err := s.load(s.logg.WithStoreID(ctx, storeID.String()), storeID, period)
	if err != nil {
		return nil, err
	}
	return buildCategories(data), nil
}

func (s *service) TopProducts(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) (result []types.TopProduct, err error) {
	defer s.metrics.Track("revenue_top_products", time.Now(), &err)

	data, err := s.load(s.logg.WithStoreID(ctx, storeID.String()), storeID, period)
	if err != nil {
		return nil, err
	}
	return buildTopProducts(data, limit), nil
}

// Dashboard runs every revenue view concurrently over one pinned window. The
// first failure cancels the rest and no partial dashboard is returned.
func (s *service) Dashboard(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) (result *types.Dashboard, err error) {
	defer s.metrics.Track("revenue_dashboard", time.Now(), &err)

	window, err := ResolvePeriod(period, timeNowUTC())
	if err != nil {
		return nil, err
	}
	period = pinned(window)

	var dashboard types.Dashboard
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		overview, err := s.Overview(groupCtx, storeID, period)
		dashboard.Overview = overview
		return err
	})
	group.Go(func() error {
		trend, err := s.Trend(groupCtx, storeID, period)
		dashboard.Trend = trend
		return err
	})
	group.Go(func() error {
		categories, err := s.ByCategory(groupCtx, storeID, period)
		dashboard.Categories = categories
		return err
	})
	group.Go(func() error {
		top, err := s.TopProducts(groupCtx, storeID, period, limit)
		dashboard.TopProducts = top
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// pinned expresses a resolved window as a custom request so concurrent views
// agree on the same bounds.
func pinned(w types.Window) types.PeriodRequest {
	start, end := w.CurrentStart, w.CurrentEnd
	return types.PeriodRequest{Preset: enums.PeriodPresetCustom, From: &start, To: &end}
}

func summarize(items []attributedItem) (money.Money, int) {
	revenue := money.Zero()
	orderSet := make(map[uuid.UUID]struct{})
	for _, entry := range items {
		revenue = revenue.Add(entry.item.LineTotal())
		orderSet[entry.order.ID] = struct{}{}
	}
	return revenue, len(orderSet)
}

func averageOrderValue(revenue money.Money, count int) money.Money {
	if count == 0 {
		return money.Zero()
	}
	return revenue.Div(int64(count)).Round2()
}

func buildOverview(data *dataset) *types.RevenueOverview {
	revenue, count := summarize(data.current)
	prevRevenue, prevCount := summarize(data.previous)
	aov := averageOrderValue(revenue, count)
	prevAOV := averageOrderValue(prevRevenue, prevCount)

	return &types.RevenueOverview{
		Window:          data.window,
		Revenue:         revenue,
		PreviousRevenue: prevRevenue,
		RevenueDelta:    money.PercentChange(revenue.Decimal(), prevRevenue.Decimal()),
		Orders:          count,
		PreviousOrders:  prevCount,
		OrdersDelta:     money.PercentChange(decimal.NewFromInt(int64(count)), decimal.NewFromInt(int64(prevCount))),
		AOV:             aov,
		PreviousAOV:     prevAOV,
		AOVDelta:        money.PercentChange(aov.Decimal(), prevAOV.Decimal()),
	}
}

func buildTrend(data *dataset) []types.TrendPoint {
	starts := bucketStarts(data.window)
	points := make([]types.TrendPoint, len(starts))
	for i, start := range starts {
		points[i] = types.TrendPoint{
			BucketStart: start,
			Date:        start.Format(bucketDateLayout),
			Revenue:     money.Zero(),
		}
	}
	for _, entry := range data.current {
		idx := bucketIndex(data.window, entry.order.CreatedAt)
		if idx < 0 || idx >= len(points) {
			continue
		}
		points[idx].Revenue = points[idx].Revenue.Add(entry.item.LineTotal())
	}
	return points
}

func buildCategories(data *dataset) []types.CategoryRevenue {
	totals := make(map[string]money.Money)
	for _, entry := range data.current {
		label := entry.item.ProductCategory
		if label == "" {
			label = lineitems.UncategorizedLabel
		}
		current, ok := totals[label]
		if !ok {
			current = money.Zero()
		}
		totals[label] = current.Add(entry.item.LineTotal())
	}

	out := make([]types.CategoryRevenue, 0, len(totals))
	for label, revenue := range totals {
		out = append(out, types.CategoryRevenue{Category: label, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Revenue.Cmp(out[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func buildTopProducts(data *dataset, limit int) []types.TopProduct {
	if limit <= 0 {
		return []types.TopProduct{}
	}

	byProduct := make(map[uuid.UUID]*types.TopProduct)
	for _, entry := range data.current {
		product, ok := byProduct[entry.item.ProductID]
		if !ok {
			product = &types.TopProduct{
				ProductID: entry.item.ProductID,
				Name:      entry.item.ProductName,
				Revenue:   money.Zero(),
			}
			byProduct[entry.item.ProductID] = product
		}
		product.UnitsSold += entry.item.Quantity
		product.Revenue = product.Revenue.Add(entry.item.LineTotal())
	}

	out := make([]types.TopProduct, 0, len(byProduct))
	for _, product := range byProduct {
		out = append(out, *product)
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Revenue.Cmp(out[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

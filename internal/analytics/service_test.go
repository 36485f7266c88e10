package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/internal/lineitems"
	"github.com/angelmondragon/packfinderz-attribution/internal/orders"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/metrics"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func useFixedClock(t *testing.T) {
	t.Helper()
	previous := timeNowUTC
	timeNowUTC = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNowUTC = previous })
}

type stubResolver struct {
	mu    sync.Mutex
	items []lineitems.SellerLineItem
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, storeID uuid.UUID) ([]lineitems.SellerLineItem, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubOrders struct {
	rows map[uuid.UUID]orders.OrderRow
	err  error
}

func (s *stubOrders) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID, filter orders.OrderFilter) ([]orders.OrderRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []orders.OrderRow{}
	for _, id := range ids {
		row, ok := s.rows[id]
		if !ok {
			continue
		}
		if filter.CreatedFrom != nil && row.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedBefore != nil && !row.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type revenueFixture struct {
	store    uuid.UUID
	resolver *stubResolver
	orders   *stubOrders
}

func newRevenueFixture() *revenueFixture {
	return &revenueFixture{
		store:    uuid.New(),
		resolver: &stubResolver{},
		orders:   &stubOrders{rows: map[uuid.UUID]orders.OrderRow{}},
	}
}

func (f *revenueFixture) order(status enums.OrderStatus, created time.Time) uuid.UUID {
	id := uuid.New()
	f.orders.rows[id] = orders.OrderRow{
		ID:          id,
		BuyerID:     uuid.New(),
		TotalAmount: money.MustFromString("1000.00"),
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	return id
}

func (f *revenueFixture) item(orderID, productID uuid.UUID, qty int, price, name, category string) {
	f.resolver.items = append(f.resolver.items, lineitems.SellerLineItem{
		OrderID:         orderID,
		ProductID:       productID,
		Quantity:        qty,
		UnitPrice:       money.MustFromString(price),
		ProductName:     name,
		ProductCategory: category,
	})
}

func (f *revenueFixture) service(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(f.resolver, f.orders, nil, nil)
	require.NoError(t, err)
	return svc
}

var last7 = types.PeriodRequest{Preset: enums.PeriodPreset7d}

func TestOverview_weekOverWeekDoubling(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	product := uuid.New()

	current := f.order(enums.OrderStatusCompleted, fixedNow.Add(-2*day))
	previous := f.order(enums.OrderStatusCompleted, fixedNow.Add(-10*day))
	f.item(current, product, 4, "25.00", "Blue Dream", "flower")
	f.item(previous, product, 2, "25.00", "Blue Dream", "flower")

	overview, err := f.service(t).Overview(context.Background(), f.store, last7)
	require.NoError(t, err)

	assert.Equal(t, "100.00", overview.Revenue.String())
	assert.Equal(t, "50.00", overview.PreviousRevenue.String())
	assert.Equal(t, 100.0, overview.RevenueDelta)
	assert.Equal(t, 1, overview.Orders)
	assert.Equal(t, 1, overview.PreviousOrders)
	assert.Equal(t, 0.0, overview.OrdersDelta)
	assert.Equal(t, "100.00", overview.AOV.String())
	assert.Equal(t, 100.0, overview.AOVDelta)
}

func TestOverview_emptyPreviousWindowHasZeroDelta(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()

	orderID := f.order(enums.OrderStatusProcessing, fixedNow.Add(-time.Hour))
	f.item(orderID, uuid.New(), 1, "42.00", "Gummies", "edible")

	overview, err := f.service(t).Overview(context.Background(), f.store, last7)
	require.NoError(t, err)
	assert.Equal(t, "42.00", overview.Revenue.String())
	assert.True(t, overview.PreviousRevenue.IsZero())
	assert.Equal(t, 0.0, overview.RevenueDelta)
	assert.Equal(t, 0.0, overview.OrdersDelta)
	assert.Equal(t, 0.0, overview.AOVDelta)
}

func TestOverview_cancelledAndRefundedContributeNothing(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	product := uuid.New()

	kept := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	cancelled := f.order(enums.OrderStatusCancelled, fixedNow.Add(-day))
	refunded := f.order(enums.OrderStatusRefunded, fixedNow.Add(-9*day))
	f.item(kept, product, 1, "10.00", "Pre-roll", "pre_roll")
	f.item(cancelled, product, 5, "10.00", "Pre-roll", "pre_roll")
	f.item(refunded, product, 3, "10.00", "Pre-roll", "pre_roll")

	svc := f.service(t)
	overview, err := svc.Overview(context.Background(), f.store, last7)
	require.NoError(t, err)
	assert.Equal(t, "10.00", overview.Revenue.String())
	assert.Equal(t, 1, overview.Orders)
	assert.True(t, overview.PreviousRevenue.IsZero())

	top, err := svc.TopProducts(context.Background(), f.store, last7, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].UnitsSold)
}

func TestOverview_averageOrderValueCountsDistinctOrders(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()

	first := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	second := f.order(enums.OrderStatusCompleted, fixedNow.Add(-2*day))
	f.item(first, uuid.New(), 1, "10.00", "A", "flower")
	f.item(first, uuid.New(), 1, "5.00", "B", "flower")
	f.item(second, uuid.New(), 1, "10.00", "C", "flower")

	overview, err := f.service(t).Overview(context.Background(), f.store, last7)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Orders)
	assert.Equal(t, "25.00", overview.Revenue.String())
	assert.Equal(t, "12.50", overview.AOV.String())
}

func TestTrendAndCategoriesSumToOverview(t *testing.T) {
	useFixedClock(t)

	for _, preset := range []enums.PeriodPreset{enums.PeriodPreset7d, enums.PeriodPreset30d, enums.PeriodPreset90d} {
		t.Run(preset.String(), func(t *testing.T) {
			f := newRevenueFixture()
			period := types.PeriodRequest{Preset: preset}
			window, err := ResolvePeriod(period, fixedNow)
			require.NoError(t, err)

			offsets := []time.Duration{0, time.Minute, 26 * time.Hour, 3 * day, window.Duration() - time.Nanosecond}
			for i, offset := range offsets {
				orderID := f.order(enums.OrderStatusCompleted, window.CurrentStart.Add(offset))
				category := []string{"flower", "edible", lineitems.UncategorizedLabel}[i%3]
				f.item(orderID, uuid.New(), i+1, "3.33", "Item", category)
			}
			boundary := f.order(enums.OrderStatusCompleted, window.CurrentEnd)
			f.item(boundary, uuid.New(), 1, "999.00", "Future", "flower")

			svc := f.service(t)
			overview, err := svc.Overview(context.Background(), f.store, period)
			require.NoError(t, err)
			trend, err := svc.Trend(context.Background(), f.store, period)
			require.NoError(t, err)
			categories, err := svc.ByCategory(context.Background(), f.store, period)
			require.NoError(t, err)

			trendSum := money.Zero()
			for i, point := range trend {
				trendSum = trendSum.Add(point.Revenue)
				assert.Equal(t, point.BucketStart.Format("2006-01-02"), point.Date)
				if i > 0 {
					assert.True(t, point.BucketStart.After(trend[i-1].BucketStart))
				}
			}
			categorySum := money.Zero()
			for _, c := range categories {
				categorySum = categorySum.Add(c.Revenue)
			}

			assert.Equal(t, "49.95", overview.Revenue.String())
			assert.Equal(t, 0, overview.Revenue.Cmp(trendSum))
			assert.Equal(t, 0, overview.Revenue.Cmp(categorySum))
		})
	}
}

func TestTrend_zeroFilledBuckets(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()

	trend, err := f.service(t).Trend(context.Background(), f.store, last7)
	require.NoError(t, err)
	require.Len(t, trend, 8)
	for _, point := range trend {
		assert.True(t, point.Revenue.IsZero())
	}
	assert.Equal(t, "2025-03-08", trend[0].Date)
	assert.Equal(t, "2025-03-15", trend[7].Date)
}

func TestByCategory_sortedByRevenueThenLabel(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	orderID := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	f.item(orderID, uuid.New(), 1, "10.00", "Cart", "vape")
	f.item(orderID, uuid.New(), 1, "10.00", "Bud", "flower")
	f.item(orderID, uuid.New(), 1, "30.00", "Gummy", "edible")
	f.item(orderID, uuid.New(), 1, "5.00", "Mystery", "")

	categories, err := f.service(t).ByCategory(context.Background(), f.store, last7)
	require.NoError(t, err)
	require.Len(t, categories, 4)
	assert.Equal(t, []string{"edible", "flower", "vape", lineitems.UncategorizedLabel}, []string{
		categories[0].Category, categories[1].Category, categories[2].Category, categories[3].Category,
	})
}

func TestTopProducts_rankingAndLimit(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	big := uuid.New()
	small := uuid.New()

	orderID := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	f.item(orderID, big, 3, "10.00", "Big Seller", "flower")
	f.item(orderID, small, 2, "10.00", "Small Seller", "edible")

	svc := f.service(t)

	top, err := svc.TopProducts(context.Background(), f.store, last7, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, big, top[0].ProductID)
	assert.Equal(t, "30.00", top[0].Revenue.String())
	assert.Equal(t, 3, top[0].UnitsSold)

	all, err := svc.TopProducts(context.Background(), f.store, last7, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Revenue.Cmp(all[1].Revenue) >= 0)

	none, err := svc.TopProducts(context.Background(), f.store, last7, 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTopProducts_tieBreakers(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	moreUnits := uuid.New()
	fewerUnits := uuid.New()
	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")

	orderID := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	f.item(orderID, fewerUnits, 1, "20.00", "Premium", "flower")
	f.item(orderID, moreUnits, 4, "5.00", "Value", "flower")
	f.item(orderID, idB, 1, "7.00", "B", "flower")
	f.item(orderID, idA, 1, "7.00", "A", "flower")

	top, err := f.service(t).TopProducts(context.Background(), f.store, last7, 10)
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, []uuid.UUID{moreUnits, fewerUnits, idA, idB}, []uuid.UUID{
		top[0].ProductID, top[1].ProductID, top[2].ProductID, top[3].ProductID,
	})
}

func TestRevenue_invalidPeriodFailsBeforeStorage(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	svc := f.service(t)
	bad := types.PeriodRequest{Preset: enums.PeriodPreset("forever")}

	_, err := svc.Overview(context.Background(), f.store, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPeriod))
	_, err = svc.Trend(context.Background(), f.store, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPeriod))
	_, err = svc.ByCategory(context.Background(), f.store, bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPeriod))
	_, err = svc.TopProducts(context.Background(), f.store, bad, 5)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPeriod))
	_, err = svc.Dashboard(context.Background(), f.store, bad, 5)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPeriod))

	assert.Zero(t, f.resolver.calls)
}

func TestRevenue_storageErrorsPropagate(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	orderID := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	f.item(orderID, uuid.New(), 1, "1.00", "A", "flower")
	boom := errors.New("statement timeout")
	f.orders.err = boom

	_, err := f.service(t).Overview(context.Background(), f.store, last7)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.ErrorIs(t, err, boom)
}

func TestDashboard(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	orderID := f.order(enums.OrderStatusCompleted, fixedNow.Add(-day))
	f.item(orderID, uuid.New(), 3, "10.00", "Big", "flower")
	f.item(orderID, uuid.New(), 2, "10.00", "Small", "edible")

	dashboard, err := f.service(t).Dashboard(context.Background(), f.store, last7, 1)
	require.NoError(t, err)
	require.NotNil(t, dashboard.Overview)
	assert.Equal(t, "50.00", dashboard.Overview.Revenue.String())
	assert.Len(t, dashboard.Trend, 8)
	assert.Len(t, dashboard.Categories, 2)
	require.Len(t, dashboard.TopProducts, 1)
	assert.Equal(t, "Big", dashboard.TopProducts[0].Name)
	assert.Equal(t, 4, f.resolver.calls)
}

func TestDashboard_failureReturnsNoPartialResult(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	f.resolver.err = pkgerrors.DataAccess(errors.New("conn refused"), "load store products")

	dashboard, err := f.service(t).Dashboard(context.Background(), f.store, last7, 5)
	require.Error(t, err)
	assert.Nil(t, dashboard)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestDashboard_failureIsRecordedUnderDashboardOperation(t *testing.T) {
	useFixedClock(t)
	f := newRevenueFixture()
	f.resolver.err = pkgerrors.DataAccess(errors.New("conn refused"), "load store products")

	reg := prometheus.NewRegistry()
	svc, err := NewService(f.resolver, f.orders, nil, metrics.NewEngineMetrics(reg))
	require.NoError(t, err)

	_, err = svc.Dashboard(context.Background(), f.store, last7, 5)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, 1.0, operationCounter(families, "engine_operation_failure", "revenue_dashboard"))
	assert.Equal(t, 1.0, operationCounter(families, "engine_operation_failure", "revenue_overview"))
}

func operationCounter(families []*dto.MetricFamily, name, operation string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "operation" && label.GetValue() == operation {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNewService_requiresDependencies(t *testing.T) {
	_, err := NewService(nil, &stubOrders{}, nil, nil)
	require.Error(t, err)
	_, err = NewService(&stubResolver{}, nil, nil, nil)
	require.Error(t, err)
}

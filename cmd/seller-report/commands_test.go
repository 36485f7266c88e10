package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/internal/orders"
	"github.com/angelmondragon/packfinderz-attribution/internal/reporting"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

type stubOrders struct {
	status *enums.OrderStatus
}

func (s *stubOrders) ListSellerOrders(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus) ([]orders.SellerOrder, error) {
	s.status = status
	return []orders.SellerOrder{{ID: uuid.New(), SellerAmount: money.MustFromString("20.00")}}, nil
}

func (s *stubOrders) GetSellerOrder(ctx context.Context, orderID, storeID uuid.UUID) (orders.SellerOrder, bool, error) {
	return orders.SellerOrder{}, false, nil
}

type stubRevenue struct {
	types.PeriodRequest
	limit int
}

func (s *stubRevenue) Overview(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (*types.RevenueOverview, error) {
	return &types.RevenueOverview{}, nil
}

func (s *stubRevenue) Trend(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) ([]types.TrendPoint, error) {
	return nil, nil
}

func (s *stubRevenue) ByCategory(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) ([]types.CategoryRevenue, error) {
	return nil, nil
}

func (s *stubRevenue) TopProducts(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) ([]types.TopProduct, error) {
	return nil, nil
}

func (s *stubRevenue) Dashboard(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) (*types.Dashboard, error) {
	s.PeriodRequest = period
	s.limit = limit
	return &types.Dashboard{Overview: &types.RevenueOverview{Revenue: money.MustFromString("100.00")}}, nil
}

func useStubs(t *testing.T, o *stubOrders, r *stubRevenue) {
	t.Helper()
	original := servicesFactory
	servicesFactory = func(ctx context.Context) (*reporting.Services, func() error, error) {
		return &reporting.Services{Orders: o, Revenue: r}, nil, nil
	}
	t.Cleanup(func() { servicesFactory = original })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOrdersCommand(t *testing.T) {
	o := &stubOrders{}
	useStubs(t, o, &stubRevenue{})

	out, err := execute(t, "orders", "--store", uuid.NewString(), "--status", "completed")
	require.NoError(t, err)
	require.NotNil(t, o.status)
	require.Equal(t, enums.OrderStatusCompleted, *o.status)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "20.00", decoded[0]["seller_amount"])
}

func TestOrdersCommandRejectsBadInput(t *testing.T) {
	useStubs(t, &stubOrders{}, &stubRevenue{})

	_, err := execute(t, "orders", "--store", "nope")
	require.Error(t, err)

	_, err = execute(t, "orders", "--store", uuid.NewString(), "--status", "shipped")
	require.Error(t, err)
}

func TestOrderCommandNotFound(t *testing.T) {
	useStubs(t, &stubOrders{}, &stubRevenue{})

	_, err := execute(t, "order", uuid.NewString(), "--store", uuid.NewString())
	require.ErrorContains(t, err, "not found")
}

func TestRevenueCommandCustomRange(t *testing.T) {
	r := &stubRevenue{}
	useStubs(t, &stubOrders{}, r)

	out, err := execute(t, "revenue", "--store", uuid.NewString(),
		"--from", "2025-03-01T00:00:00Z", "--to", "2025-03-08T00:00:00Z", "--limit", "3")
	require.NoError(t, err)
	require.Equal(t, enums.PeriodPresetCustom, r.Preset)
	require.True(t, r.From.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 3, r.limit)
	require.Contains(t, out, `"100.00"`)
}

func TestPeriodFromFlags(t *testing.T) {
	req, err := periodFromFlags("7d", "", "")
	require.NoError(t, err)
	require.Equal(t, enums.PeriodPreset7d, req.Preset)

	_, err = periodFromFlags("14d", "", "")
	require.Error(t, err)

	_, err = periodFromFlags("", "2025-03-01T00:00:00Z", "")
	require.Error(t, err)
}

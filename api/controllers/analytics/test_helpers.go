package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
)

type testRevenueService struct {
	calls    int
	storeID  uuid.UUID
	period   types.PeriodRequest
	limit    int
	overview *types.RevenueOverview
	err      error
}

func (s *testRevenueService) record(storeID uuid.UUID, period types.PeriodRequest, limit int) {
	s.calls++
	s.storeID = storeID
	s.period = period
	s.limit = limit
}

func (s *testRevenueService) Overview(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) (*types.RevenueOverview, error) {
	s.record(storeID, period, 0)
	if s.err != nil {
		return nil, s.err
	}
	if s.overview == nil {
		s.overview = &types.RevenueOverview{}
	}
	return s.overview, nil
}

func (s *testRevenueService) Trend(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) ([]types.TrendPoint, error) {
	s.record(storeID, period, 0)
	return []types.TrendPoint{}, s.err
}

func (s *testRevenueService) ByCategory(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest) ([]types.CategoryRevenue, error) {
	s.record(storeID, period, 0)
	return []types.CategoryRevenue{}, s.err
}

func (s *testRevenueService) TopProducts(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) ([]types.TopProduct, error) {
	s.record(storeID, period, limit)
	return []types.TopProduct{}, s.err
}

func (s *testRevenueService) Dashboard(ctx context.Context, storeID uuid.UUID, period types.PeriodRequest, limit int) (*types.Dashboard, error) {
	s.record(storeID, period, limit)
	if s.err != nil {
		return nil, s.err
	}
	return &types.Dashboard{}, nil
}

package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/api/middleware"
	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/pkg/config"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

var testEngine = config.EngineConfig{TopProductsLimit: 5, MaxTopProducts: 100}

func vendorRequest(target string, storeID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(middleware.WithStoreID(req.Context(), storeID))
}

func TestRevenueOverviewRequiresStore(t *testing.T) {
	service := &testRevenueService{}
	handler := RevenueOverview(service, logger.Nop())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/vendor/revenue/overview", nil))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without store, got %d", resp.Code)
	}
	if service.calls != 0 {
		t.Fatal("service should not be invoked without a store")
	}
}

func TestRevenueOverviewUsesPreset(t *testing.T) {
	storeID := uuid.New()
	service := &testRevenueService{
		overview: &types.RevenueOverview{
			Revenue:         money.MustFromString("100.00"),
			PreviousRevenue: money.MustFromString("50.00"),
			RevenueDelta:    100,
		},
	}
	handler := RevenueOverview(service, logger.Nop())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/overview?preset=7d", storeID))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if service.storeID != storeID {
		t.Fatalf("unexpected store %s", service.storeID)
	}
	if service.period.Preset != enums.PeriodPreset7d {
		t.Fatalf("unexpected preset %s", service.period.Preset)
	}

	var body struct {
		Data struct {
			Revenue      string  `json:"revenue"`
			RevenueDelta float64 `json:"revenue_delta"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Revenue != "100.00" || body.Data.RevenueDelta != 100 {
		t.Fatalf("unexpected payload %+v", body.Data)
	}
}

func TestRevenueOverviewMapsInvalidPeriod(t *testing.T) {
	service := &testRevenueService{err: pkgerrors.New(pkgerrors.CodeInvalidPeriod, "start must be before end")}
	handler := RevenueOverview(service, logger.Nop())

	resp := httptest.NewRecorder()
	target := "/api/v1/vendor/revenue/overview?from=2025-01-08T00:00:00Z&to=2025-01-01T00:00:00Z"
	handler.ServeHTTP(resp, vendorRequest(target, uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if service.period.Preset != enums.PeriodPresetCustom || service.period.From == nil {
		t.Fatalf("expected custom period to reach the service, got %+v", service.period)
	}
}

func TestRevenueRejectsBadPreset(t *testing.T) {
	service := &testRevenueService{}
	handler := RevenueTrend(service, logger.Nop())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/trend?preset=14d", uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if service.calls != 0 {
		t.Fatal("service should not be invoked for invalid input")
	}
}

func TestRevenueTopProductsLimit(t *testing.T) {
	service := &testRevenueService{}
	handler := RevenueTopProducts(service, testEngine, logger.Nop())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/top-products", uuid.New()))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if service.limit != 5 {
		t.Fatalf("expected default limit 5, got %d", service.limit)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/top-products?limit=1", uuid.New()))
	if resp.Code != http.StatusOK || service.limit != 1 {
		t.Fatalf("expected limit 1, got %d (status %d)", service.limit, resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/top-products?limit=101", uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 above max, got %d", resp.Code)
	}
}

func TestRevenueDashboardDependencyFailure(t *testing.T) {
	service := &testRevenueService{err: pkgerrors.DataAccess(errors.New("timeout"), "load orders")}
	handler := RevenueDashboard(service, testEngine, logger.Nop())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/dashboard?preset=90d", uuid.New()))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestRevenueCategoriesEnvelope(t *testing.T) {
	service := &testRevenueService{}
	handler := RevenueByCategory(service, logger.Nop())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, vendorRequest("/api/v1/vendor/revenue/categories", uuid.New()))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Data struct {
			Categories []any `json:"categories"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Categories == nil {
		t.Fatal("expected empty categories array, got null")
	}
	if service.period.Preset != enums.PeriodPreset30d {
		t.Fatalf("expected default preset, got %s", service.period.Preset)
	}
}

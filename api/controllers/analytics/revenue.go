package analytics

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/api/controllers/vendorcontext"
	"github.com/angelmondragon/packfinderz-attribution/api/responses"
	"github.com/angelmondragon/packfinderz-attribution/api/validators"
	"github.com/angelmondragon/packfinderz-attribution/internal/analytics"
	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
)

type trendResponse struct {
	Points []types.TrendPoint `json:"points"`
}

type categoriesResponse struct {
	Categories []types.CategoryRevenue `json:"categories"`
}

type topProductsResponse struct {
	Limit    int                `json:"limit"`
	Products []types.TopProduct `json:"products"`
}

func RevenueOverview(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		storeID, period, err := parseRevenueRequest(service, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Overview(ctx, storeID, period)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func RevenueTrend(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		storeID, period, err := parseRevenueRequest(service, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		points, err := service.Trend(ctx, storeID, period)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, trendResponse{Points: points})
	}
}

func RevenueByCategory(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		storeID, period, err := parseRevenueRequest(service, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		categories, err := service.ByCategory(ctx, storeID, period)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, categoriesResponse{Categories: categories})
	}
}

func RevenueTopProducts(service analytics.Service, engine config.EngineConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		storeID, period, err := parseRevenueRequest(service, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", engine.TopProductsLimit, 0, engine.MaxTopProducts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := service.TopProducts(ctx, storeID, period, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, topProductsResponse{Limit: limit, Products: products})
	}
}

func RevenueDashboard(service analytics.Service, engine config.EngineConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		storeID, period, err := parseRevenueRequest(service, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", engine.TopProductsLimit, 0, engine.MaxTopProducts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dashboard, err := service.Dashboard(ctx, storeID, period, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

func parseRevenueRequest(service analytics.Service, r *http.Request) (uuid.UUID, types.PeriodRequest, error) {
	if service == nil {
		return uuid.Nil, types.PeriodRequest{}, pkgerrors.New(pkgerrors.CodeInternal, "revenue service unavailable")
	}
	storeID, err := vendorcontext.ResolveVendorStoreID(r)
	if err != nil {
		return uuid.Nil, types.PeriodRequest{}, err
	}
	period, err := validators.ParsePeriod(r)
	if err != nil {
		return uuid.Nil, types.PeriodRequest{}, err
	}
	return storeID, period, nil
}

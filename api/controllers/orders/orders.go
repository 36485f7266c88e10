package orders

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-attribution/api/controllers/vendorcontext"
	"github.com/angelmondragon/packfinderz-attribution/api/responses"
	"github.com/angelmondragon/packfinderz-attribution/api/validators"
	internalorders "github.com/angelmondragon/packfinderz-attribution/internal/orders"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
)

type listResponse struct {
	Orders []internalorders.SellerOrder `json:"orders"`
	Count  int                          `json:"count"`
}

// List returns the seller's view of every order containing its products,
// optionally filtered by status.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		storeID, err := vendorcontext.ResolveVendorStoreID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := validators.ParseOrderStatus(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListSellerOrders(ctx, storeID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listResponse{Orders: list, Count: len(list)})
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		storeID, err := vendorcontext.ResolveVendorStoreID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orderID, err := vendorcontext.URLParamUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, found, err := svc.GetSellerOrder(ctx, orderID, storeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !found {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

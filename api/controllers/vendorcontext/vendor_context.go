package vendorcontext

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/api/middleware"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
)

// ResolveVendorStoreID extracts the seller store placed on the context by
// middleware.StoreContext.
func ResolveVendorStoreID(r *http.Request) (uuid.UUID, error) {
	storeID, ok := middleware.StoreIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context required")
	}
	return storeID, nil
}

// URLParamUUID parses a chi route parameter as a UUID.
func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := chi.URLParam(r, key)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).
			WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

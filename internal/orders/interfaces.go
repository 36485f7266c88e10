package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/internal/lineitems"
)

// Repository defines the read operations over orders and order_line_items.
type Repository interface {
	FindLineItemsByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]lineitems.LineItemRow, error)
	FindOrdersByIDs(ctx context.Context, ids []uuid.UUID, filter OrderFilter) ([]OrderRow, error)
}

// OrderReader is the subset of Repository the engines consume.
type OrderReader interface {
	FindOrdersByIDs(ctx context.Context, ids []uuid.UUID, filter OrderFilter) ([]OrderRow, error)
}

// LineItemResolver yields the line items that belong to a store.
type LineItemResolver interface {
	Resolve(ctx context.Context, storeID uuid.UUID) ([]lineitems.SellerLineItem, error)
}

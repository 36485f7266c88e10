package lineitems

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

const (
	// UnknownProductName labels items whose product metadata is missing.
	UnknownProductName = "Unknown product"
	// UncategorizedLabel labels items whose product has no category.
	UncategorizedLabel = "uncategorized"
)

// LineItemRow is one order_line_items row as read from storage.
type LineItemRow struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice money.Money
}

// SellerLineItem is a line item attributed to a seller, enriched with product metadata.
type SellerLineItem struct {
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       money.Money
	ProductName     string
	ProductCategory string
}

// LineTotal is quantity times the stored unit price.
func (i SellerLineItem) LineTotal() money.Money {
	return i.UnitPrice.MulQty(i.Quantity)
}

package products

import "github.com/google/uuid"

// ProductSummary is the product metadata needed to label seller line items.
type ProductSummary struct {
	ID       uuid.UUID
	StoreID  uuid.UUID
	Name     string
	Category *string
}

package models

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

// OrderLineItem is keyed by (order_id, product_id). UnitPrice is the price at
// time of purchase.
type OrderLineItem struct {
	OrderID   uuid.UUID   `gorm:"column:order_id;type:uuid;primaryKey"`
	ProductID uuid.UUID   `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity  int         `gorm:"column:quantity;not null"`
	UnitPrice money.Money `gorm:"column:unit_price;type:numeric(12,2);not null"`
}

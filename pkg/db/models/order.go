package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

// Order is the customer order. TotalAmount spans every seller's items.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID     uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null"`
	TotalAmount money.Money       `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Buyer       *User             `gorm:"foreignKey:BuyerID"`
	Items       []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

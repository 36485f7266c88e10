package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

// OrderFilter narrows FindOrdersByIDs. Nil fields are ignored; the created
// range is half-open [CreatedFrom, CreatedBefore).
type OrderFilter struct {
	Status        *enums.OrderStatus
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
}

// OrderRow is an order joined with its buyer identity.
type OrderRow struct {
	ID          uuid.UUID
	BuyerID     uuid.UUID
	BuyerName   string
	BuyerEmail  string
	TotalAmount money.Money
	Status      enums.OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Buyer identifies the customer who placed an order.
type Buyer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// SellerOrderItem is one of the seller's own line items within an order.
type SellerOrderItem struct {
	ProductID   uuid.UUID   `json:"product_id"`
	ProductName string      `json:"product_name"`
	Category    string      `json:"category"`
	Quantity    int         `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
	LineTotal   money.Money `json:"line_total"`
}

// SellerOrder is an order as seen by one seller. SellerAmount covers only the
// seller's items; TotalAmount covers every seller's items.
type SellerOrder struct {
	ID           uuid.UUID         `json:"id"`
	Buyer        Buyer             `json:"buyer"`
	TotalAmount  money.Money       `json:"total_amount"`
	SellerAmount money.Money       `json:"seller_amount"`
	IsPartial    bool              `json:"is_partial"`
	Status       enums.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Items        []SellerOrderItem `json:"items"`
}

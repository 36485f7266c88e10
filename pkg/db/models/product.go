package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the current catalog snapshot. Rows are soft deleted so historic
// line items keep resolving to their seller.
type Product struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID      `gorm:"column:store_id;type:uuid;not null"`
	Title     string         `gorm:"column:title;not null"`
	Category  *string        `gorm:"column:category"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

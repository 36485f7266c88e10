package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-attribution/internal/lineitems"
	"github.com/angelmondragon/packfinderz-attribution/internal/repo"
	"github.com/angelmondragon/packfinderz-attribution/pkg/db/models"
)

const orderRowColumns = `
o.id AS id,
o.buyer_id AS buyer_id,
COALESCE(u.name, '') AS buyer_name,
COALESCE(u.email, '') AS buyer_email,
o.total_amount AS total_amount,
o.status AS status,
o.created_at AS created_at,
o.updated_at AS updated_at`

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB, chunkSize int) Repository {
	return &repository{Base: repo.NewBase(db, chunkSize)}
}

func (r *repository) FindLineItemsByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]lineitems.LineItemRow, error) {
	if len(productIDs) == 0 {
		return []lineitems.LineItemRow{}, nil
	}

	out := make([]lineitems.LineItemRow, 0)
	for _, chunk := range repo.Chunk(productIDs, r.ChunkSize()) {
		var rows []lineitems.LineItemRow
		err := r.DB(ctx).
			Model(&models.OrderLineItem{}).
			Select("order_id", "product_id", "quantity", "unit_price").
			Where("product_id IN ?", chunk).
			Order("order_id ASC, product_id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func (r *repository) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID, filter OrderFilter) ([]OrderRow, error) {
	if len(ids) == 0 {
		return []OrderRow{}, nil
	}

	out := make([]OrderRow, 0, len(ids))
	for _, chunk := range repo.Chunk(ids, r.ChunkSize()) {
		query := r.DB(ctx).
			Table("orders AS o").
			Select(orderRowColumns).
			Joins("LEFT JOIN users AS u ON u.id = o.buyer_id").
			Where("o.id IN ?", chunk)
		if filter.Status != nil {
			query = query.Where("o.status = ?", string(*filter.Status))
		}
		if filter.CreatedFrom != nil {
			query = query.Where("o.created_at >= ?", filter.CreatedFrom.UTC())
		}
		if filter.CreatedBefore != nil {
			query = query.Where("o.created_at < ?", filter.CreatedBefore.UTC())
		}

		var rows []OrderRow
		if err := query.Scan(&rows).Error; err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-attribution/internal/repo"
	"github.com/angelmondragon/packfinderz-attribution/pkg/db/models"
)

// Repository reads the product catalog, including soft-deleted rows.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB, chunkSize int) *Repository {
	return &Repository{Base: repo.NewBase(db, chunkSize)}
}

// FindProductIDsByStore returns every product id the store has ever listed.
func (r *Repository) FindProductIDsByStore(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Unscoped().
		Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type productRow struct {
	ID       uuid.UUID
	StoreID  uuid.UUID
	Title    string
	Category *string
}

// FindProductsByIDs loads name and category for the given ids. Unknown ids are
// absent from the result.
func (r *Repository) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSummary, error) {
	if len(ids) == 0 {
		return []ProductSummary{}, nil
	}

	out := make([]ProductSummary, 0, len(ids))
	for _, chunk := range repo.Chunk(ids, r.ChunkSize()) {
		var rows []productRow
		err := r.DB(ctx).
			Unscoped().
			Model(&models.Product{}).
			Select("id", "store_id", "title", "category").
			Where("id IN ?", chunk).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			out = append(out, ProductSummary{
				ID:       row.ID,
				StoreID:  row.StoreID,
				Name:     row.Title,
				Category: row.Category,
			})
		}
	}
	return out, nil
}

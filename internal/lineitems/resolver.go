package lineitems

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/internal/products"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
	"github.com/angelmondragon/packfinderz-attribution/pkg/metrics"
)

const skipNonPositiveQuantity = "non_positive_quantity"

// ProductReader loads catalog data for a store.
type ProductReader interface {
	FindProductIDsByStore(ctx context.Context, storeID uuid.UUID) ([]uuid.UUID, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]products.ProductSummary, error)
}

// LineItemReader loads order line items for a set of products.
type LineItemReader interface {
	FindLineItemsByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]LineItemRow, error)
}

// Resolver determines which line items belong to a seller.
type Resolver struct {
	products ProductReader
	items    LineItemReader
	logg     *logger.Logger
	metrics  *metrics.EngineMetrics
}

// NewResolver wires the resolver. Logger and metrics are optional.
func NewResolver(productReader ProductReader, items LineItemReader, logg *logger.Logger, m *metrics.EngineMetrics) (*Resolver, error) {
	if productReader == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if items == nil {
		return nil, fmt.Errorf("line item reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{
		products: productReader,
		items:    items,
		logg:     logg,
		metrics:  m,
	}, nil
}

// Resolve returns every line item whose product belongs to the store. The
// reads run sequentially and any failure aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, storeID uuid.UUID) (items []SellerLineItem, err error) {
	defer r.metrics.Track("resolve_line_items", time.Now(), &err)

	productIDs, err := r.products.FindProductIDsByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.DataAccess(err, "load store products")
	}
	if len(productIDs) == 0 {
		return []SellerLineItem{}, nil
	}

	rows, err := r.items.FindLineItemsByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.DataAccess(err, "load line items")
	}
	if len(rows) == 0 {
		return []SellerLineItem{}, nil
	}

	owned := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		owned[id] = struct{}{}
	}

	referenced := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := owned[row.ProductID]; !ok {
			continue
		}
		if _, ok := seen[row.ProductID]; ok {
			continue
		}
		seen[row.ProductID] = struct{}{}
		referenced = append(referenced, row.ProductID)
	}

	summaries, err := r.products.FindProductsByIDs(ctx, referenced)
	if err != nil {
		return nil, pkgerrors.DataAccess(err, "load product metadata")
	}
	byID := make(map[uuid.UUID]products.ProductSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.ID] = summary
	}

	items = make([]SellerLineItem, 0, len(rows))
	for _, row := range rows {
		if _, ok := owned[row.ProductID]; !ok {
			continue
		}
		if row.Quantity <= 0 {
			logCtx := r.logg.WithFields(ctx, map[string]any{
				"order_id":   row.OrderID.String(),
				"product_id": row.ProductID.String(),
				"quantity":   row.Quantity,
			})
			r.logg.Warn(logCtx, "skipping line item with non-positive quantity")
			r.metrics.IncSkipped(skipNonPositiveQuantity)
			continue
		}
		name, category := labelsFor(byID, row.ProductID)
		items = append(items, SellerLineItem{
			OrderID:         row.OrderID,
			ProductID:       row.ProductID,
			Quantity:        row.Quantity,
			UnitPrice:       row.UnitPrice,
			ProductName:     name,
			ProductCategory: category,
		})
	}
	return items, nil
}

func labelsFor(byID map[uuid.UUID]products.ProductSummary, productID uuid.UUID) (string, string) {
	summary, ok := byID[productID]
	if !ok {
		return UnknownProductName, UncategorizedLabel
	}
	name := strings.TrimSpace(summary.Name)
	if name == "" {
		name = UnknownProductName
	}
	category := UncategorizedLabel
	if summary.Category != nil && strings.TrimSpace(*summary.Category) != "" {
		category = strings.TrimSpace(*summary.Category)
	}
	return name, category
}

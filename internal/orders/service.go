package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-attribution/internal/lineitems"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-attribution/pkg/errors"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
	"github.com/angelmondragon/packfinderz-attribution/pkg/metrics"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

// Service computes per-seller views of shared orders.
type Service interface {
	ListSellerOrders(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus) ([]SellerOrder, error)
	GetSellerOrder(ctx context.Context, orderID, storeID uuid.UUID) (SellerOrder, bool, error)
}

type service struct {
	resolver LineItemResolver
	orders   OrderReader
	logg     *logger.Logger
	metrics  *metrics.EngineMetrics
	epsilon  money.Money
}

// NewService builds the attribution service. A zero epsilon falls back to money.Epsilon.
func NewService(resolver LineItemResolver, orders OrderReader, logg *logger.Logger, m *metrics.EngineMetrics, epsilon money.Money) (Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("line item resolver required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if !epsilon.Decimal().IsPositive() {
		epsilon = money.Epsilon
	}
	return &service{
		resolver: resolver,
		orders:   orders,
		logg:     logg,
		metrics:  m,
		epsilon:  epsilon,
	}, nil
}

type orderGroup struct {
	sellerAmount money.Money
	items        []SellerOrderItem
}

func (s *service) ListSellerOrders(ctx context.Context, storeID uuid.UUID, status *enums.OrderStatus) (result []SellerOrder, err error) {
	defer s.metrics.Track("list_seller_orders", time.Now(), &err)
	ctx = s.logg.WithStoreID(ctx, storeID.String())

	items, err := s.resolver.Resolve(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []SellerOrder{}, nil
	}

	groups, orderIDs := groupByOrder(items)

	rows, err := s.orders.FindOrdersByIDs(ctx, orderIDs, OrderFilter{Status: status})
	if err != nil {
		return nil, pkgerrors.DataAccess(err, "load seller orders")
	}
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seller orders cancelled")
	}

	result = make([]SellerOrder, 0, len(rows))
	found := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		group, ok := groups[row.ID]
		if !ok {
			continue
		}
		found[row.ID] = struct{}{}
		result = append(result, s.buildSellerOrder(ctx, row, group))
	}

	if status == nil && len(found) < len(orderIDs) {
		for _, id := range orderIDs {
			if _, ok := found[id]; ok {
				continue
			}
			s.logg.Warn(s.logg.WithOrderID(ctx, id.String()), "line items reference a missing order; dropping")
		}
	}

	sortNewestFirst(result)
	return result, nil
}

func (s *service) GetSellerOrder(ctx context.Context, orderID, storeID uuid.UUID) (SellerOrder, bool, error) {
	list, err := s.ListSellerOrders(ctx, storeID, nil)
	if err != nil {
		return SellerOrder{}, false, err
	}
	for _, order := range list {
		if order.ID == orderID {
			return order, true, nil
		}
	}
	return SellerOrder{}, false, nil
}

func (s *service) buildSellerOrder(ctx context.Context, row OrderRow, group *orderGroup) SellerOrder {
	if group.sellerAmount.ExceedsBy(row.TotalAmount, s.epsilon) {
		logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, row.ID.String()), map[string]any{
			"seller_amount": group.sellerAmount.String(),
			"total_amount":  row.TotalAmount.String(),
		})
		s.logg.Warn(logCtx, "seller amount exceeds order total")
	}

	return SellerOrder{
		ID: row.ID,
		Buyer: Buyer{
			ID:    row.BuyerID,
			Name:  row.BuyerName,
			Email: row.BuyerEmail,
		},
		TotalAmount:  row.TotalAmount,
		SellerAmount: group.sellerAmount,
		IsPartial:    !group.sellerAmount.NearlyEqual(row.TotalAmount, s.epsilon),
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		Items:        group.items,
	}
}

func groupByOrder(items []lineitems.SellerLineItem) (map[uuid.UUID]*orderGroup, []uuid.UUID) {
	groups := make(map[uuid.UUID]*orderGroup)
	orderIDs := make([]uuid.UUID, 0)
	for _, item := range items {
		group, ok := groups[item.OrderID]
		if !ok {
			group = &orderGroup{sellerAmount: money.Zero()}
			groups[item.OrderID] = group
			orderIDs = append(orderIDs, item.OrderID)
		}
		lineTotal := item.LineTotal()
		group.sellerAmount = group.sellerAmount.Add(lineTotal)
		group.items = append(group.items, SellerOrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Category:    item.ProductCategory,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	return groups, orderIDs
}

func sortNewestFirst(list []SellerOrder) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}

package reporting

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics"
	"github.com/angelmondragon/packfinderz-attribution/internal/lineitems"
	"github.com/angelmondragon/packfinderz-attribution/internal/orders"
	"github.com/angelmondragon/packfinderz-attribution/internal/products"
	"github.com/angelmondragon/packfinderz-attribution/pkg/config"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
	"github.com/angelmondragon/packfinderz-attribution/pkg/metrics"
	"github.com/angelmondragon/packfinderz-attribution/pkg/money"
)

// Services is the seller-facing surface shared by the API and the CLI.
type Services struct {
	Orders  orders.Service
	Revenue analytics.Service
}

// NewServices wires the repositories, the line item resolver and both engines
// over a single connection.
func NewServices(conn *gorm.DB, engine config.EngineConfig, logg *logger.Logger, m *metrics.EngineMetrics) (*Services, error) {
	if conn == nil {
		return nil, errors.New("database connection required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	productRepo := products.NewRepository(conn, engine.QueryChunkSize)
	orderRepo := orders.NewRepository(conn, engine.QueryChunkSize)

	resolver, err := lineitems.NewResolver(productRepo, orderRepo, logg, m)
	if err != nil {
		return nil, fmt.Errorf("line item resolver: %w", err)
	}

	ordersSvc, err := orders.NewService(resolver, orderRepo, logg, m, money.New(engine.EpsilonDecimal()))
	if err != nil {
		return nil, fmt.Errorf("orders service: %w", err)
	}

	revenueSvc, err := analytics.NewService(resolver, orderRepo, logg, m)
	if err != nil {
		return nil, fmt.Errorf("revenue service: %w", err)
	}

	return &Services{Orders: ordersSvc, Revenue: revenueSvc}, nil
}

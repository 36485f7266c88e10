package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/packfinderz-attribution/internal/analytics/types"
	"github.com/angelmondragon/packfinderz-attribution/internal/reporting"
	"github.com/angelmondragon/packfinderz-attribution/pkg/config"
	"github.com/angelmondragon/packfinderz-attribution/pkg/db"
	"github.com/angelmondragon/packfinderz-attribution/pkg/enums"
	"github.com/angelmondragon/packfinderz-attribution/pkg/logger"
)

type rootOptions struct {
	storeID string
	pretty  bool
}

// servicesFactory is swapped in tests.
var servicesFactory = func(ctx context.Context) (*reporting.Services, func() error, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logg := logger.New(logger.Options{
		ServiceName: "seller-report",
		Level:       cfg.App.LogLevel,
		Output:      io.Discard,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, err
	}
	services, err := reporting.NewServices(client.DB(), cfg.Engine, logg, nil)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return services, client.Close, nil
}

func (o *rootOptions) store() (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(o.storeID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --store: %w", err)
	}
	return id, nil
}

func (o *rootOptions) print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func withServices(cmd *cobra.Command, fn func(ctx context.Context, services *reporting.Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, closeFn, err := servicesFactory(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(ctx, services)
}

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List every order containing the seller's products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storeID, err := opts.store()
			if err != nil {
				return err
			}
			var filter *enums.OrderStatus
			if status != "" {
				parsed, err := enums.ParseOrderStatus(status)
				if err != nil {
					return err
				}
				filter = &parsed
			}
			return withServices(cmd, func(ctx context.Context, services *reporting.Services) error {
				list, err := services.Orders.ListSellerOrders(ctx, storeID, filter)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by order status")
	return cmd
}

func newOrderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <order-id>",
		Short: "Show one order from the seller's perspective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, err := opts.store()
			if err != nil {
				return err
			}
			orderID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id: %w", err)
			}
			return withServices(cmd, func(ctx context.Context, services *reporting.Services) error {
				order, found, err := services.Orders.GetSellerOrder(ctx, orderID, storeID)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("order %s not found for store %s", orderID, storeID)
				}
				return opts.print(cmd.OutOrStdout(), order)
			})
		},
	}
}

func newRevenueCmd(opts *rootOptions) *cobra.Command {
	var (
		preset string
		from   string
		to     string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Print the revenue dashboard for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			storeID, err := opts.store()
			if err != nil {
				return err
			}
			period, err := periodFromFlags(preset, from, to)
			if err != nil {
				return err
			}
			return withServices(cmd, func(ctx context.Context, services *reporting.Services) error {
				dashboard, err := services.Revenue.Dashboard(ctx, storeID, period, limit)
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), dashboard)
			})
		},
	}
	cmd.Flags().StringVar(&preset, "preset", string(enums.PeriodPreset30d), "7d|30d|90d|ytd|custom")
	cmd.Flags().StringVar(&from, "from", "", "custom range start (RFC3339)")
	cmd.Flags().StringVar(&to, "to", "", "custom range end (RFC3339, exclusive)")
	cmd.Flags().IntVar(&limit, "limit", 5, "top products limit")
	return cmd
}

func periodFromFlags(preset, from, to string) (types.PeriodRequest, error) {
	if from != "" || to != "" {
		preset = string(enums.PeriodPresetCustom)
	}
	parsed, err := enums.ParsePeriodPreset(preset)
	if err != nil {
		return types.PeriodRequest{}, err
	}
	req := types.PeriodRequest{Preset: parsed}
	if parsed != enums.PeriodPresetCustom {
		return req, nil
	}
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return types.PeriodRequest{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return types.PeriodRequest{}, fmt.Errorf("invalid --to: %w", err)
	}
	req.From = &start
	req.To = &end
	return req, nil
}

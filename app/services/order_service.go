// Package services implements the marketplace operations on top of the
// repositories. Every store dependency is an interface passed in at
// construction time.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/logger"
	"github.com/farmermarket/backend/pkg/metrics"
)

// OrderStore is the persistence the order manager needs.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByOrderID(ctx context.Context, orderID string) (models.Order, error)
	FindByBuyerEmailFold(ctx context.Context, email string) ([]models.Order, error)
	FindByBuyerEmail(ctx context.Context, email string) ([]models.Order, error)
	FindByBuyerEmailContaining(ctx context.Context, fragment string) ([]models.Order, error)
	FindByStatusFold(ctx context.Context, status string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	ReplaceItems(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, order *models.Order) error
}

// lookupStrategy is one way of matching a buyer email against stored orders.
type lookupStrategy struct {
	name string
	find func(ctx context.Context, email string) ([]models.Order, error)
}

type OrderService struct {
	orders     OrderStore
	strategies []lookupStrategy
	now        func() time.Time
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{
		orders: orders,
		// most precise first
		strategies: []lookupStrategy{
			{name: "case_insensitive", find: orders.FindByBuyerEmailFold},
			{name: "exact", find: orders.FindByBuyerEmail},
			{name: "contains", find: orders.FindByBuyerEmailContaining},
		},
		now: time.Now,
	}
}

// NewOrderID returns a fresh business id such as "ORD-3F2A9C1B7D4E".
func NewOrderID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:12])
}

// PlaceOrder persists order and its items as one aggregate. Status and order
// date are always reset; a blank orderId is generated.
func (s *OrderService) PlaceOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = 0
	order.Status = models.StatusPending
	order.OrderDate = s.now()
	order.OrderID = strings.TrimSpace(order.OrderID)
	if order.OrderID == "" {
		order.OrderID = NewOrderID()
	}
	for i := range order.Items {
		order.Items[i].ID = 0
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("services: place order %q: %w", order.OrderID, translate(err))
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed", "order_id", order.OrderID, "items", len(order.Items))
	return order, nil
}

// BuyerOrders tries each lookup strategy in turn and returns the first
// non-empty result. A failing strategy is logged and skipped.
func (s *OrderService) BuyerOrders(ctx context.Context, email string) ([]models.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []models.Order{}, nil
	}

	for _, strategy := range s.strategies {
		found, err := strategy.find(ctx, email)
		if err != nil {
			logger.WithCtx(ctx).Warn("buyer order lookup failed",
				"strategy", strategy.name, "email", email, "error", err)
			continue
		}
		if len(found) > 0 {
			metrics.BuyerLookupMatches.WithLabelValues(strategy.name).Inc()
			return found, nil
		}
	}

	metrics.BuyerLookupMatches.WithLabelValues("none").Inc()
	return []models.Order{}, nil
}

func (s *OrderService) PendingOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.FindByStatusFold(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("services: pending orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) AllOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("services: all orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) OrderByID(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return order, fmt.Errorf("services: order %q: %w", orderID, translate(err))
	}
	return order, nil
}

// UpdateStatus overwrites the status with any caller-chosen string.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (models.Order, error) {
	order, err := s.OrderByID(ctx, orderID)
	if err != nil {
		return order, err
	}

	previous := order.Status
	order.Status = status
	if err := s.orders.UpdateStatus(ctx, &order); err != nil {
		return order, fmt.Errorf("services: update status of %q: %w", orderID, err)
	}

	metrics.OrderStatusUpdates.WithLabelValues(strings.ToLower(status)).Inc()
	logger.WithCtx(ctx).Info("order status changed", "order_id", orderID, "from", previous, "to", status)
	return order, nil
}

// ReplaceItems swaps the order's item list. Items whose id does not belong to
// the order, and repeats of an id already listed, are inserted as new lines.
func (s *OrderService) ReplaceItems(ctx context.Context, orderID string, items []models.OrderItem) (models.Order, error) {
	order, err := s.OrderByID(ctx, orderID)
	if err != nil {
		return order, err
	}

	owned := make(map[uint]bool, len(order.Items))
	for _, it := range order.Items {
		owned[it.ID] = true
	}
	seen := make(map[uint]bool, len(items))
	for i := range items {
		id := items[i].ID
		if !owned[id] || seen[id] {
			items[i].ID = 0
			continue
		}
		seen[id] = true
	}

	order.SetItems(items)
	if err := s.orders.ReplaceItems(ctx, &order); err != nil {
		return order, fmt.Errorf("services: replace items of %q: %w", orderID, err)
	}
	return s.OrderByID(ctx, orderID)
}

// Cancel deletes the order and all of its items.
func (s *OrderService) Cancel(ctx context.Context, orderID string) error {
	order, err := s.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, &order); err != nil {
		return fmt.Errorf("services: cancel %q: %w", orderID, err)
	}

	logger.WithCtx(ctx).Info("order cancelled", "order_id", orderID)
	return nil
}

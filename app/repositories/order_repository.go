package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/metrics"
)

// OrderRepository stores orders together with their items.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and all of its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDBQuery("orders.create", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return fmt.Errorf("repositories: create order: %w", err)
	}
	order.RelinkItems()
	return nil
}

// FindByOrderID looks an order up by its public, case-sensitive id.
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (models.Order, error) {
	defer metrics.ObserveDBQuery("orders.find", time.Now())

	var order models.Order
	err := withItems(r.db.WithContext(ctx)).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return order, fmt.Errorf("repositories: find order %q: %w", orderID, err)
	}
	return order, nil
}

// FindByBuyerEmailFold matches the buyer email ignoring case.
func (r *OrderRepository) FindByBuyerEmailFold(ctx context.Context, email string) ([]models.Order, error) {
	return r.list(ctx, "orders.by_email_fold", "LOWER(buyer_email) = LOWER(?)", email)
}

// FindByBuyerEmail matches the buyer email exactly.
func (r *OrderRepository) FindByBuyerEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.list(ctx, "orders.by_email", "buyer_email = ?", email)
}

// FindByBuyerEmailContaining matches orders whose buyer email contains fragment.
func (r *OrderRepository) FindByBuyerEmailContaining(ctx context.Context, fragment string) ([]models.Order, error) {
	return r.list(ctx, "orders.by_email_like",
		"buyer_email LIKE ? ESCAPE '"+likeEscape+"'", "%"+escapeLike(fragment)+"%")
}

// FindByStatusFold matches the status ignoring case.
func (r *OrderRepository) FindByStatusFold(ctx context.Context, status string) ([]models.Order, error) {
	return r.list(ctx, "orders.by_status", "LOWER(status) = LOWER(?)", status)
}

// All returns every order.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	defer metrics.ObserveDBQuery("orders.all", time.Now())

	var orders []models.Order
	if err := withItems(r.db.WithContext(ctx)).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("repositories: list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus writes only the status column of order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDBQuery("orders.update_status", time.Now())

	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", order.Status).Error
	if err != nil {
		return fmt.Errorf("repositories: update status of %q: %w", order.OrderID, err)
	}
	return nil
}

// ReplaceItems saves order.Items and deletes every stored item of the order
// that is no longer in the list.
func (r *OrderRepository) ReplaceItems(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDBQuery("orders.replace_items", time.Now())

	order.RelinkItems()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		kept := make([]uint, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			kept = append(kept, item.ID)
		}

		orphans := tx.Where("order_ref = ?", order.ID)
		if len(kept) > 0 {
			orphans = orphans.Where("id NOT IN ?", kept)
		}
		return orphans.Delete(&models.OrderItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("repositories: replace items of %q: %w", order.OrderID, err)
	}
	return nil
}

// Delete removes the order and its items in one transaction.
func (r *OrderRepository) Delete(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDBQuery("orders.delete", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_ref = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
	if err != nil {
		return fmt.Errorf("repositories: delete order %q: %w", order.OrderID, err)
	}
	return nil
}

func (r *OrderRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]models.Order, error) {
	defer metrics.ObserveDBQuery(op, time.Now())

	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).Where(query, args...).Order("id ASC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("repositories: %s: %w", op, err)
	}
	return orders, nil
}

package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/restaurant/internal/models"
)

// CreateOrder inserts the order and then its items; call it inside Transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(&order.Items).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items.Food").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	q := r.DB.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Preload("Food").Where("order_id = ?", id).Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID *uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	byUser := func(db *gorm.DB) *gorm.DB {
		if userID != nil {
			return db.Where("user_id = ?", *userID)
		}
		return db
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Scopes(byUser).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).Scopes(byUser).Preload("Items.Food").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

func (r *GormRepo) CreateReceipt(ctx context.Context, rc *models.Receipt) error {
	return r.DB.WithContext(ctx).Create(rc).Error
}

func (r *GormRepo) GetReceiptByOrder(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error) {
	var rc models.Receipt
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&rc).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *GormRepo) ReceiptExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Receipt{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

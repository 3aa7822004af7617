package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-preorder/internal/model"
)

// OrderRepository writes orders and their items as separate statements. No
// call here opens a transaction; order placement sequences them itself.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	Delete(ctx context.Context, orderID string) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	CountItems(ctx context.Context, orderID string) (int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Order, error)
	ListByVendor(ctx context.Context, vendorID string, status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Delete removes the order row. Deleting an order that is already gone is
// not an error.
func (r *orderRepoImpl) Delete(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&model.Order{}).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	items, err := r.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at, name").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepoImpl) CountItems(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("order_id = ?", orderID).
		Count(&count).Error

	return count, err
}

func (r *orderRepoImpl) ListByStudent(ctx context.Context, studentID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// ListByVendor returns the vendor's orders by pickup time. An empty status
// returns every status.
func (r *orderRepoImpl) ListByVendor(ctx context.Context, vendorID string, status model.OrderStatus) ([]model.Order, error) {
	query := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("pickup_at").Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateStatus moves the order from one status to another. It returns
// gorm.ErrRecordNotFound when the order is missing or no longer in from.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

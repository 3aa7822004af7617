package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-preorder/internal/model"
)

type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, itemID string) (*model.MenuItem, error)
	ListByVendor(ctx context.Context, vendorID string, onlyAvailable bool) ([]model.MenuItem, error)
	SetAvailability(ctx context.Context, vendorID, itemID string, available bool) error
}

type menuRepoImpl struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepoImpl{
		db: db,
	}
}

func (r *menuRepoImpl) Create(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepoImpl) FindByID(ctx context.Context, itemID string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *menuRepoImpl) ListByVendor(ctx context.Context, vendorID string, onlyAvailable bool) ([]model.MenuItem, error) {
	query := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID)
	if onlyAvailable {
		query = query.Where("is_available = ?", true)
	}

	var items []model.MenuItem
	if err := query.Order("name").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

// SetAvailability is scoped to the vendor so one canteen cannot toggle
// another's items.
func (r *menuRepoImpl) SetAvailability(ctx context.Context, vendorID, itemID string, available bool) error {
	result := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("id = ? AND vendor_id = ?", itemID, vendorID).
		Updates(map[string]interface{}{
			"is_available": available,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

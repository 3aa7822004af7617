package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-preorder/internal/model"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	Get(ctx context.Context, vendorID string) (*model.Vendor, error)
	GetByOwner(ctx context.Context, ownerID string) (*model.Vendor, error)
	List(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error)
	UpdateStatus(ctx context.Context, vendorID string, status model.VendorStatus) error
}

type vendorRepoImpl struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepoImpl{
		db: db,
	}
}

func (r *vendorRepoImpl) Create(ctx context.Context, vendor *model.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *vendorRepoImpl) Get(ctx context.Context, vendorID string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", vendorID).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}

	return &vendor, nil
}

func (r *vendorRepoImpl) GetByOwner(ctx context.Context, ownerID string) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}

	return &vendor, nil
}

// List returns vendors by name. An empty status returns all of them.
func (r *vendorRepoImpl) List(ctx context.Context, status model.VendorStatus) ([]model.Vendor, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var vendors []model.Vendor
	if err := query.Order("name").Find(&vendors).Error; err != nil {
		return nil, err
	}

	return vendors, nil
}

func (r *vendorRepoImpl) UpdateStatus(ctx context.Context, vendorID string, status model.VendorStatus) error {
	result := r.db.
		WithContext(ctx).
		Model(&model.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"status":     status,
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

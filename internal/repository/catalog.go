package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-preorder/internal/model"
)

// CatalogRepository reads the pickup reference data: locations and time slots.
type CatalogRepository interface {
	Seed(ctx context.Context) error
	ListLocations(ctx context.Context) ([]model.PickupLocation, error)
	GetLocation(ctx context.Context, id string) (*model.PickupLocation, error)
	ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error)
	GetTimeSlot(ctx context.Context, id string) (*model.TimeSlot, error)
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepoImpl{
		db: db,
	}
}

func (r *catalogRepoImpl) Seed(ctx context.Context) error {
	locations := []model.PickupLocation{
		{ID: "loc-lobby", Name: "Main Lobby", Floor: 1, IsActive: true},
		{ID: "loc-library", Name: "Library Counter", Floor: 2, IsActive: true},
		{ID: "loc-lab", Name: "Computer Lab", Floor: 3, IsActive: true},
		{ID: "loc-hall", Name: "Lecture Hall", Floor: 5, IsActive: true},
		{ID: "loc-rooftop", Name: "Rooftop Lounge", Floor: 9, IsActive: true},
	}
	slots := []model.TimeSlot{
		{ID: "slot-0900", TimeRangeLabel: "09:00-11:00", StartTime: "09:00:00", EndTime: "11:00:00", IsActive: true},
		{ID: "slot-1100", TimeRangeLabel: "11:00-13:00", StartTime: "11:00:00", EndTime: "13:00:00", IsActive: true},
		{ID: "slot-1300", TimeRangeLabel: "13:00-15:00", StartTime: "13:00:00", EndTime: "15:00:00", IsActive: true},
		{ID: "slot-1500", TimeRangeLabel: "15:00-17:00", StartTime: "15:00:00", EndTime: "17:00:00", IsActive: true},
		{ID: "slot-1700", TimeRangeLabel: "17:00-19:00", StartTime: "17:00:00", EndTime: "19:00:00", IsActive: true},
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&locations).Error; err != nil {
		return fmt.Errorf("seed pickup locations: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots).Error; err != nil {
		return fmt.Errorf("seed time slots: %w", err)
	}

	return nil
}

func (r *catalogRepoImpl) ListLocations(ctx context.Context) ([]model.PickupLocation, error) {
	var locations []model.PickupLocation
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("floor, name").
		Find(&locations).
		Error

	if err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *catalogRepoImpl) GetLocation(ctx context.Context, id string) (*model.PickupLocation, error) {
	var location model.PickupLocation
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&location).Error

	if err != nil {
		return nil, err
	}

	return &location, nil
}

func (r *catalogRepoImpl) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_time").
		Find(&slots).
		Error

	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *catalogRepoImpl) GetTimeSlot(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&slot).Error

	if err != nil {
		return nil, err
	}

	return &slot, nil
}

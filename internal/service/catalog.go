package service

import (
	"context"
	"fmt"

	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

type CatalogService interface {
	SeedReferenceData(ctx context.Context) error
	ListLocations(ctx context.Context) ([]model.PickupLocation, error)
	ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error)
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	VendorMenu(ctx context.Context, vendorID string) ([]model.MenuItem, error)
}

type catalogServiceImpl struct {
	catalogRepo repository.CatalogRepository
	vendorRepo  repository.VendorRepository
	menuRepo    repository.MenuRepository
}

func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	vendorRepo repository.VendorRepository,
	menuRepo repository.MenuRepository,
) CatalogService {
	return &catalogServiceImpl{
		catalogRepo: catalogRepo,
		vendorRepo:  vendorRepo,
		menuRepo:    menuRepo,
	}
}

func (s *catalogServiceImpl) SeedReferenceData(ctx context.Context) error {
	if err := s.catalogRepo.Seed(ctx); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	return nil
}

func (s *catalogServiceImpl) ListLocations(ctx context.Context) ([]model.PickupLocation, error) {
	return s.catalogRepo.ListLocations(ctx)
}

func (s *catalogServiceImpl) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	return s.catalogRepo.ListTimeSlots(ctx)
}

// ListVendors only shows vendors students can order from.
func (s *catalogServiceImpl) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	return s.vendorRepo.List(ctx, model.VendorApproved)
}

func (s *catalogServiceImpl) VendorMenu(ctx context.Context, vendorID string) ([]model.MenuItem, error) {
	vendor, err := s.vendorRepo.Get(ctx, vendorID)
	if err != nil {
		return nil, notFound(err, "vendor")
	}
	if vendor.Status != model.VendorApproved {
		return nil, fmt.Errorf("vendor: %w", ErrNotFound)
	}

	return s.menuRepo.ListByVendor(ctx, vendorID, true)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

// VendorService is what a canteen account can do. Every call is scoped to the
// vendor owned by ownerID.
type VendorService interface {
	Apply(ctx context.Context, ownerID, name, description string) (*model.Vendor, error)
	Mine(ctx context.Context, ownerID string) (*model.Vendor, error)
	AddMenuItem(ctx context.Context, ownerID string, item model.MenuItem) (*model.MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, ownerID, itemID string, available bool) error
	ListOrders(ctx context.Context, ownerID string, status model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, ownerID, orderID string, to model.OrderStatus) (*model.Order, error)
}

type vendorServiceImpl struct {
	vendorRepo repository.VendorRepository
	menuRepo   repository.MenuRepository
	orderRepo  repository.OrderRepository
	log        *slog.Logger
}

func NewVendorService(
	vendorRepo repository.VendorRepository,
	menuRepo repository.MenuRepository,
	orderRepo repository.OrderRepository,
	log *slog.Logger,
) VendorService {
	return &vendorServiceImpl{
		vendorRepo: vendorRepo,
		menuRepo:   menuRepo,
		orderRepo:  orderRepo,
		log:        log,
	}
}

func (s *vendorServiceImpl) Apply(ctx context.Context, ownerID, name, description string) (*model.Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("vendor name is required")
	}

	_, err := s.vendorRepo.GetByOwner(ctx, ownerID)
	if err == nil {
		return nil, ErrAlreadyVendor
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get vendor by owner: %w", err)
	}

	vendor := &model.Vendor{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Status:      model.VendorPending,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	s.log.InfoContext(ctx, "vendor application received",
		slog.String("action", "vendor_apply"),
		slog.String("vendor_id", vendor.ID),
	)
	return vendor, nil
}

func (s *vendorServiceImpl) Mine(ctx context.Context, ownerID string) (*model.Vendor, error) {
	vendor, err := s.vendorRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, notFound(err, "vendor")
	}
	return vendor, nil
}

// approved returns the caller's vendor if it may operate.
func (s *vendorServiceImpl) approved(ctx context.Context, ownerID string) (*model.Vendor, error) {
	vendor, err := s.Mine(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if vendor.Status != model.VendorApproved {
		return nil, fmt.Errorf("vendor is %s: %w", vendor.Status, ErrForbidden)
	}
	return vendor, nil
}

func (s *vendorServiceImpl) AddMenuItem(ctx context.Context, ownerID string, item model.MenuItem) (*model.MenuItem, error) {
	vendor, err := s.approved(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, invalid("menu item name is required")
	}
	if item.Price <= 0 {
		return nil, invalid("menu item price must be positive")
	}

	item.ID = uuid.NewString()
	item.VendorID = vendor.ID
	item.IsAvailable = true
	if err := s.menuRepo.Create(ctx, &item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return &item, nil
}

func (s *vendorServiceImpl) SetMenuItemAvailability(ctx context.Context, ownerID, itemID string, available bool) error {
	vendor, err := s.approved(ctx, ownerID)
	if err != nil {
		return err
	}

	if err := s.menuRepo.SetAvailability(ctx, vendor.ID, itemID, available); err != nil {
		return notFound(err, "menu item")
	}
	return nil
}

func (s *vendorServiceImpl) ListOrders(ctx context.Context, ownerID string, status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown order status %q", status)
	}

	vendor, err := s.Mine(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByVendor(ctx, vendor.ID, status)
	if err != nil {
		return nil, fmt.Errorf("list vendor orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus advances one of the vendor's orders along the order
// lifecycle.
func (s *vendorServiceImpl) UpdateOrderStatus(ctx context.Context, ownerID, orderID string, to model.OrderStatus) (*model.Order, error) {
	if !to.Valid() {
		return nil, invalid("unknown order status %q", to)
	}

	vendor, err := s.approved(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.VendorID != vendor.ID {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}

	if !model.CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, to, ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order changed meanwhile: %w", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.log.InfoContext(ctx, "order status changed",
		slog.String("action", "update_order_status"),
		slog.String("order_id", order.ID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(to)),
	)
	order.Status = to
	return order, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/checkout"
	"campus-preorder/internal/clock"
	"campus-preorder/internal/guard"
	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

// maxNotesLength matches the special_instructions column size.
const maxNotesLength = 500

type SubmitInput struct {
	PickupLocationID string
	TimeSlotID       string
	Day              checkout.Day
	Notes            string
	PaymentMethod    model.PaymentMethod
	PaymentNonce     string
}

type CheckoutService interface {
	AvailableSlots(ctx context.Context, day checkout.Day) ([]model.TimeSlot, error)
	Quote(ctx context.Context, studentID, locationID string) (checkout.Quote, error)
	Submit(ctx context.Context, studentID string, in SubmitInput) (*model.Order, error)
}

type checkoutServiceImpl struct {
	catalogRepo repository.CatalogRepository
	vendorRepo  repository.VendorRepository
	menuRepo    repository.MenuRepository
	carts       cart.Store
	orders      OrderService
	submitGuard guard.Guard
	lockTTL     time.Duration
	clock       clock.Clock
	log         *slog.Logger
}

func NewCheckoutService(
	catalogRepo repository.CatalogRepository,
	vendorRepo repository.VendorRepository,
	menuRepo repository.MenuRepository,
	carts cart.Store,
	orders OrderService,
	submitGuard guard.Guard,
	lockTTL time.Duration,
	clk clock.Clock,
	log *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		catalogRepo: catalogRepo,
		vendorRepo:  vendorRepo,
		menuRepo:    menuRepo,
		carts:       carts,
		orders:      orders,
		submitGuard: submitGuard,
		lockTTL:     lockTTL,
		clock:       clk,
		log:         log,
	}
}

func (s *checkoutServiceImpl) AvailableSlots(ctx context.Context, day checkout.Day) ([]model.TimeSlot, error) {
	slots, err := s.catalogRepo.ListTimeSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return checkout.AvailableSlots(slots, s.clock.Now(), day), nil
}

func (s *checkoutServiceImpl) Quote(ctx context.Context, studentID, locationID string) (checkout.Quote, error) {
	c, err := s.carts.Get(ctx, studentID)
	if err != nil {
		return checkout.Quote{}, fmt.Errorf("load cart: %w", err)
	}

	location, err := s.optionalLocation(ctx, locationID)
	if err != nil {
		return checkout.Quote{}, err
	}

	return checkout.NewQuote(c, location), nil
}

// Submit assembles the draft from the stored cart and the selected reference
// data, then places the order while holding the student's submit lock.
func (s *checkoutServiceImpl) Submit(ctx context.Context, studentID string, in SubmitInput) (*model.Order, error) {
	switch in.PaymentMethod {
	case "", model.PaymentAtPickup, model.PaymentInstant:
	default:
		return nil, invalid("unknown payment method %q", in.PaymentMethod)
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLength {
		return nil, invalid("notes must be at most %d characters", maxNotesLength)
	}

	location, err := s.optionalLocation(ctx, in.PickupLocationID)
	if err != nil {
		return nil, err
	}
	slot, err := s.optionalSlot(ctx, in.TimeSlotID)
	if err != nil {
		return nil, err
	}

	release, err := s.submitGuard.Acquire(ctx, "submit:"+studentID, s.lockTTL)
	if errors.Is(err, guard.ErrHeld) {
		return nil, &checkout.OrderError{Kind: checkout.ErrDuplicateSubmission}
	}
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.WarnContext(ctx, "release submit lock",
				slog.String("action", "submit_order"),
				slog.String("student_id", studentID),
				slog.Any("error", err),
			)
		}
	}()

	c, err := s.carts.Get(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := s.checkSellable(ctx, c); err != nil {
		return nil, err
	}

	return s.orders.PlaceOrder(ctx, studentID, checkout.Draft{
		Cart:          c,
		Location:      location,
		Slot:          slot,
		Day:           in.Day,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		PaymentNonce:  in.PaymentNonce,
	})
}

// checkSellable rejects a cart whose vendor is no longer approved or that
// holds an item the vendor has since withdrawn. An empty cart is left to
// order validation.
func (s *checkoutServiceImpl) checkSellable(ctx context.Context, c cart.Cart) error {
	if c.IsEmpty() {
		return nil
	}

	vendor, err := s.vendorRepo.Get(ctx, c.VendorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("vendor %s: %w", c.VendorID, ErrVendorUnavailable)
	}
	if err != nil {
		return fmt.Errorf("get vendor: %w", err)
	}
	if vendor.Status != model.VendorApproved {
		return fmt.Errorf("vendor is %s: %w", vendor.Status, ErrVendorUnavailable)
	}

	for _, line := range c.Lines {
		item, err := s.menuRepo.FindByID(ctx, line.MenuItemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s: %w", line.Name, ErrItemUnavailable)
		}
		if err != nil {
			return fmt.Errorf("get menu item: %w", err)
		}
		if !item.IsAvailable || item.VendorID != vendor.ID {
			return fmt.Errorf("%s: %w", line.Name, ErrItemUnavailable)
		}
	}
	return nil
}

// optionalLocation returns nil for an empty id; an unknown or inactive id is
// ErrNotFound.
func (s *checkoutServiceImpl) optionalLocation(ctx context.Context, id string) (*model.PickupLocation, error) {
	if id == "" {
		return nil, nil
	}
	location, err := s.catalogRepo.GetLocation(ctx, id)
	if err != nil {
		return nil, notFound(err, "pickup location")
	}
	return location, nil
}

func (s *checkoutServiceImpl) optionalSlot(ctx context.Context, id string) (*model.TimeSlot, error) {
	if id == "" {
		return nil, nil
	}
	slot, err := s.catalogRepo.GetTimeSlot(ctx, id)
	if err != nil {
		return nil, notFound(err, "time slot")
	}
	return slot, nil
}

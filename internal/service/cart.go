package service

import (
	"context"
	"errors"
	"fmt"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

// CartService applies cart transitions and persists the result. Prices and
// names always come from the menu, never from the client.
type CartService interface {
	Get(ctx context.Context, studentID string) (cart.Cart, error)
	AddItem(ctx context.Context, studentID, menuItemID string, quantity int) (cart.Cart, error)
	SetQuantity(ctx context.Context, studentID, menuItemID string, quantity int) (cart.Cart, error)
	RemoveItem(ctx context.Context, studentID, menuItemID string) (cart.Cart, error)
	Clear(ctx context.Context, studentID string) error
}

type cartServiceImpl struct {
	carts      cart.Store
	menuRepo   repository.MenuRepository
	vendorRepo repository.VendorRepository
}

func NewCartService(
	carts cart.Store,
	menuRepo repository.MenuRepository,
	vendorRepo repository.VendorRepository,
) CartService {
	return &cartServiceImpl{
		carts:      carts,
		menuRepo:   menuRepo,
		vendorRepo: vendorRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, studentID string) (cart.Cart, error) {
	return s.carts.Get(ctx, studentID)
}

func (s *cartServiceImpl) AddItem(ctx context.Context, studentID, menuItemID string, quantity int) (cart.Cart, error) {
	item, err := s.menuRepo.FindByID(ctx, menuItemID)
	if err != nil {
		return cart.Cart{}, notFound(err, "menu item")
	}
	if !item.IsAvailable {
		return cart.Cart{}, ErrItemUnavailable
	}

	vendor, err := s.vendorRepo.Get(ctx, item.VendorID)
	if err != nil {
		return cart.Cart{}, notFound(err, "vendor")
	}
	if vendor.Status != model.VendorApproved {
		return cart.Cart{}, ErrVendorUnavailable
	}

	current, err := s.carts.Get(ctx, studentID)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	next, err := current.Add(item.VendorID, cart.Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
	})
	if err != nil {
		return current, cartInputError(err)
	}

	return next, s.carts.Put(ctx, studentID, next)
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, studentID, menuItemID string, quantity int) (cart.Cart, error) {
	current, err := s.carts.Get(ctx, studentID)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	next, err := current.SetQuantity(menuItemID, quantity)
	if err != nil {
		return current, cartInputError(err)
	}

	return next, s.carts.Put(ctx, studentID, next)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, studentID, menuItemID string) (cart.Cart, error) {
	current, err := s.carts.Get(ctx, studentID)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	next := current.Remove(menuItemID)
	return next, s.carts.Put(ctx, studentID, next)
}

func (s *cartServiceImpl) Clear(ctx context.Context, studentID string) error {
	return s.carts.Delete(ctx, studentID)
}

func cartInputError(err error) error {
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, cart.ErrInvalidQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}

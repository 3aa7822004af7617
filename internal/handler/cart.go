package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-preorder/internal/dto"
	"campus-preorder/internal/middleware"
	"campus-preorder/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if req.MenuItemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "menu_item_id is required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cartService.AddItem(ctx, middleware.UserID(c), req.MenuItemID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	cart, err := h.cartService.SetQuantity(ctx, middleware.UserID(c), c.Param("menuItemID"), req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.RemoveItem(ctx, middleware.UserID(c), c.Param("menuItemID"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewCartResponse(cart))
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.Clear(ctx, middleware.UserID(c)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

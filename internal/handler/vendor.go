package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-preorder/internal/dto"
	"campus-preorder/internal/middleware"
	"campus-preorder/internal/model"
	"campus-preorder/internal/service"
)

// VendorHandler serves the signed-in user's vendor account. Every call is
// scoped to the vendor owned by the caller.
type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

func (h *VendorHandler) Apply(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ApplyVendorRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	vendor, err := h.vendorService.Apply(ctx, middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, vendor)
}

func (h *VendorHandler) Mine(c echo.Context) error {
	ctx := c.Request().Context()

	vendor, err := h.vendorService.Mine(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) AddMenuItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	item, err := h.vendorService.AddMenuItem(ctx, middleware.UserID(c), model.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, item)
}

func (h *VendorHandler) SetMenuItemAvailability(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if req.IsAvailable == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_available is required")
	}

	if err := h.vendorService.SetMenuItemAvailability(ctx, middleware.UserID(c), c.Param("id"), *req.IsAvailable); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"is_available": *req.IsAvailable,
	})
}

func (h *VendorHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.vendorService.ListOrders(ctx, middleware.UserID(c), model.OrderStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *VendorHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	order, err := h.vendorService.UpdateOrderStatus(ctx, middleware.UserID(c), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

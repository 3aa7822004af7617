package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-preorder/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListLocations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.catalogService.ListLocations(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, locations)
}

func (h *CatalogHandler) ListTimeSlots(c echo.Context) error {
	ctx := c.Request().Context()

	slots, err := h.catalogService.ListTimeSlots(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, slots)
}

func (h *CatalogHandler) ListVendors(c echo.Context) error {
	ctx := c.Request().Context()

	vendors, err := h.catalogService.ListVendors(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vendors)
}

func (h *CatalogHandler) VendorMenu(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.catalogService.VendorMenu(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

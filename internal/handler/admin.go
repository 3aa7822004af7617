package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-preorder/internal/dto"
	"campus-preorder/internal/model"
	"campus-preorder/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) ListVendors(c echo.Context) error {
	ctx := c.Request().Context()

	vendors, err := h.adminService.ListVendors(ctx, model.VendorStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) ModerateVendor(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ModerateRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	vendor, err := h.adminService.ModerateVendor(ctx, c.Param("id"), service.ModerationAction(req.Action))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vendor)
}

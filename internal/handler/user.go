package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-preorder/internal/dto"
	"campus-preorder/internal/middleware"
	"campus-preorder/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := h.userService.Me(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	profile, err := h.userService.UpdateName(ctx, middleware.UserID(c), req.FullName)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

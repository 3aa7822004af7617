package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-preorder/internal/checkout"
	"campus-preorder/internal/dto"
	"campus-preorder/internal/middleware"
	"campus-preorder/internal/model"
	"campus-preorder/internal/service"
)

// OrderHandler serves checkout and the student's own orders.
type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

func parseDay(raw string) (checkout.Day, error) {
	day, err := checkout.ParseDay(raw)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "day must be today or tomorrow")
	}
	return day, nil
}

func (h *OrderHandler) AvailableSlots(c echo.Context) error {
	ctx := c.Request().Context()

	day, err := parseDay(c.QueryParam("day"))
	if err != nil {
		return err
	}

	slots, err := h.checkoutService.AvailableSlots(ctx, day)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, slots)
}

func (h *OrderHandler) Quote(c echo.Context) error {
	ctx := c.Request().Context()

	locationID := c.QueryParam("location_id")
	quote, err := h.checkoutService.Quote(ctx, middleware.UserID(c), locationID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.QuoteResponse{Quote: quote, LocationID: locationID})
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}

	day, err := parseDay(req.Day)
	if err != nil {
		return err
	}

	order, err := h.checkoutService.Submit(ctx, middleware.UserID(c), service.SubmitInput{
		PickupLocationID: req.PickupLocationID,
		TimeSlotID:       req.TimeSlotID,
		Day:              day,
		Notes:            req.Notes,
		PaymentMethod:    model.PaymentMethod(req.PaymentMethod),
		PaymentNonce:     req.PaymentNonce,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListMine(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetMine(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetMine(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.Cancel(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

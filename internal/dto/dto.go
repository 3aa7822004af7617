package dto

import (
	"campus-preorder/internal/cart"
	"campus-preorder/internal/checkout"
)

type AddCartItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	cart.Cart
	Subtotal int64 `json:"subtotal"`
}

func NewCartResponse(c cart.Cart) CartResponse {
	if c.Lines == nil {
		c.Lines = []cart.Line{}
	}
	return CartResponse{Cart: c, Subtotal: c.Subtotal()}
}

type PlaceOrderRequest struct {
	PickupLocationID string `json:"pickup_location_id"`
	TimeSlotID       string `json:"time_slot_id"`
	Day              string `json:"day"`
	Notes            string `json:"notes"`
	PaymentMethod    string `json:"payment_method"`
	PaymentNonce     string `json:"payment_nonce"`
}

type QuoteResponse struct {
	checkout.Quote
	LocationID string `json:"location_id,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateMenuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available"`
}

type ApplyVendorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ModerateRequest struct {
	Action string `json:"action"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

package model

import "time"

type Order struct {
	ID                  string      `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderNumber         string      `gorm:"size:32;uniqueIndex;not null" json:"order_number"` // BG-<unix millis>
	StudentID           string      `gorm:"size:64;index;not null" json:"student_id"`
	VendorID            string      `gorm:"size:36;index;not null" json:"vendor_id"`
	Status              OrderStatus `gorm:"size:16;index;not null" json:"status"`
	Subtotal            int64       `gorm:"not null" json:"subtotal"`
	ServiceFee          int64       `gorm:"not null" json:"service_fee"`
	Total               int64       `gorm:"not null" json:"total"`
	PickupLocationID    string      `gorm:"size:36;not null" json:"pickup_location_id"`
	TimeSlotID          string      `gorm:"size:36;not null" json:"time_slot_id"`
	PickupAt            time.Time   `gorm:"not null" json:"pickup_at"`
	SpecialInstructions string      `gorm:"size:500" json:"special_instructions,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`

	Items   []OrderItem `gorm:"-" json:"items,omitempty"`
	Payment *Payment    `gorm:"-" json:"payment,omitempty"`
}

type OrderItem struct {
	ID         string    `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderID    string    `gorm:"size:36;index;not null" json:"order_id"`
	MenuItemID string    `gorm:"size:36;not null" json:"menu_item_id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type PaymentMethod string

const (
	// PaymentInstant is the demo instant-pay path; the payment is recorded as completed.
	PaymentInstant  PaymentMethod = "instant"
	PaymentAtPickup PaymentMethod = "pay_at_pickup"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

type Payment struct {
	ID            string        `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderID       string        `gorm:"size:36;uniqueIndex;not null" json:"order_id"`
	Method        PaymentMethod `gorm:"size:16;not null" json:"method"`
	Status        PaymentStatus `gorm:"size:16;not null" json:"status"`
	Amount        int64         `gorm:"not null" json:"amount"`
	TransactionID string        `gorm:"size:64" json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

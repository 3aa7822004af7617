package model

import "time"

type PickupLocation struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Floor     int       `gorm:"not null" json:"floor"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type TimeSlot struct {
	ID             string    `gorm:"primaryKey;size:36;not null" json:"id"`
	TimeRangeLabel string    `gorm:"size:16;not null" json:"time_range_label"` // "HH:MM-HH:MM"
	StartTime      string    `gorm:"size:8;not null" json:"start_time"`        // "HH:MM" or "HH:MM:SS"
	EndTime        string    `gorm:"size:8;not null" json:"end_time"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type VendorStatus string

const (
	VendorPending   VendorStatus = "pending"
	VendorApproved  VendorStatus = "approved"
	VendorRejected  VendorStatus = "rejected"
	VendorSuspended VendorStatus = "suspended"
)

type Vendor struct {
	ID          string       `gorm:"primaryKey;size:36;not null" json:"id"`
	OwnerID     string       `gorm:"size:64;uniqueIndex;not null" json:"owner_id"` // auth subject of the canteen account
	Name        string       `gorm:"size:128;not null" json:"name"`
	Description string       `gorm:"size:512" json:"description"`
	Status      VendorStatus `gorm:"size:16;index;not null" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type MenuItem struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	VendorID    string    `gorm:"size:36;index;not null" json:"vendor_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Role string

const (
	RoleStudent Role = "student"
	RoleVendor  Role = "vendor"
	RoleAdmin   Role = "admin"
)

type Profile struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"id"` // auth subject
	FullName  string    `gorm:"size:128" json:"full_name"`
	Role      Role      `gorm:"size:16;not null;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrphanOrder records an order whose compensating delete failed after its
// items could not be written. The reconciler retries the delete.
type OrphanOrder struct {
	OrderID    string     `gorm:"primaryKey;size:36;not null" json:"order_id"`
	Reason     string     `gorm:"size:512" json:"reason"`
	Attempts   int        `gorm:"not null;default:0" json:"attempts"`
	LastError  string     `gorm:"size:512" json:"last_error,omitempty"`
	ResolvedAt *time.Time `gorm:"index" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Tables lists every persisted model, in migration order.
func Tables() []any {
	return []any{
		&PickupLocation{},
		&TimeSlot{},
		&Profile{},
		&Vendor{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&OrphanOrder{},
	}
}

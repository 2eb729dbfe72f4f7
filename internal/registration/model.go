package registration

import "time"

type RegistrationStatus string

const (
	StatusActive    RegistrationStatus = "active"
	StatusSuspended RegistrationStatus = "suspended"
	StatusExpired   RegistrationStatus = "expired"
	StatusCancelled RegistrationStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOnline   PaymentMethod = "online"
)

type Registration struct {
	ID        int  `db:"id" json:"id"`
	MemberID  int  `db:"member_id" json:"member_id"`
	PackageID int  `db:"package_id" json:"package_id"`
	DiscountID *int `db:"discount_id" json:"discount_id,omitempty"`

	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`

	OriginalPrice  int64 `db:"original_price" json:"original_price"`
	DiscountAmount int64 `db:"discount_amount" json:"discount_amount"`
	FinalPrice     int64 `db:"final_price" json:"final_price"`

	PaymentMethod     PaymentMethod      `db:"payment_method" json:"payment_method"`
	Status            RegistrationStatus `db:"status" json:"status"`
	StatusReason      string             `db:"status_reason" json:"status_reason,omitempty"`
	RemainingSessions *int               `db:"remaining_sessions" json:"remaining_sessions,omitempty"`
	Notes             string             `db:"notes" json:"notes,omitempty"`
	CreatedBy         *int               `db:"created_by" json:"created_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined display fields, populated on reads only.
	MemberName  string `db:"member_name" json:"member_name,omitempty"`
	PackageName string `db:"package_name" json:"package_name,omitempty"`
}

type CreateRegistrationRequest struct {
	MemberID      int    `json:"member_id" binding:"required" validate:"required,gt=0"`
	PackageID     int    `json:"package_id" binding:"required" validate:"required,gt=0"`
	StartDate     string `json:"start_date"`
	DiscountCode  string `json:"discount_code"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card transfer online" validate:"required,oneof=cash card transfer online"`
	Notes         string `json:"notes" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended expired cancelled"`
	Reason string `json:"reason"`
}

type ListFilter struct {
	MemberID  int
	PackageID int
	Status    string
	Page      int
	Limit     int
}

// ActivePackage summarises a member's currently usable registration.
type ActivePackage struct {
	RegistrationID    int       `db:"registration_id" json:"registration_id"`
	PackageID         int       `db:"package_id" json:"package_id"`
	PackageName       string    `db:"package_name" json:"package_name"`
	StartDate         time.Time `db:"start_date" json:"start_date"`
	EndDate           time.Time `db:"end_date" json:"end_date"`
	RemainingSessions *int      `db:"remaining_sessions" json:"remaining_sessions,omitempty"`
	DaysRemaining     int       `db:"-" json:"days_remaining"`
}

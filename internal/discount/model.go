package discount

import (
	"time"

	"github.com/lib/pq"
)

type DiscountType string
type DiscountStatus string

const (
	TypePercentage DiscountType = "percentage"
	TypeFixed      DiscountType = "fixed"

	StatusActive   DiscountStatus = "active"
	StatusInactive DiscountStatus = "inactive"
	StatusExpired  DiscountStatus = "expired"
)

// Discount is a promotional rule. An empty ApplicablePackages list means the
// discount applies to every package.
type Discount struct {
	ID                 int            `db:"id" json:"id"`
	Code               string         `db:"code" json:"code"`
	Name               string         `db:"name" json:"name"`
	Type               DiscountType   `db:"type" json:"type"`
	Value              int64          `db:"value" json:"value"`
	MaxDiscountAmount  *int64         `db:"max_discount_amount" json:"max_discount_amount,omitempty"`
	StartDate          time.Time      `db:"start_date" json:"start_date"`
	EndDate            time.Time      `db:"end_date" json:"end_date"`
	UsageLimit         *int           `db:"usage_limit" json:"usage_limit,omitempty"`
	UsedCount          int            `db:"used_count" json:"used_count"`
	Status             DiscountStatus `db:"status" json:"status"`
	ApplicablePackages pq.Int64Array  `db:"applicable_packages" json:"applicable_packages"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// normalizeStatus flips an active discount to expired once its window has
// closed. The stored row is untouched; expiry is a read-side fact.
func (d *Discount) normalizeStatus(now time.Time) {
	if d.Status == StatusActive && d.EndDate.Before(now) {
		d.Status = StatusExpired
	}
}

// Amount computes the discount amount for the given price. Percentage
// discounts are capped at MaxDiscountAmount when set; fixed discounts never
// exceed the price itself.
func (d *Discount) Amount(originalPrice int64) int64 {
	switch d.Type {
	case TypePercentage:
		amount := originalPrice * d.Value / 100
		if d.MaxDiscountAmount != nil && amount > *d.MaxDiscountAmount {
			amount = *d.MaxDiscountAmount
		}
		return amount
	case TypeFixed:
		if d.Value > originalPrice {
			return originalPrice
		}
		return d.Value
	}
	return 0
}

func (d *Discount) appliesTo(packageID int) bool {
	if len(d.ApplicablePackages) == 0 {
		return true
	}
	for _, id := range d.ApplicablePackages {
		if int(id) == packageID {
			return true
		}
	}
	return false
}

type ApplyResult struct {
	Discount       *Discount `json:"discount"`
	OriginalPrice  int64     `json:"original_price"`
	DiscountAmount int64     `json:"discount_amount"`
	FinalPrice     int64     `json:"final_price"`
	Savings        int64     `json:"savings"`
}

type CreateDiscountRequest struct {
	Code               string  `json:"code" binding:"required" validate:"required,max=50"`
	Name               string  `json:"name" binding:"required" validate:"required,max=150"`
	Type               string  `json:"type" binding:"required,oneof=percentage fixed" validate:"required,oneof=percentage fixed"`
	Value              int64   `json:"value" binding:"required" validate:"required,gte=0"`
	MaxDiscountAmount  *int64  `json:"max_discount_amount" validate:"omitempty,gte=0"`
	StartDate          string  `json:"start_date" binding:"required"`
	EndDate            string  `json:"end_date" binding:"required"`
	UsageLimit         *int    `json:"usage_limit" validate:"omitempty,gte=1"`
	ApplicablePackages []int64 `json:"applicable_packages"`
}

type UpdateDiscountRequest struct {
	Name       *string `json:"name"`
	Value      *int64  `json:"value"`
	EndDate    *string `json:"end_date"`
	UsageLimit *int    `json:"usage_limit"`
	Status     *string `json:"status"`
}

type ApplyDiscountRequest struct {
	Code          string `json:"code" binding:"required"`
	PackageID     int    `json:"package_id" binding:"required"`
	OriginalPrice int64  `json:"original_price" binding:"required,gte=0"`
}

type ListFilter struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

type StatusCount struct {
	Status     string `db:"status" json:"status"`
	Count      int    `db:"count" json:"count"`
	TotalUsage int    `db:"total_usage" json:"total_usage"`
}

type Statistics struct {
	ByStatus     []StatusCount `json:"by_status"`
	TotalActive  int           `json:"total_active"`
	ExpiringSoon int           `json:"expiring_soon"`
}

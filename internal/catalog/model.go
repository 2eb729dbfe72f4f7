package catalog

import "time"

type PackageStatus string

const (
	StatusActive   PackageStatus = "active"
	StatusInactive PackageStatus = "inactive"
)

// Package is a purchasable offering. MaxSessions nil means unlimited visits
// during the validity window.
type Package struct {
	ID           int           `db:"id" json:"id"`
	Code         string        `db:"code" json:"code"`
	Name         string        `db:"name" json:"name"`
	Description  string        `db:"description" json:"description"`
	Price        int64         `db:"price" json:"price"`
	DurationDays int           `db:"duration_days" json:"duration_days"`
	MaxSessions  *int          `db:"max_sessions" json:"max_sessions,omitempty"`
	Status       PackageStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

type CreatePackageRequest struct {
	Code         string `json:"code" binding:"required" validate:"required,max=50"`
	Name         string `json:"name" binding:"required" validate:"required,max=150"`
	Description  string `json:"description" validate:"max=1000"`
	Price        int64  `json:"price" binding:"required" validate:"required,gte=0"`
	DurationDays int    `json:"duration_days" binding:"required,min=1" validate:"required,gte=1"`
	MaxSessions  *int   `json:"max_sessions" validate:"omitempty,gte=1"`
}

type UpdatePackageRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Status      *string `json:"status"`
}

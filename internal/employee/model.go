package employee

import (
	"time"

	"github.com/lib/pq"
)

type EmployeeStatus string

const (
	StatusActive     EmployeeStatus = "active"
	StatusInactive   EmployeeStatus = "inactive"
	StatusTerminated EmployeeStatus = "terminated"
)

type Employee struct {
	ID       int    `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`

	Position   string    `db:"position" json:"position"`
	Department string    `db:"department" json:"department"`
	Salary     int64     `db:"salary" json:"salary"`
	HireDate   time.Time `db:"hire_date" json:"hire_date"`

	Status         EmployeeStatus `db:"status" json:"status"`
	Qualifications pq.StringArray `db:"qualifications" json:"qualifications"`

	EmergencyName  string `db:"emergency_name" json:"emergency_name,omitempty"`
	EmergencyPhone string `db:"emergency_phone" json:"emergency_phone,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateEmployeeRequest struct {
	FullName       string   `json:"full_name" binding:"required" validate:"required,max=150"`
	Email          string   `json:"email" binding:"required,email" validate:"required,email,max=150"`
	Phone          string   `json:"phone" binding:"required" validate:"required,max=20"`
	Position       string   `json:"position" binding:"required" validate:"required,max=100"`
	Department     string   `json:"department" validate:"max=100"`
	Salary         int64    `json:"salary" validate:"gte=0"`
	HireDate       string   `json:"hire_date" binding:"required"`
	Qualifications []string `json:"qualifications"`
	EmergencyName  string   `json:"emergency_name" validate:"max=150"`
	EmergencyPhone string   `json:"emergency_phone" validate:"max=20"`
}

type UpdateEmployeeRequest struct {
	FullName       *string   `json:"full_name"`
	Phone          *string   `json:"phone"`
	Position       *string   `json:"position"`
	Department     *string   `json:"department"`
	Salary         *int64    `json:"salary"`
	Status         *string   `json:"status"`
	Qualifications *[]string `json:"qualifications"`
	EmergencyName  *string   `json:"emergency_name"`
	EmergencyPhone *string   `json:"emergency_phone"`
}

type ListFilter struct {
	Status     string
	Department string
	Position   string
	Page       int
	Limit      int
}

package member

import "time"

type MemberStatus string

const (
	StatusActive    MemberStatus = "active"
	StatusInactive  MemberStatus = "inactive"
	StatusSuspended MemberStatus = "suspended"
	StatusCancelled MemberStatus = "cancelled"
)

type Member struct {
	ID          int          `db:"id" json:"id"`
	FullName    string       `db:"full_name" json:"full_name"`
	Email       string       `db:"email" json:"email"`
	Phone       string       `db:"phone" json:"phone"`
	DateOfBirth *time.Time   `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string       `db:"gender" json:"gender"`
	Address     string       `db:"address" json:"address"`

	MembershipNumber string       `db:"membership_number" json:"membership_number"`
	JoinDate         time.Time    `db:"join_date" json:"join_date"`
	Status           MemberStatus `db:"status" json:"status"`

	EmergencyName         string `db:"emergency_name" json:"emergency_name,omitempty"`
	EmergencyPhone        string `db:"emergency_phone" json:"emergency_phone,omitempty"`
	EmergencyRelationship string `db:"emergency_relationship" json:"emergency_relationship,omitempty"`

	Notes       string     `db:"notes" json:"notes,omitempty"`
	LastVisit   *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	TotalVisits int        `db:"total_visits" json:"total_visits"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateMemberRequest struct {
	FullName              string `json:"full_name" binding:"required" validate:"required,max=150"`
	Email                 string `json:"email" binding:"required,email" validate:"required,email,max=150"`
	Phone                 string `json:"phone" binding:"required" validate:"required,max=20"`
	DateOfBirth           string `json:"date_of_birth"`
	Gender                string `json:"gender" binding:"required,oneof=male female other" validate:"required,oneof=male female other"`
	Address               string `json:"address" validate:"max=500"`
	EmergencyName         string `json:"emergency_name" validate:"max=150"`
	EmergencyPhone        string `json:"emergency_phone" validate:"max=20"`
	EmergencyRelationship string `json:"emergency_relationship" validate:"max=50"`
	Notes                 string `json:"notes" validate:"max=1000"`
}

type UpdateMemberRequest struct {
	FullName              *string `json:"full_name"`
	Phone                 *string `json:"phone"`
	Address               *string `json:"address"`
	Status                *string `json:"status"`
	EmergencyName         *string `json:"emergency_name"`
	EmergencyPhone        *string `json:"emergency_phone"`
	EmergencyRelationship *string `json:"emergency_relationship"`
	Notes                 *string `json:"notes"`
}

type ListFilter struct {
	Status string
	Gender string
	Search string

	// HasActivePackage keeps only members with (true) or without (false) a
	// registration whose window contains now.
	HasActivePackage *bool

	Page  int
	Limit int
}

// MemberStatistics is the summary block returned with a member profile.
type MemberStatistics struct {
	TotalSessions     int       `json:"total_sessions"`
	ThisMonthSessions int       `json:"this_month_sessions"`
	MemberSince       time.Time `json:"member_since"`
	DaysSinceMember   int       `json:"days_since_member"`
}

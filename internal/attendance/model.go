package attendance

import "time"

type AttendanceStatus string

const (
	StatusCheckedIn AttendanceStatus = "checked_in"
	StatusCompleted AttendanceStatus = "completed"
)

type Record struct {
	ID             int        `db:"id" json:"id"`
	MemberID       int        `db:"member_id" json:"member_id"`
	RegistrationID int        `db:"registration_id" json:"registration_id"`
	CheckinTime    time.Time  `db:"checkin_time" json:"checkin_time"`
	CheckoutTime   *time.Time `db:"checkout_time" json:"checkout_time,omitempty"`

	// Duration is in minutes, set on checkout.
	Duration *int             `db:"duration" json:"duration,omitempty"`
	Status   AttendanceStatus `db:"status" json:"status"`
	Notes    string           `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	MemberName       string `db:"member_name" json:"member_name,omitempty"`
	MembershipNumber string `db:"membership_number" json:"membership_number,omitempty"`
}

type CheckInRequest struct {
	MemberID int    `json:"member_id" binding:"required" validate:"required,gt=0"`
	Notes    string `json:"notes" validate:"max=500"`
}

type CheckOutRequest struct {
	MemberID int    `json:"member_id" binding:"required" validate:"required,gt=0"`
	Notes    string `json:"notes" validate:"max=500"`
}

type ListFilter struct {
	MemberID int
	Status   string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

type DayCount struct {
	Day   time.Time `db:"day" json:"day"`
	Count int       `db:"count" json:"count"`
}

type ActiveMember struct {
	MemberID         int    `db:"member_id" json:"member_id"`
	MemberName       string `db:"member_name" json:"member_name"`
	MembershipNumber string `db:"membership_number" json:"membership_number"`
	Sessions         int    `db:"sessions" json:"sessions"`
}

// Overview is the dashboard block for the attendance screen.
type Overview struct {
	TodayTotal      int            `json:"today_total"`
	CurrentlyInGym  int            `json:"currently_in_gym"`
	TodayCompleted  int            `json:"today_completed"`
	AvgDurationMins int            `json:"avg_duration_minutes"`
	WeeklyTrend     []DayCount     `json:"weekly_trend"`
	MostActive      []ActiveMember `json:"most_active_members"`
}

// HistoryStats summarises a member's attendance history.
type HistoryStats struct {
	TotalSessions     int `json:"total_sessions"`
	ThisMonthSessions int `json:"this_month_sessions"`
	AvgDurationMins   int `json:"avg_duration_minutes"`
}

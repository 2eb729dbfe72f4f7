package schedule

import "time"

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftEvening   ShiftType = "evening"
	ShiftNight     ShiftType = "night"
	ShiftFullDay   ShiftType = "full-day"
)

type ScheduleStatus string

const (
	StatusScheduled ScheduleStatus = "scheduled"
	StatusCompleted ScheduleStatus = "completed"
	StatusCancelled ScheduleStatus = "cancelled"
	StatusAbsent    ScheduleStatus = "absent"
)

type WorkSchedule struct {
	ID         int       `db:"id" json:"id"`
	EmployeeID int       `db:"employee_id" json:"employee_id"`
	Date       time.Time `db:"date" json:"date"`

	// StartTime and EndTime are clock times in HH:mm.
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`

	ShiftType ShiftType      `db:"shift_type" json:"shift_type"`
	Status    ScheduleStatus `db:"status" json:"status"`
	Notes     string         `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	EmployeeName string `db:"employee_name" json:"employee_name,omitempty"`
}

type CreateScheduleRequest struct {
	EmployeeID int    `json:"employee_id" binding:"required" validate:"required,gt=0"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	ShiftType  string `json:"shift_type" binding:"required,oneof=morning afternoon evening night full-day"`
	Notes      string `json:"notes" validate:"max=500"`
}

type UpdateScheduleRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	ShiftType *string `json:"shift_type"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

type ListFilter struct {
	EmployeeID int
	Status     string
	Date       *time.Time
	Page       int
	Limit      int
}

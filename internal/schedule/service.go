package schedule

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/employee"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidTime      = errors.New("invalid time, expected HH:mm")
	ErrInvalidWindow    = errors.New("end time must be after start time")
)

type Service interface {
	Create(ctx context.Context, req CreateScheduleRequest) (*WorkSchedule, error)
	GetByID(ctx context.Context, id int) (*WorkSchedule, error)
	List(ctx context.Context, filter ListFilter) ([]WorkSchedule, int, error)
	Update(ctx context.Context, id int, req UpdateScheduleRequest) (*WorkSchedule, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo      Repository
	employees employee.Repository
}

func NewService(repo Repository, employees employee.Repository) Service {
	return &service{repo: repo, employees: employees}
}

func parseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}

func validateWindow(startTime, endTime string) error {
	start, err := parseClock(startTime)
	if err != nil {
		return ErrInvalidTime
	}
	end, err := parseClock(endTime)
	if err != nil {
		return ErrInvalidTime
	}
	if !end.After(start) {
		return ErrInvalidWindow
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateScheduleRequest) (*WorkSchedule, error) {
	exists, err := s.employees.Exists(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEmployeeNotFound
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, req, date)
}

func (s *service) GetByID(ctx context.Context, id int) (*WorkSchedule, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrScheduleNotFound
	}
	return sched, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]WorkSchedule, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int, req UpdateScheduleRequest) (*WorkSchedule, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	startTime := current.StartTime
	endTime := current.EndTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	if err := validateWindow(startTime, endTime); err != nil {
		return nil, err
	}

	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			return nil, ErrInvalidDate
		}
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

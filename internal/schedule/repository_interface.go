package schedule

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req CreateScheduleRequest, date time.Time) (*WorkSchedule, error)
	GetByID(ctx context.Context, id int) (*WorkSchedule, error)
	List(ctx context.Context, filter ListFilter) ([]WorkSchedule, int, error)
	Update(ctx context.Context, id int, req UpdateScheduleRequest) (*WorkSchedule, error)
	Delete(ctx context.Context, id int) error
}

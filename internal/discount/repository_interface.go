package discount

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req CreateDiscountRequest, startDate, endDate time.Time) (*Discount, error)
	GetByID(ctx context.Context, id int) (*Discount, error)
	GetActiveByCode(ctx context.Context, code string, now time.Time) (*Discount, error)
	List(ctx context.Context, filter ListFilter) ([]Discount, int, error)
	ListActive(ctx context.Context, now time.Time) ([]Discount, error)
	Update(ctx context.Context, id int, req UpdateDiscountRequest) (*Discount, error)
	Delete(ctx context.Context, id int) error
	CodeExists(ctx context.Context, code string) (bool, error)
	IncrementUsage(ctx context.Context, id int) error
	StatsByStatus(ctx context.Context) ([]StatusCount, error)
	CountActive(ctx context.Context, now time.Time) (int, error)
	CountExpiringSoon(ctx context.Context, now time.Time, within time.Duration) (int, error)
}

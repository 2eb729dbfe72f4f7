package employee

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req CreateEmployeeRequest, hireDate time.Time) (*Employee, error)
	GetByID(ctx context.Context, id int) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, int, error)
	Update(ctx context.Context, id int, req UpdateEmployeeRequest) (*Employee, error)
	Delete(ctx context.Context, id int) error
	EmailExists(ctx context.Context, email string) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
}

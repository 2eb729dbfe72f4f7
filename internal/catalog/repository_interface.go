package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, req CreatePackageRequest) (*Package, error)
	GetByID(ctx context.Context, id int) (*Package, error)
	GetByCode(ctx context.Context, code string) (*Package, error)
	List(ctx context.Context, status string) ([]Package, error)
	Update(ctx context.Context, id int, req UpdatePackageRequest) (*Package, error)
	Delete(ctx context.Context, id int) error
	CodeExists(ctx context.Context, code string) (bool, error)
	InUse(ctx context.Context, id int) (bool, error)
}

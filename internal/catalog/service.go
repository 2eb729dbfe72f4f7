package catalog

import (
	"context"
	"errors"
)

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrCodeExists      = errors.New("package code already exists")
	ErrPackageInUse    = errors.New("package is referenced by registrations")
)

type Service interface {
	Create(ctx context.Context, req CreatePackageRequest) (*Package, error)
	GetByID(ctx context.Context, id int) (*Package, error)
	List(ctx context.Context, status string) ([]Package, error)
	Update(ctx context.Context, id int, req UpdatePackageRequest) (*Package, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreatePackageRequest) (*Package, error) {
	exists, err := s.repo.CodeExists(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}

	return s.repo.Create(ctx, req)
}

func (s *service) GetByID(ctx context.Context, id int) (*Package, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

func (s *service) List(ctx context.Context, status string) ([]Package, error) {
	return s.repo.List(ctx, status)
}

func (s *service) Update(ctx context.Context, id int, req UpdatePackageRequest) (*Package, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrPackageNotFound
	}
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrPackageInUse
	}

	return s.repo.Delete(ctx, id)
}

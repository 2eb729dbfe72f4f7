package employee

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrInvalidDate      = errors.New("invalid date format")
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error)
	GetByID(ctx context.Context, id int) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, int, error)
	Update(ctx context.Context, id int, req UpdateEmployeeRequest) (*Employee, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	return s.repo.Create(ctx, req, hireDate)
}

func (s *service) GetByID(ctx context.Context, id int) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Employee, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int, req UpdateEmployeeRequest) (*Employee, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

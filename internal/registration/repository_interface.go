package registration

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, reg *Registration) (*Registration, error)
	GetByID(ctx context.Context, id int) (*Registration, error)
	List(ctx context.Context, filter ListFilter) ([]Registration, int, error)
	UpdateStatus(ctx context.Context, id int, status RegistrationStatus, reason string) (*Registration, error)
	FindOngoing(ctx context.Context, memberID int, now time.Time) (*Registration, error)
	ActivePackages(ctx context.Context, memberID int, now time.Time) ([]ActivePackage, error)
}

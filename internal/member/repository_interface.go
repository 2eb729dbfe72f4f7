package member

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req CreateMemberRequest, membershipNumber string, dateOfBirth *time.Time) (*Member, error)
	GetByID(ctx context.Context, id int) (*Member, error)
	GetByMembershipNumber(ctx context.Context, number string) (*Member, error)
	List(ctx context.Context, filter ListFilter) ([]Member, int, error)
	Update(ctx context.Context, id int, req UpdateMemberRequest) (*Member, error)
	Delete(ctx context.Context, id int) error
	EmailExists(ctx context.Context, email string) (bool, error)
	CountJoinedInYear(ctx context.Context, year int) (int, error)
	HasActiveRegistration(ctx context.Context, memberID int, now time.Time) (bool, error)
	SessionStats(ctx context.Context, memberID int, monthStart time.Time) (total int, thisMonth int, err error)
	RecordVisit(ctx context.Context, memberID int, at time.Time) error
}

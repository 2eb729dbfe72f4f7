package member

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMemberNotFound        = errors.New("member not found")
	ErrEmailExists           = errors.New("email already registered")
	ErrHasActiveRegistration = errors.New("member has an active registration")
	ErrInvalidDate           = errors.New("invalid date format")
)

type Service interface {
	Create(ctx context.Context, req CreateMemberRequest) (*Member, error)
	GetByID(ctx context.Context, id int) (*Member, error)
	GetWithStatistics(ctx context.Context, id int) (*Member, *MemberStatistics, error)
	List(ctx context.Context, filter ListFilter) ([]Member, int, error)
	Update(ctx context.Context, id int, req UpdateMemberRequest) (*Member, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// nextMembershipNumber builds GYM<year><seq> where seq is the count of members
// joined this year plus one, zero padded to four digits.
func (s *service) nextMembershipNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	count, err := s.repo.CountJoinedInYear(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("GYM%d%04d", year, count+1), nil
}

func (s *service) Create(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		dateOfBirth = &parsed
	}

	number, err := s.nextMembershipNumber(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, req, number, dateOfBirth)
}

func (s *service) GetByID(ctx context.Context, id int) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *service) GetWithStatistics(ctx context.Context, id int) (*Member, *MemberStatistics, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, ErrMemberNotFound
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	total, thisMonth, err := s.repo.SessionStats(ctx, id, monthStart)
	if err != nil {
		return nil, nil, err
	}

	stats := &MemberStatistics{
		TotalSessions:     total,
		ThisMonthSessions: thisMonth,
		MemberSince:       m.JoinDate,
		DaysSinceMember:   int(now.Sub(m.JoinDate).Hours() / 24),
	}

	return m, stats, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Member, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int, req UpdateMemberRequest) (*Member, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrMemberNotFound
	}

	active, err := s.repo.HasActiveRegistration(ctx, id, s.now())
	if err != nil {
		return err
	}
	if active {
		return ErrHasActiveRegistration
	}

	return s.repo.Delete(ctx, id)
}

package attendance

import (
	"context"
	"errors"
	"math"
	"time"

	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrNoActivePackage  = errors.New("member has no active package")
	ErrAlreadyCheckedIn = errors.New("member is already checked in")
	ErrNoActiveCheckIn  = errors.New("member has no active check-in")
)

// VisitRecorder updates a member's visit counters after a check-in.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, memberID int, at time.Time) error
}

type Service interface {
	CheckIn(ctx context.Context, req CheckInRequest) (*Record, error)
	CheckOut(ctx context.Context, memberID int, notes string) (*Record, error)
	Today(ctx context.Context) ([]Record, error)
	Overview(ctx context.Context) (*Overview, error)
	MemberHistory(ctx context.Context, memberID int, filter ListFilter) ([]Record, int, *HistoryStats, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int, error)
}

type service struct {
	repo    Repository
	members member.Service
	visits  VisitRecorder
	now     func() time.Time
}

func NewService(repo Repository, members member.Service, visits VisitRecorder) Service {
	return &service{
		repo:    repo,
		members: members,
		visits:  visits,
		now:     time.Now,
	}
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// CheckIn opens an attendance record for the member. It requires an active
// registration whose window contains now and refuses a second open record on
// the same day. A session-limited registration is decremented by one, never
// below zero.
func (s *service) CheckIn(ctx context.Context, req CheckInRequest) (*Record, error) {
	if _, err := s.members.GetByID(ctx, req.MemberID); err != nil {
		return nil, ErrMemberNotFound
	}

	now := s.now()
	registrationID, remaining, packageName, err := s.repo.ActiveRegistration(ctx, req.MemberID, now)
	if err != nil {
		return nil, ErrNoActivePackage
	}

	dayStart, dayEnd := dayBounds(now)
	if open, err := s.repo.GetOpenForDay(ctx, req.MemberID, dayStart, dayEnd); err == nil && open != nil {
		return nil, ErrAlreadyCheckedIn
	}

	notes := req.Notes
	if notes == "" {
		notes = packageName
	}

	rec, err := s.repo.Create(ctx, req.MemberID, registrationID, now, notes)
	if err != nil {
		return nil, err
	}

	if remaining != nil && *remaining > 0 {
		if err := s.repo.DecrementSessions(ctx, registrationID); err != nil {
			logger.Errorf("failed to decrement sessions for registration %d: %v", registrationID, err)
		}
	}

	if err := s.visits.RecordVisit(ctx, req.MemberID, now); err != nil {
		logger.Errorf("failed to record visit for member %d: %v", req.MemberID, err)
	}

	metrics.RecordCheckIn()

	return rec, nil
}

// CheckOut closes the member's open record for today and stores the workout
// duration rounded to whole minutes.
func (s *service) CheckOut(ctx context.Context, memberID int, notes string) (*Record, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}

	now := s.now()
	dayStart, dayEnd := dayBounds(now)
	open, err := s.repo.GetOpenForDay(ctx, memberID, dayStart, dayEnd)
	if err != nil {
		return nil, ErrNoActiveCheckIn
	}

	duration := int(math.Round(now.Sub(open.CheckinTime).Minutes()))

	rec, err := s.repo.Complete(ctx, open.ID, now, duration, notes)
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckOut()

	return rec, nil
}

func (s *service) Today(ctx context.Context) ([]Record, error) {
	now := s.now()
	dayStart, dayEnd := dayBounds(now)

	records, err := s.repo.ListForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	// Open records get a live duration so the front desk sees elapsed time.
	for i := range records {
		if records[i].CheckoutTime == nil {
			live := int(math.Round(now.Sub(records[i].CheckinTime).Minutes()))
			records[i].Duration = &live
		}
	}

	return records, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()
	dayStart, dayEnd := dayBounds(now)

	total, inGym, completed, avgDuration, err := s.repo.DayStats(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	weekStart := dayStart.AddDate(0, 0, -6)
	trend, err := s.repo.DailyCounts(ctx, weekStart, dayEnd)
	if err != nil {
		return nil, err
	}

	mostActive, err := s.repo.MostActiveMembers(ctx, now.AddDate(0, 0, -7), 10)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TodayTotal:      total,
		CurrentlyInGym:  inGym,
		TodayCompleted:  completed,
		AvgDurationMins: avgDuration,
		WeeklyTrend:     trend,
		MostActive:      mostActive,
	}, nil
}

func (s *service) MemberHistory(ctx context.Context, memberID int, filter ListFilter) ([]Record, int, *HistoryStats, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, 0, nil, ErrMemberNotFound
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := s.repo.MemberHistory(ctx, memberID, filter)
	if err != nil {
		return nil, 0, nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats, err := s.repo.MemberStats(ctx, memberID, monthStart)
	if err != nil {
		return nil, 0, nil, err
	}

	return records, total, stats, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

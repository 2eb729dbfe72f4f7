package attendance

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"gymdesk/internal/logger"
	"gymdesk/internal/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockAttendanceRepo struct{ mock.Mock }

func (m *MockAttendanceRepo) Create(ctx context.Context, memberID, registrationID int, checkinTime time.Time, notes string) (*Record, error) {
	args := m.Called(ctx, memberID, registrationID, checkinTime, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockAttendanceRepo) GetByID(ctx context.Context, id int) (*Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockAttendanceRepo) GetOpenForDay(ctx context.Context, memberID int, dayStart, dayEnd time.Time) (*Record, error) {
	args := m.Called(ctx, memberID, dayStart, dayEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockAttendanceRepo) Complete(ctx context.Context, id int, checkoutTime time.Time, durationMins int, notes string) (*Record, error) {
	args := m.Called(ctx, id, checkoutTime, durationMins, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockAttendanceRepo) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Record), args.Int(1), args.Error(2)
}

func (m *MockAttendanceRepo) ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Record, error) {
	args := m.Called(ctx, dayStart, dayEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockAttendanceRepo) DayStats(ctx context.Context, dayStart, dayEnd time.Time) (int, int, int, int, error) {
	args := m.Called(ctx, dayStart, dayEnd)
	return args.Int(0), args.Int(1), args.Int(2), args.Int(3), args.Error(4)
}

func (m *MockAttendanceRepo) DailyCounts(ctx context.Context, from, to time.Time) ([]DayCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DayCount), args.Error(1)
}

func (m *MockAttendanceRepo) MostActiveMembers(ctx context.Context, from time.Time, limit int) ([]ActiveMember, error) {
	args := m.Called(ctx, from, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ActiveMember), args.Error(1)
}

func (m *MockAttendanceRepo) MemberHistory(ctx context.Context, memberID int, filter ListFilter) ([]Record, int, error) {
	args := m.Called(ctx, memberID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Record), args.Int(1), args.Error(2)
}

func (m *MockAttendanceRepo) MemberStats(ctx context.Context, memberID int, monthStart time.Time) (*HistoryStats, error) {
	args := m.Called(ctx, memberID, monthStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*HistoryStats), args.Error(1)
}

func (m *MockAttendanceRepo) ActiveRegistration(ctx context.Context, memberID int, now time.Time) (int, *int, string, error) {
	args := m.Called(ctx, memberID, now)
	var remaining *int
	if args.Get(1) != nil {
		remaining = args.Get(1).(*int)
	}
	return args.Int(0), remaining, args.String(2), args.Error(3)
}

func (m *MockAttendanceRepo) DecrementSessions(ctx context.Context, registrationID int) error {
	return m.Called(ctx, registrationID).Error(0)
}

type MockMemberService struct{ mock.Mock }

func (m *MockMemberService) Create(ctx context.Context, req member.CreateMemberRequest) (*member.Member, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) GetByID(ctx context.Context, id int) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) GetWithStatistics(ctx context.Context, id int) (*member.Member, *member.MemberStatistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*member.Member), args.Get(1).(*member.MemberStatistics), args.Error(2)
}

func (m *MockMemberService) List(ctx context.Context, filter member.ListFilter) ([]member.Member, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]member.Member), args.Int(1), args.Error(2)
}

func (m *MockMemberService) Update(ctx context.Context, id int, req member.UpdateMemberRequest) (*member.Member, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockVisitRecorder struct{ mock.Mock }

func (m *MockVisitRecorder) RecordVisit(ctx context.Context, memberID int, at time.Time) error {
	return m.Called(ctx, memberID, at).Error(0)
}

func newTestService(repo Repository, members member.Service, visits VisitRecorder, now time.Time) *service {
	return &service{
		repo:    repo,
		members: members,
		visits:  visits,
		now:     func() time.Time { return now },
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)
}

func TestService_CheckIn(t *testing.T) {
	now := fixedNow()
	dayStart := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	t.Run("success decrements session-limited registration", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		remaining := 5
		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("ActiveRegistration", mock.Anything, 1, now).Return(12, &remaining, "Standard 30", nil)
		repo.On("GetOpenForDay", mock.Anything, 1, dayStart, dayEnd).Return(nil, sql.ErrNoRows)
		repo.On("Create", mock.Anything, 1, 12, now, "Standard 30").
			Return(&Record{ID: 100, MemberID: 1, RegistrationID: 12, CheckinTime: now}, nil)
		repo.On("DecrementSessions", mock.Anything, 12).Return(nil)
		visits.On("RecordVisit", mock.Anything, 1, now).Return(nil)

		svc := newTestService(repo, members, visits, now)
		rec, err := svc.CheckIn(context.Background(), CheckInRequest{MemberID: 1})

		require.NoError(t, err)
		assert.Equal(t, 100, rec.ID)
		repo.AssertExpectations(t)
		visits.AssertExpectations(t)
	})

	t.Run("unlimited registration is not decremented", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("ActiveRegistration", mock.Anything, 1, now).Return(12, nil, "Unlimited", nil)
		repo.On("GetOpenForDay", mock.Anything, 1, dayStart, dayEnd).Return(nil, sql.ErrNoRows)
		repo.On("Create", mock.Anything, 1, 12, now, "morning workout").
			Return(&Record{ID: 101}, nil)
		visits.On("RecordVisit", mock.Anything, 1, now).Return(nil)

		svc := newTestService(repo, members, visits, now)
		_, err := svc.CheckIn(context.Background(), CheckInRequest{MemberID: 1, Notes: "morning workout"})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "DecrementSessions", mock.Anything, mock.Anything)
	})

	t.Run("no active package", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("ActiveRegistration", mock.Anything, 1, now).Return(0, nil, "", sql.ErrNoRows)

		svc := newTestService(repo, members, visits, now)
		_, err := svc.CheckIn(context.Background(), CheckInRequest{MemberID: 1})

		assert.ErrorIs(t, err, ErrNoActivePackage)
	})

	t.Run("already checked in today", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("ActiveRegistration", mock.Anything, 1, now).Return(12, nil, "Standard 30", nil)
		repo.On("GetOpenForDay", mock.Anything, 1, dayStart, dayEnd).
			Return(&Record{ID: 99, MemberID: 1, CheckinTime: now.Add(-time.Hour)}, nil)

		svc := newTestService(repo, members, visits, now)
		_, err := svc.CheckIn(context.Background(), CheckInRequest{MemberID: 1})

		assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown member", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		members.On("GetByID", mock.Anything, 7).Return(nil, errors.New("not found"))

		svc := newTestService(repo, members, visits, now)
		_, err := svc.CheckIn(context.Background(), CheckInRequest{MemberID: 7})

		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("visit recording failure does not fail check-in", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("ActiveRegistration", mock.Anything, 1, now).Return(12, nil, "Standard 30", nil)
		repo.On("GetOpenForDay", mock.Anything, 1, dayStart, dayEnd).Return(nil, sql.ErrNoRows)
		repo.On("Create", mock.Anything, 1, 12, now, "Standard 30").Return(&Record{ID: 102}, nil)
		visits.On("RecordVisit", mock.Anything, 1, now).Return(errors.New("db busy"))

		svc := newTestService(repo, members, visits, now)
		rec, err := svc.CheckIn(context.Background(), CheckInRequest{MemberID: 1})

		require.NoError(t, err)
		assert.Equal(t, 102, rec.ID)
	})
}

func TestService_CheckOut(t *testing.T) {
	now := fixedNow()
	dayStart := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	t.Run("duration rounded to whole minutes", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		// 87 minutes 40 seconds on the clock rounds to 88.
		checkin := now.Add(-87*time.Minute - 40*time.Second)
		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("GetOpenForDay", mock.Anything, 1, dayStart, dayEnd).
			Return(&Record{ID: 50, MemberID: 1, CheckinTime: checkin}, nil)
		duration := 88
		repo.On("Complete", mock.Anything, 50, now, 88, "good session").
			Return(&Record{ID: 50, Duration: &duration, Status: StatusCompleted}, nil)

		svc := newTestService(repo, members, visits, now)
		rec, err := svc.CheckOut(context.Background(), 1, "good session")

		require.NoError(t, err)
		require.NotNil(t, rec.Duration)
		assert.Equal(t, 88, *rec.Duration)
		repo.AssertExpectations(t)
	})

	t.Run("no open check-in", func(t *testing.T) {
		repo := new(MockAttendanceRepo)
		members := new(MockMemberService)
		visits := new(MockVisitRecorder)

		members.On("GetByID", mock.Anything, 1).Return(&member.Member{ID: 1}, nil)
		repo.On("GetOpenForDay", mock.Anything, 1, dayStart, dayEnd).Return(nil, sql.ErrNoRows)

		svc := newTestService(repo, members, visits, now)
		_, err := svc.CheckOut(context.Background(), 1, "")

		assert.ErrorIs(t, err, ErrNoActiveCheckIn)
	})
}

func TestService_Today_LiveDuration(t *testing.T) {
	now := fixedNow()
	dayStart := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	repo := new(MockAttendanceRepo)
	members := new(MockMemberService)
	visits := new(MockVisitRecorder)

	closedDuration := 45
	checkout := now.Add(-time.Hour)
	repo.On("ListForDay", mock.Anything, dayStart, dayEnd).Return([]Record{
		{ID: 1, CheckinTime: now.Add(-30 * time.Minute)},
		{ID: 2, CheckinTime: checkout.Add(-45 * time.Minute), CheckoutTime: &checkout, Duration: &closedDuration},
	}, nil)

	svc := newTestService(repo, members, visits, now)
	records, err := svc.Today(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Duration)
	assert.Equal(t, 30, *records[0].Duration)
	assert.Equal(t, 45, *records[1].Duration)
}

func TestService_Overview(t *testing.T) {
	now := fixedNow()
	dayStart := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := dayStart.AddDate(0, 0, -6)

	repo := new(MockAttendanceRepo)
	members := new(MockMemberService)
	visits := new(MockVisitRecorder)

	repo.On("DayStats", mock.Anything, dayStart, dayEnd).Return(25, 6, 19, 52, nil)
	repo.On("DailyCounts", mock.Anything, weekStart, dayEnd).Return([]DayCount{
		{Day: dayStart.AddDate(0, 0, -1), Count: 30},
		{Day: dayStart, Count: 25},
	}, nil)
	repo.On("MostActiveMembers", mock.Anything, now.AddDate(0, 0, -7), 10).Return([]ActiveMember{
		{MemberID: 1, MemberName: "Nguyen Van A", Sessions: 6},
	}, nil)

	svc := newTestService(repo, members, visits, now)
	overview, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 25, overview.TodayTotal)
	assert.Equal(t, 6, overview.CurrentlyInGym)
	assert.Equal(t, 19, overview.TodayCompleted)
	assert.Equal(t, 52, overview.AvgDurationMins)
	assert.Len(t, overview.WeeklyTrend, 2)
	assert.Len(t, overview.MostActive, 1)
}

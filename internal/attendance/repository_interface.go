package attendance

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, memberID, registrationID int, checkinTime time.Time, notes string) (*Record, error)
	GetByID(ctx context.Context, id int) (*Record, error)
	GetOpenForDay(ctx context.Context, memberID int, dayStart, dayEnd time.Time) (*Record, error)
	Complete(ctx context.Context, id int, checkoutTime time.Time, durationMins int, notes string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int, error)
	ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Record, error)
	DayStats(ctx context.Context, dayStart, dayEnd time.Time) (total, inGym, completed, avgDuration int, err error)
	DailyCounts(ctx context.Context, from, to time.Time) ([]DayCount, error)
	MostActiveMembers(ctx context.Context, from time.Time, limit int) ([]ActiveMember, error)
	MemberHistory(ctx context.Context, memberID int, filter ListFilter) ([]Record, int, error)
	MemberStats(ctx context.Context, memberID int, monthStart time.Time) (*HistoryStats, error)
	ActiveRegistration(ctx context.Context, memberID int, now time.Time) (registrationID int, remainingSessions *int, packageName string, err error)
	DecrementSessions(ctx context.Context, registrationID int) error
}

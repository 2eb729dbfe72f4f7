package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const recordSelect = `
	SELECT a.id, a.member_id, a.registration_id, a.checkin_time, a.checkout_time,
	       a.duration, a.status, a.notes, a.created_at, a.updated_at,
	       m.full_name AS member_name, m.membership_number
	FROM attendance a
	JOIN members m ON m.id = a.member_id
`

func (r *repository) Create(ctx context.Context, memberID, registrationID int, checkinTime time.Time, notes string) (*Record, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO attendance (member_id, registration_id, checkin_time, status, notes)
		VALUES ($1, $2, $3, 'checked_in', $4)
		RETURNING id
	`, memberID, registrationID, checkinTime, notes).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, recordSelect+` WHERE a.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) GetOpenForDay(ctx context.Context, memberID int, dayStart, dayEnd time.Time) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, recordSelect+`
		WHERE a.member_id = $1
		  AND a.checkout_time IS NULL
		  AND a.checkin_time >= $2 AND a.checkin_time < $3
		ORDER BY a.checkin_time DESC
		LIMIT 1
	`, memberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Complete(ctx context.Context, id int, checkoutTime time.Time, durationMins int, notes string) (*Record, error) {
	query := `
		UPDATE attendance
		SET checkout_time = $2,
		    duration = $3,
		    status = 'completed',
		    updated_at = NOW()`
	args := []interface{}{id, checkoutTime, durationMins}
	if notes != "" {
		query += `, notes = CASE WHEN notes = '' THEN $4 ELSE notes || E'\n' || $4 END`
		args = append(args, notes)
	}
	query += ` WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetByID(ctx, id)
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if filter.MemberID > 0 {
		where = append(where, fmt.Sprintf("a.member_id = $%d", i))
		args = append(args, filter.MemberID)
		i++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("a.status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("a.checkin_time >= $%d", i))
		args = append(args, *filter.From)
		i++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("a.checkin_time < $%d", i))
		args = append(args, *filter.To)
		i++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM attendance a`+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := recordSelect + whereClause +
		fmt.Sprintf(` ORDER BY a.checkin_time DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *repository) ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Record, error) {
	var records []Record
	err := r.db.SelectContext(ctx, &records, recordSelect+`
		WHERE a.checkin_time >= $1 AND a.checkin_time < $2
		ORDER BY a.checkin_time DESC
	`, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) DayStats(ctx context.Context, dayStart, dayEnd time.Time) (int, int, int, int, error) {
	var stats struct {
		Total       int `db:"total"`
		InGym       int `db:"in_gym"`
		Completed   int `db:"completed"`
		AvgDuration int `db:"avg_duration"`
	}
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE checkout_time IS NULL) AS in_gym,
		       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		       COALESCE(ROUND(AVG(duration) FILTER (WHERE duration IS NOT NULL)), 0) AS avg_duration
		FROM attendance
		WHERE checkin_time >= $1 AND checkin_time < $2
	`, dayStart, dayEnd)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return stats.Total, stats.InGym, stats.Completed, stats.AvgDuration, nil
}

func (r *repository) DailyCounts(ctx context.Context, from, to time.Time) ([]DayCount, error) {
	var counts []DayCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT DATE_TRUNC('day', checkin_time) AS day, COUNT(*) AS count
		FROM attendance
		WHERE checkin_time >= $1 AND checkin_time < $2
		GROUP BY day
		ORDER BY day ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *repository) MostActiveMembers(ctx context.Context, from time.Time, limit int) ([]ActiveMember, error) {
	var members []ActiveMember
	err := r.db.SelectContext(ctx, &members, `
		SELECT a.member_id, m.full_name AS member_name, m.membership_number,
		       COUNT(*) AS sessions
		FROM attendance a
		JOIN members m ON m.id = a.member_id
		WHERE a.checkin_time >= $1
		GROUP BY a.member_id, m.full_name, m.membership_number
		ORDER BY sessions DESC, a.member_id ASC
		LIMIT $2
	`, from, limit)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) MemberHistory(ctx context.Context, memberID int, filter ListFilter) ([]Record, int, error) {
	filter.MemberID = memberID
	return r.List(ctx, filter)
}

func (r *repository) MemberStats(ctx context.Context, memberID int, monthStart time.Time) (*HistoryStats, error) {
	var stats struct {
		Total       int `db:"total"`
		ThisMonth   int `db:"this_month"`
		AvgDuration int `db:"avg_duration"`
	}
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE checkin_time >= $2) AS this_month,
		       COALESCE(ROUND(AVG(duration) FILTER (WHERE duration IS NOT NULL)), 0) AS avg_duration
		FROM attendance
		WHERE member_id = $1
	`, memberID, monthStart)
	if err != nil {
		return nil, err
	}
	return &HistoryStats{
		TotalSessions:     stats.Total,
		ThisMonthSessions: stats.ThisMonth,
		AvgDurationMins:   stats.AvgDuration,
	}, nil
}

func (r *repository) ActiveRegistration(ctx context.Context, memberID int, now time.Time) (int, *int, string, error) {
	var row struct {
		ID                int    `db:"id"`
		RemainingSessions *int   `db:"remaining_sessions"`
		PackageName       string `db:"package_name"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT r.id, r.remaining_sessions, p.name AS package_name
		FROM registrations r
		JOIN packages p ON p.id = r.package_id
		WHERE r.member_id = $1 AND r.status = 'active' AND r.start_date <= $2 AND r.end_date >= $2
		ORDER BY r.end_date ASC
		LIMIT 1
	`, memberID, now)
	if err != nil {
		return 0, nil, "", err
	}
	return row.ID, row.RemainingSessions, row.PackageName, nil
}

func (r *repository) DecrementSessions(ctx context.Context, registrationID int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE registrations
		SET remaining_sessions = remaining_sessions - 1,
		    updated_at = NOW()
		WHERE id = $1 AND remaining_sessions IS NOT NULL AND remaining_sessions > 0
	`, registrationID)
	return err
}

package schedule

import (
	"context"
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

const scheduleSelect = `
	SELECT s.id, s.employee_id, s.date, s.start_time, s.end_time,
	       s.shift_type, s.status, s.notes, s.created_at, s.updated_at,
	       e.full_name AS employee_name
	FROM work_schedules s
	JOIN employees e ON e.id = s.employee_id
`

func (r *repository) Create(ctx context.Context, req CreateScheduleRequest, date time.Time) (*WorkSchedule, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO work_schedules (employee_id, date, start_time, end_time, shift_type, status, notes)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', $6)
		RETURNING id
	`, req.EmployeeID, date, req.StartTime, req.EndTime, req.ShiftType, req.Notes).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int) (*WorkSchedule, error) {
	var s WorkSchedule
	err := r.db.GetContext(ctx, &s, scheduleSelect+` WHERE s.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]WorkSchedule, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if filter.EmployeeID > 0 {
		where = append(where, fmt.Sprintf("s.employee_id = $%d", i))
		args = append(args, filter.EmployeeID)
		i++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("s.status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.Date != nil {
		where = append(where, fmt.Sprintf("s.date = $%d", i))
		args = append(args, *filter.Date)
		i++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM work_schedules s`+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := scheduleSelect + whereClause +
		fmt.Sprintf(` ORDER BY s.date DESC, s.start_time ASC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var schedules []WorkSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateScheduleRequest) (*WorkSchedule, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}

	if req.Date != nil {
		add("date", *req.Date)
	}
	if req.StartTime != nil {
		add("start_time", *req.StartTime)
	}
	if req.EndTime != nil {
		add("end_time", *req.EndTime)
	}
	if req.ShiftType != nil {
		add("shift_type", *req.ShiftType)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE work_schedules SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrScheduleNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM work_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

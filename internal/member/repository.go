package member

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

const memberColumns = `id, full_name, email, phone, date_of_birth, gender, address,
	membership_number, join_date, status,
	emergency_name, emergency_phone, emergency_relationship,
	notes, last_visit, total_visits, created_at, updated_at`

func (r *repository) Create(ctx context.Context, req CreateMemberRequest, membershipNumber string, dateOfBirth *time.Time) (*Member, error) {
	var m Member
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO members (full_name, email, phone, date_of_birth, gender, address,
			membership_number, join_date, status,
			emergency_name, emergency_phone, emergency_relationship, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), 'active', $8, $9, $10, $11)
		RETURNING `+memberColumns,
		req.FullName, req.Email, req.Phone, dateOfBirth, req.Gender, req.Address,
		membershipNumber,
		req.EmergencyName, req.EmergencyPhone, req.EmergencyRelationship, req.Notes,
	).StructScan(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetByMembershipNumber(ctx context.Context, number string) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m,
		`SELECT `+memberColumns+` FROM members WHERE membership_number = $1`, number)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Member, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.Gender != "" {
		where = append(where, fmt.Sprintf("gender = $%d", i))
		args = append(args, filter.Gender)
		i++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf(
			"(full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR membership_number ILIKE $%d)",
			i, i, i, i))
		args = append(args, "%"+filter.Search+"%")
		i++
	}
	if filter.HasActivePackage != nil {
		clause := `EXISTS (
			SELECT 1 FROM registrations r
			WHERE r.member_id = members.id AND r.status = 'active'
			  AND r.start_date <= NOW() AND r.end_date >= NOW()
		)`
		if !*filter.HasActivePackage {
			clause = "NOT " + clause
		}
		where = append(where, clause)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM members`+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + memberColumns + ` FROM members` + whereClause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var members []Member
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateMemberRequest) (*Member, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}

	if req.FullName != nil {
		add("full_name", *req.FullName)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.EmergencyName != nil {
		add("emergency_name", *req.EmergencyName)
	}
	if req.EmergencyPhone != nil {
		add("emergency_phone", *req.EmergencyPhone)
	}
	if req.EmergencyRelationship != nil {
		add("emergency_relationship", *req.EmergencyRelationship)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE members SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)
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
		return nil, ErrMemberNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) CountJoinedInYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM members WHERE EXTRACT(YEAR FROM join_date) = $1`, year)
	return count, err
}

func (r *repository) HasActiveRegistration(ctx context.Context, memberID int, now time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM registrations
			WHERE member_id = $1 AND status = 'active' AND start_date <= $2 AND end_date >= $2
		)
	`, memberID, now)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) SessionStats(ctx context.Context, memberID int, monthStart time.Time) (int, int, error) {
	var stats struct {
		Total     int `db:"total"`
		ThisMonth int `db:"this_month"`
	}
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE checkin_time >= $2) AS this_month
		FROM attendance
		WHERE member_id = $1
	`, memberID, monthStart)
	if err != nil {
		return 0, 0, err
	}
	return stats.Total, stats.ThisMonth, nil
}

func (r *repository) RecordVisit(ctx context.Context, memberID int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE members
		SET last_visit = $2,
		    total_visits = total_visits + 1,
		    updated_at = NOW()
		WHERE id = $1
	`, memberID, at)
	return err
}

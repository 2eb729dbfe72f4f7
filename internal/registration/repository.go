package registration

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

const registrationSelect = `
	SELECT r.id, r.member_id, r.package_id, r.discount_id,
	       r.start_date, r.end_date,
	       r.original_price, r.discount_amount, r.final_price,
	       r.payment_method, r.status, r.status_reason, r.remaining_sessions, r.notes, r.created_by,
	       r.created_at, r.updated_at,
	       m.full_name AS member_name,
	       p.name AS package_name
	FROM registrations r
	JOIN members m ON m.id = r.member_id
	JOIN packages p ON p.id = r.package_id
`

func (r *repository) Create(ctx context.Context, reg *Registration) (*Registration, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO registrations (member_id, package_id, discount_id, start_date, end_date,
			original_price, discount_amount, final_price,
			payment_method, status, remaining_sessions, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, $11, $12)
		RETURNING id
	`, reg.MemberID, reg.PackageID, reg.DiscountID, reg.StartDate, reg.EndDate,
		reg.OriginalPrice, reg.DiscountAmount, reg.FinalPrice,
		reg.PaymentMethod, reg.RemainingSessions, reg.Notes, reg.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Registration, error) {
	var reg Registration
	err := r.db.GetContext(ctx, &reg, registrationSelect+` WHERE r.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Registration, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if filter.MemberID > 0 {
		where = append(where, fmt.Sprintf("r.member_id = $%d", i))
		args = append(args, filter.MemberID)
		i++
	}
	if filter.PackageID > 0 {
		where = append(where, fmt.Sprintf("r.package_id = $%d", i))
		args = append(args, filter.PackageID)
		i++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("r.status = $%d", i))
		args = append(args, filter.Status)
		i++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM registrations r`+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := registrationSelect + whereClause +
		fmt.Sprintf(` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var registrations []Registration
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status RegistrationStatus, reason string) (*Registration, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE registrations
		SET status = $2, status_reason = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, reason)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrRegistrationNotFound
	}

	return r.GetByID(ctx, id)
}

// FindOngoing returns the member's registration whose end date is still in
// the future, regardless of remaining sessions. Cancelled registrations do
// not block a new one.
func (r *repository) FindOngoing(ctx context.Context, memberID int, now time.Time) (*Registration, error) {
	var reg Registration
	err := r.db.GetContext(ctx, &reg, registrationSelect+`
		WHERE r.member_id = $1 AND r.status NOT IN ('cancelled', 'expired') AND r.end_date > $2
		ORDER BY r.end_date DESC
		LIMIT 1
	`, memberID, now)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) ActivePackages(ctx context.Context, memberID int, now time.Time) ([]ActivePackage, error) {
	var packages []ActivePackage
	err := r.db.SelectContext(ctx, &packages, `
		SELECT r.id AS registration_id, r.package_id, p.name AS package_name,
		       r.start_date, r.end_date, r.remaining_sessions
		FROM registrations r
		JOIN packages p ON p.id = r.package_id
		WHERE r.member_id = $1 AND r.status = 'active' AND r.start_date <= $2 AND r.end_date >= $2
		ORDER BY r.end_date ASC
	`, memberID, now)
	if err != nil {
		return nil, err
	}

	for i := range packages {
		days := int(packages[i].EndDate.Sub(now).Hours() / 24)
		if days < 0 {
			days = 0
		}
		packages[i].DaysRemaining = days
	}

	return packages, nil
}

package discount

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

const discountSelect = `
	SELECT d.id, d.code, d.name, d.type, d.value, d.max_discount_amount,
	       d.start_date, d.end_date, d.usage_limit, d.used_count, d.status,
	       d.created_at, d.updated_at,
	       COALESCE(array_agg(dp.package_id) FILTER (WHERE dp.package_id IS NOT NULL), '{}') AS applicable_packages
	FROM discounts d
	LEFT JOIN discount_packages dp ON dp.discount_id = d.id
`

func (r *repository) Create(ctx context.Context, req CreateDiscountRequest, startDate, endDate time.Time) (*Discount, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO discounts (code, name, type, value, max_discount_amount, start_date, end_date, usage_limit, used_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 'active')
		RETURNING id
	`, req.Code, req.Name, req.Type, req.Value, req.MaxDiscountAmount, startDate, endDate, req.UsageLimit).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, pkgID := range req.ApplicablePackages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO discount_packages (discount_id, package_id) VALUES ($1, $2)`,
			id, pkgID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Discount, error) {
	var d Discount
	err := r.db.GetContext(ctx, &d, discountSelect+` WHERE d.id = $1 GROUP BY d.id`, id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) GetActiveByCode(ctx context.Context, code string, now time.Time) (*Discount, error) {
	var d Discount
	err := r.db.GetContext(ctx, &d, discountSelect+`
		WHERE d.code = $1
		  AND d.status = 'active'
		  AND d.start_date <= $2
		  AND d.end_date >= $2
		GROUP BY d.id
	`, code, now)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Discount, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("d.status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.Type != "" {
		where = append(where, fmt.Sprintf("d.type = $%d", i))
		args = append(args, filter.Type)
		i++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM discounts d`+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := discountSelect + whereClause +
		fmt.Sprintf(` GROUP BY d.id ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var discounts []Discount
	if err := r.db.SelectContext(ctx, &discounts, query, args...); err != nil {
		return nil, 0, err
	}

	return discounts, total, nil
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]Discount, error) {
	var discounts []Discount
	err := r.db.SelectContext(ctx, &discounts, discountSelect+`
		WHERE d.status = 'active' AND d.start_date <= $1 AND d.end_date >= $1
		GROUP BY d.id
		ORDER BY d.end_date ASC
	`, now)
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateDiscountRequest) (*Discount, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", i))
		args = append(args, *req.Name)
		i++
	}
	if req.Value != nil {
		sets = append(sets, fmt.Sprintf("value = $%d", i))
		args = append(args, *req.Value)
		i++
	}
	if req.EndDate != nil {
		sets = append(sets, fmt.Sprintf("end_date = $%d", i))
		args = append(args, *req.EndDate)
		i++
	}
	if req.UsageLimit != nil {
		sets = append(sets, fmt.Sprintf("usage_limit = $%d", i))
		args = append(args, *req.UsageLimit)
		i++
	}
	if req.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", i))
		args = append(args, *req.Status)
		i++
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE discounts SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)
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
		return nil, ErrDiscountNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM discounts WHERE code = $1)`, code)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) IncrementUsage(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE discounts
		SET used_count = used_count + 1,
		    updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *repository) StatsByStatus(ctx context.Context) ([]StatusCount, error) {
	var stats []StatusCount
	err := r.db.SelectContext(ctx, &stats, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(used_count), 0) AS total_usage
		FROM discounts
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM discounts
		WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
	`, now)
	return count, err
}

func (r *repository) CountExpiringSoon(ctx context.Context, now time.Time, within time.Duration) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM discounts
		WHERE status = 'active' AND end_date >= $1 AND end_date <= $2
	`, now, now.Add(within))
	return count, err
}

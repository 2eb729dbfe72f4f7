package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const employeeColumns = `id, full_name, email, phone, position, department, salary, hire_date,
	status, qualifications, emergency_name, emergency_phone, created_at, updated_at`

func (r *repository) Create(ctx context.Context, req CreateEmployeeRequest, hireDate time.Time) (*Employee, error) {
	var e Employee
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO employees (full_name, email, phone, position, department, salary, hire_date,
			status, qualifications, emergency_name, emergency_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'active', $8, $9, $10)
		RETURNING `+employeeColumns,
		req.FullName, req.Email, req.Phone, req.Position, req.Department, req.Salary, hireDate,
		pq.Array(req.Qualifications), req.EmergencyName, req.EmergencyPhone,
	).StructScan(&e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Employee, error) {
	var e Employee
	err := r.db.GetContext(ctx, &e,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Employee, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, filter.Status)
		i++
	}
	if filter.Department != "" {
		where = append(where, fmt.Sprintf("department = $%d", i))
		args = append(args, filter.Department)
		i++
	}
	if filter.Position != "" {
		where = append(where, fmt.Sprintf("position = $%d", i))
		args = append(args, filter.Position)
		i++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM employees`+whereClause, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + employeeColumns + ` FROM employees` + whereClause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	var employees []Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateEmployeeRequest) (*Employee, error) {
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
	if req.Position != nil {
		add("position", *req.Position)
	}
	if req.Department != nil {
		add("department", *req.Department)
	}
	if req.Salary != nil {
		add("salary", *req.Salary)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Qualifications != nil {
		add("qualifications", pq.Array(*req.Qualifications))
	}
	if req.EmergencyName != nil {
		add("emergency_name", *req.EmergencyName)
	}
	if req.EmergencyPhone != nil {
		add("emergency_phone", *req.EmergencyPhone)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE employees SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)
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
		return nil, ErrEmployeeNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id)
	if err != nil {
		return false, err
	}
	return exists, nil
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const packageColumns = "id, code, name, description, price, duration_days, max_sessions, status, created_at, updated_at"

func (r *repository) Create(ctx context.Context, req CreatePackageRequest) (*Package, error) {
	query := `
		INSERT INTO packages (code, name, description, price, duration_days, max_sessions, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'active')
		RETURNING ` + packageColumns

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query,
		req.Code, req.Name, req.Description, req.Price, req.DurationDays, req.MaxSessions)
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Package, error) {
	var pkg Package
	err := r.db.GetContext(ctx, &pkg,
		`SELECT `+packageColumns+` FROM packages WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Package, error) {
	var pkg Package
	err := r.db.GetContext(ctx, &pkg,
		`SELECT `+packageColumns+` FROM packages WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) List(ctx context.Context, status string) ([]Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var pkgs []Package
	err := r.db.SelectContext(ctx, &pkgs, query, args...)
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdatePackageRequest) (*Package, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", i))
		args = append(args, *req.Name)
		i++
	}
	if req.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", i))
		args = append(args, *req.Description)
		i++
	}
	if req.Price != nil {
		sets = append(sets, fmt.Sprintf("price = $%d", i))
		args = append(args, *req.Price)
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
	query := fmt.Sprintf(
		`UPDATE packages SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), i, packageColumns)
	args = append(args, id)

	var pkg Package
	err := r.db.GetContext(ctx, &pkg, query, args...)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM packages WHERE code = $1)`, code)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) InUse(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE package_id = $1)`, id)
	if err != nil {
		return false, err
	}
	return exists, nil
}

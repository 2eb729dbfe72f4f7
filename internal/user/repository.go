package user

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, full_name, email, password_hash, role, is_email_verified, created_at, updated_at`

func (r *repository) Create(ctx context.Context, fullName, email, passwordHash string, role Role) (*User, error) {
	var u User
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (full_name, email, password_hash, role, is_email_verified)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING `+userColumns,
		fullName, email, passwordHash, role,
	).StructScan(&u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) MarkEmailVerified(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_email_verified = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	return err
}

func (r *repository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
	return err
}

func (r *repository) CreateCode(ctx context.Context, userID int, code string, purpose CodePurpose, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_codes (user_id, code, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
	`, userID, code, purpose, expiresAt)
	return err
}

func (r *repository) GetValidCode(ctx context.Context, userID int, code string, purpose CodePurpose, now time.Time) (*VerificationCode, error) {
	var vc VerificationCode
	err := r.db.GetContext(ctx, &vc, `
		SELECT id, user_id, code, purpose, expires_at, created_at
		FROM verification_codes
		WHERE user_id = $1 AND code = $2 AND purpose = $3 AND expires_at > $4
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, code, purpose, now)
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *repository) DeleteCodes(ctx context.Context, userID int, purpose CodePurpose) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM verification_codes WHERE user_id = $1 AND purpose = $2
	`, userID, purpose)
	return err
}

package user

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, fullName, email, passwordHash string, role Role) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	MarkEmailVerified(ctx context.Context, id int) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error

	CreateCode(ctx context.Context, userID int, code string, purpose CodePurpose, expiresAt time.Time) error
	GetValidCode(ctx context.Context, userID int, code string, purpose CodePurpose, now time.Time) (*VerificationCode, error)
	DeleteCodes(ctx context.Context, userID int, purpose CodePurpose) error
}

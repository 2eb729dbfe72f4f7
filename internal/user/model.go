package user

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleReception Role = "reception"
	RoleTrainer   Role = "trainer"
	RoleMember    Role = "member"
)

type User struct {
	ID            int       `db:"id" json:"id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Role          Role      `db:"role" json:"role"`
	EmailVerified bool      `db:"is_email_verified" json:"is_email_verified"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type CodePurpose string

const (
	PurposeVerify CodePurpose = "verify"
	PurposeReset  CodePurpose = "reset"
)

type VerificationCode struct {
	ID        int         `db:"id" json:"id"`
	UserID    int         `db:"user_id" json:"user_id"`
	Code      string      `db:"code" json:"-"`
	Purpose   CodePurpose `db:"purpose" json:"purpose"`
	ExpiresAt time.Time   `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required" validate:"required,max=150"`
	Email    string `json:"email" binding:"required,email" validate:"required,email,max=150"`
	Password string `json:"password" binding:"required,min=8" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin manager reception trainer member"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

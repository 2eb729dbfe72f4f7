package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email already verified")
)

const (
	verifyCodeTTL = 15 * time.Minute
	resendCodeTTL = 10 * time.Minute
	resetCodeTTL  = 15 * time.Minute
)

// Mailer is the slice of the email service this package needs.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, name, code string, ttl time.Duration) error
	SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type service struct {
	repo          Repository
	mailer        Mailer
	accessSecret  string
	refreshSecret string
	now           func() time.Time
}

func NewService(repo Repository, mailer Mailer, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		mailer:        mailer,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		now:           time.Now,
	}
}

// generateCode returns a random six digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *service) issueCode(ctx context.Context, u *User, purpose CodePurpose, ttl time.Duration) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.repo.CreateCode(ctx, u.ID, code, purpose, s.now().Add(ttl)); err != nil {
		return "", err
	}
	return code, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := Role(req.Role)
	if role == "" {
		role = RoleReception
	}

	u, err := s.repo.Create(ctx, req.FullName, req.Email, hash, role)
	if err != nil {
		return nil, err
	}

	code, err := s.issueCode(ctx, u, PurposeVerify, verifyCodeTTL)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, u.Email, u.FullName, code, verifyCodeTTL); err != nil {
		logger.Errorf("failed to queue verification email for %s: %v", u.Email, err)
	}

	return u, nil
}

func (s *service) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return ErrInvalidCode
	}

	if _, err := s.repo.GetValidCode(ctx, u.ID, req.Code, PurposeVerify, s.now()); err != nil {
		return ErrInvalidCode
	}

	if err := s.repo.MarkEmailVerified(ctx, u.ID); err != nil {
		return err
	}

	return s.repo.DeleteCodes(ctx, u.ID, PurposeVerify)
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return ErrUserNotFound
	}
	if u.EmailVerified {
		return ErrAlreadyVerified
	}

	if err := s.repo.DeleteCodes(ctx, u.ID, PurposeVerify); err != nil {
		return err
	}

	code, err := s.issueCode(ctx, u, PurposeVerify, resendCodeTTL)
	if err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, u.Email, u.FullName, code, resendCodeTTL); err != nil {
		logger.Errorf("failed to queue verification email for %s: %v", u.Email, err)
	}

	return nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords produce the same error so accounts cannot be enumerated. The
// verification check runs only after the password has matched.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	access, refresh, err := auth.GenerateTokens(u.ID, u.Email, string(u.Role), s.accessSecret, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:   u,
		Tokens: TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	access, refresh, _, err := auth.RefreshTokens(refreshToken, s.refreshSecret, s.accessSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil
	}

	code, err := s.issueCode(ctx, u, PurposeReset, resetCodeTTL)
	if err != nil {
		logger.Errorf("failed to issue reset code for %s: %v", email, err)
		return nil
	}

	if err := s.mailer.SendPasswordResetCode(ctx, u.Email, u.FullName, code, resetCodeTTL); err != nil {
		logger.Errorf("failed to queue password reset email for %s: %v", u.Email, err)
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return ErrInvalidCode
	}

	if _, err := s.repo.GetValidCode(ctx, u.ID, req.Code, PurposeReset, s.now()); err != nil {
		return ErrInvalidCode
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	return s.repo.DeleteCodes(ctx, u.ID, PurposeReset)
}

package user

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, fullName, email, passwordHash string, role Role) (*User, error) {
	args := m.Called(ctx, fullName, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) MarkEmailVerified(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepo) CreateCode(ctx context.Context, userID int, code string, purpose CodePurpose, expiresAt time.Time) error {
	return m.Called(ctx, userID, code, purpose, expiresAt).Error(0)
}

func (m *MockUserRepo) GetValidCode(ctx context.Context, userID int, code string, purpose CodePurpose, now time.Time) (*VerificationCode, error) {
	args := m.Called(ctx, userID, code, purpose, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationCode), args.Error(1)
}

func (m *MockUserRepo) DeleteCodes(ctx context.Context, userID int, purpose CodePurpose) error {
	return m.Called(ctx, userID, purpose).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendVerificationCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	return m.Called(ctx, email, name, code, ttl).Error(0)
}

func (m *MockMailer) SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	return m.Called(ctx, email, name, code, ttl).Error(0)
}

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestService(repo Repository, mailer Mailer, now time.Time) *service {
	return &service{
		repo:          repo,
		mailer:        mailer,
		accessSecret:  testAccessSecret,
		refreshSecret: testRefreshSecret,
		now:           func() time.Time { return now },
	}
}

func sixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func TestService_Register(t *testing.T) {
	now := time.Now()

	t.Run("issues a six digit verification code", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)

		created := &User{ID: 1, FullName: "Tran Thi B", Email: "b@example.com", Role: RoleReception}
		repo.On("EmailExists", mock.Anything, "b@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, "Tran Thi B", "b@example.com", mock.Anything, RoleReception).Return(created, nil)
		repo.On("CreateCode", mock.Anything, 1, mock.MatchedBy(sixDigits), PurposeVerify, now.Add(15*time.Minute)).Return(nil)
		mailer.On("SendVerificationCode", mock.Anything, "b@example.com", "Tran Thi B", mock.MatchedBy(sixDigits), 15*time.Minute).Return(nil)

		svc := newTestService(repo, mailer, now)
		u, err := svc.Register(context.Background(), RegisterRequest{
			FullName: "Tran Thi B", Email: "b@example.com", Password: "changeme123",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, u.ID)
		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)

		repo.On("EmailExists", mock.Anything, "b@example.com").Return(true, nil)

		svc := newTestService(repo, mailer, now)
		_, err := svc.Register(context.Background(), RegisterRequest{
			FullName: "Tran Thi B", Email: "b@example.com", Password: "changeme123",
		})

		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)

		created := &User{ID: 1, Email: "b@example.com"}
		repo.On("EmailExists", mock.Anything, "b@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(created, nil)
		repo.On("CreateCode", mock.Anything, 1, mock.Anything, PurposeVerify, mock.Anything).Return(nil)
		mailer.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis down"))

		svc := newTestService(repo, mailer, now)
		_, err := svc.Register(context.Background(), RegisterRequest{
			FullName: "Tran Thi B", Email: "b@example.com", Password: "changeme123",
		})

		assert.NoError(t, err)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	now := time.Now()

	t.Run("marks verified and purges codes", func(t *testing.T) {
		repo := new(MockUserRepo)
		u := &User{ID: 1, Email: "b@example.com"}
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(u, nil)
		repo.On("GetValidCode", mock.Anything, 1, "123456", PurposeVerify, now).Return(&VerificationCode{ID: 5}, nil)
		repo.On("MarkEmailVerified", mock.Anything, 1).Return(nil)
		repo.On("DeleteCodes", mock.Anything, 1, PurposeVerify).Return(nil)

		svc := newTestService(repo, new(MockMailer), now)
		err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: "b@example.com", Code: "123456"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("expired or wrong code", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(&User{ID: 1}, nil)
		repo.On("GetValidCode", mock.Anything, 1, "000000", PurposeVerify, now).Return(nil, sql.ErrNoRows)

		svc := newTestService(repo, new(MockMailer), now)
		err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: "b@example.com", Code: "000000"})

		assert.ErrorIs(t, err, ErrInvalidCode)
		repo.AssertNotCalled(t, "MarkEmailVerified", mock.Anything, mock.Anything)
	})

	t.Run("unknown email reported as invalid code", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows)

		svc := newTestService(repo, new(MockMailer), now)
		err := svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: "nobody@example.com", Code: "123456"})

		assert.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestService_ResendVerification(t *testing.T) {
	now := time.Now()

	t.Run("replaces old codes with a shorter lived one", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)

		u := &User{ID: 1, Email: "b@example.com", FullName: "Tran Thi B"}
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(u, nil)
		repo.On("DeleteCodes", mock.Anything, 1, PurposeVerify).Return(nil)
		repo.On("CreateCode", mock.Anything, 1, mock.MatchedBy(sixDigits), PurposeVerify, now.Add(10*time.Minute)).Return(nil)
		mailer.On("SendVerificationCode", mock.Anything, "b@example.com", "Tran Thi B", mock.Anything, 10*time.Minute).Return(nil)

		svc := newTestService(repo, mailer, now)
		require.NoError(t, svc.ResendVerification(context.Background(), "b@example.com"))
		repo.AssertExpectations(t)
	})

	t.Run("already verified", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(&User{ID: 1, EmailVerified: true}, nil)

		svc := newTestService(repo, new(MockMailer), now)
		err := svc.ResendVerification(context.Background(), "b@example.com")

		assert.ErrorIs(t, err, ErrAlreadyVerified)
	})
}

func TestService_Login(t *testing.T) {
	now := time.Now()
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	verified := func() *User {
		return &User{ID: 1, Email: "b@example.com", PasswordHash: hash, Role: RoleManager, EmailVerified: true}
	}

	t.Run("returns user and token pair", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(verified(), nil)

		svc := newTestService(repo, new(MockMailer), now)
		resp, err := svc.Login(context.Background(), LoginRequest{Email: "b@example.com", Password: "correct-horse"})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.User.ID)
		assert.NotEmpty(t, resp.Tokens.AccessToken)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
		assert.NotEqual(t, resp.Tokens.AccessToken, resp.Tokens.RefreshToken)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows)
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(verified(), nil)

		svc := newTestService(repo, new(MockMailer), now)

		_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		_, errWrong := svc.Login(context.Background(), LoginRequest{Email: "b@example.com", Password: "wrong"})

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("unverified email rejected only after password matches", func(t *testing.T) {
		repo := new(MockUserRepo)
		u := verified()
		u.EmailVerified = false
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(u, nil)

		svc := newTestService(repo, new(MockMailer), now)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "b@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrEmailNotVerified)

		_, err = svc.Login(context.Background(), LoginRequest{Email: "b@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Refresh(t *testing.T) {
	now := time.Now()
	svc := newTestService(new(MockUserRepo), new(MockMailer), now)

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		_, refresh, err := auth.GenerateTokens(1, "b@example.com", "manager", testAccessSecret, testRefreshSecret)
		require.NoError(t, err)

		pair, err := svc.Refresh(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		access, _, err := auth.GenerateTokens(1, "b@example.com", "manager", testAccessSecret, testRefreshSecret)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	now := time.Now()

	t.Run("unknown email still succeeds", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)
		repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows)

		svc := newTestService(repo, mailer, now)
		assert.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
		mailer.AssertNotCalled(t, "SendPasswordResetCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known email gets a reset code", func(t *testing.T) {
		repo := new(MockUserRepo)
		mailer := new(MockMailer)

		u := &User{ID: 1, Email: "b@example.com", FullName: "Tran Thi B"}
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(u, nil)
		repo.On("CreateCode", mock.Anything, 1, mock.MatchedBy(sixDigits), PurposeReset, now.Add(15*time.Minute)).Return(nil)
		mailer.On("SendPasswordResetCode", mock.Anything, "b@example.com", "Tran Thi B", mock.MatchedBy(sixDigits), 15*time.Minute).Return(nil)

		svc := newTestService(repo, mailer, now)
		assert.NoError(t, svc.ForgotPassword(context.Background(), "b@example.com"))
		mailer.AssertExpectations(t)
	})
}

func TestService_ResetPassword(t *testing.T) {
	now := time.Now()

	t.Run("updates the hash and purges reset codes", func(t *testing.T) {
		repo := new(MockUserRepo)
		u := &User{ID: 1, Email: "b@example.com"}
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(u, nil)
		repo.On("GetValidCode", mock.Anything, 1, "654321", PurposeReset, now).Return(&VerificationCode{ID: 9}, nil)
		repo.On("UpdatePassword", mock.Anything, 1, mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword(hash, "new-password-1")
		})).Return(nil)
		repo.On("DeleteCodes", mock.Anything, 1, PurposeReset).Return(nil)

		svc := newTestService(repo, new(MockMailer), now)
		err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
			Email: "b@example.com", Code: "654321", NewPassword: "new-password-1",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("bad code leaves the password alone", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", mock.Anything, "b@example.com").Return(&User{ID: 1}, nil)
		repo.On("GetValidCode", mock.Anything, 1, "000000", PurposeReset, now).Return(nil, sql.ErrNoRows)

		svc := newTestService(repo, new(MockMailer), now)
		err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
			Email: "b@example.com", Code: "000000", NewPassword: "new-password-1",
		})

		assert.ErrorIs(t, err, ErrInvalidCode)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

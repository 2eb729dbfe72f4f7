package registration

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"gymdesk/internal/catalog"
	"gymdesk/internal/discount"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockRegistrationRepo struct{ mock.Mock }

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *Registration) (*Registration, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Registration), args.Error(1)
}

func (m *MockRegistrationRepo) GetByID(ctx context.Context, id int) (*Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Registration), args.Error(1)
}

func (m *MockRegistrationRepo) List(ctx context.Context, filter ListFilter) ([]Registration, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Registration), args.Int(1), args.Error(2)
}

func (m *MockRegistrationRepo) UpdateStatus(ctx context.Context, id int, status RegistrationStatus, reason string) (*Registration, error) {
	args := m.Called(ctx, id, status, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Registration), args.Error(1)
}

func (m *MockRegistrationRepo) FindOngoing(ctx context.Context, memberID int, now time.Time) (*Registration, error) {
	args := m.Called(ctx, memberID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Registration), args.Error(1)
}

func (m *MockRegistrationRepo) ActivePackages(ctx context.Context, memberID int, now time.Time) ([]ActivePackage, error) {
	args := m.Called(ctx, memberID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ActivePackage), args.Error(1)
}

type MockMemberService struct{ mock.Mock }

func (m *MockMemberService) Create(ctx context.Context, req member.CreateMemberRequest) (*member.Member, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) GetByID(ctx context.Context, id int) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) GetWithStatistics(ctx context.Context, id int) (*member.Member, *member.MemberStatistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*member.Member), args.Get(1).(*member.MemberStatistics), args.Error(2)
}

func (m *MockMemberService) List(ctx context.Context, filter member.ListFilter) ([]member.Member, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]member.Member), args.Int(1), args.Error(2)
}

func (m *MockMemberService) Update(ctx context.Context, id int, req member.UpdateMemberRequest) (*member.Member, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) Create(ctx context.Context, req catalog.CreatePackageRequest) (*catalog.Package, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Package), args.Error(1)
}

func (m *MockCatalogService) GetByID(ctx context.Context, id int) (*catalog.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Package), args.Error(1)
}

func (m *MockCatalogService) List(ctx context.Context, status string) ([]catalog.Package, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Package), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id int, req catalog.UpdatePackageRequest) (*catalog.Package, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Package), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockDiscountService struct{ mock.Mock }

func (m *MockDiscountService) Create(ctx context.Context, req discount.CreateDiscountRequest) (*discount.Discount, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.Discount), args.Error(1)
}

func (m *MockDiscountService) GetByID(ctx context.Context, id int) (*discount.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.Discount), args.Error(1)
}

func (m *MockDiscountService) List(ctx context.Context, filter discount.ListFilter) ([]discount.Discount, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]discount.Discount), args.Int(1), args.Error(2)
}

func (m *MockDiscountService) ListActive(ctx context.Context) ([]discount.Discount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discount.Discount), args.Error(1)
}

func (m *MockDiscountService) Update(ctx context.Context, id int, req discount.UpdateDiscountRequest) (*discount.Discount, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.Discount), args.Error(1)
}

func (m *MockDiscountService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDiscountService) Apply(ctx context.Context, code string, packageID int, originalPrice int64) (*discount.ApplyResult, error) {
	args := m.Called(ctx, code, packageID, originalPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.ApplyResult), args.Error(1)
}

func (m *MockDiscountService) IncrementUsage(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDiscountService) Statistics(ctx context.Context) (*discount.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.Statistics), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendRegistrationConfirmation(ctx context.Context, email, name, packageName string, durationDays int, startDate, endDate time.Time, originalPrice, discountAmount, finalPrice int64) error {
	args := m.Called(ctx, email, name, packageName, durationDays, startDate, endDate, originalPrice, discountAmount, finalPrice)
	return args.Error(0)
}

func testMember() *member.Member {
	return &member.Member{
		ID:               1,
		FullName:         "Nguyen Van A",
		Email:            "a@example.com",
		MembershipNumber: "GYM20260001",
	}
}

func testPackage() *catalog.Package {
	sessions := 10
	return &catalog.Package{
		ID:           3,
		Code:         "STD30",
		Name:         "Standard 30",
		Price:        500000,
		DurationDays: 30,
		MaxSessions:  &sessions,
		Status:       catalog.StatusActive,
	}
}

func newCreateService(repo Repository, members member.Service, packages catalog.Service, discounts discount.Service, mailer Mailer, now time.Time) *service {
	return &service{
		repo:      repo,
		members:   members,
		packages:  packages,
		discounts: discounts,
		mailer:    mailer,
		now:       func() time.Time { return now },
	}
}

func TestService_Create(t *testing.T) {
	now := time.Now()

	t.Run("success without discount", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		members.On("GetByID", mock.Anything, 1).Return(testMember(), nil)
		packages.On("GetByID", mock.Anything, 3).Return(testPackage(), nil)
		repo.On("FindOngoing", mock.Anything, 1, now).Return(nil, sql.ErrNoRows)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(reg *Registration) bool {
			return reg.MemberID == 1 &&
				reg.PackageID == 3 &&
				reg.OriginalPrice == 500000 &&
				reg.DiscountAmount == 0 &&
				reg.FinalPrice == 500000 &&
				reg.RemainingSessions != nil && *reg.RemainingSessions == 10 &&
				reg.EndDate.Equal(now.AddDate(0, 0, 30))
		})).Return(&Registration{ID: 42, MemberID: 1, PackageID: 3, FinalPrice: 500000}, nil)
		mailer.On("SendRegistrationConfirmation", mock.Anything, "a@example.com", "Nguyen Van A", "Standard 30",
			30, mock.Anything, mock.Anything, int64(500000), int64(0), int64(500000)).Return(nil)

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		reg, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 1, PackageID: 3, PaymentMethod: "cash",
		}, 9)

		require.NoError(t, err)
		assert.Equal(t, 42, reg.ID)
		repo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("discount applied and usage incremented", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		members.On("GetByID", mock.Anything, 1).Return(testMember(), nil)
		packages.On("GetByID", mock.Anything, 3).Return(testPackage(), nil)
		repo.On("FindOngoing", mock.Anything, 1, now).Return(nil, sql.ErrNoRows)
		discounts.On("Apply", mock.Anything, "SUMMER20", 3, int64(500000)).Return(&discount.ApplyResult{
			Discount:       &discount.Discount{ID: 7},
			OriginalPrice:  500000,
			DiscountAmount: 100000,
			FinalPrice:     400000,
		}, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(reg *Registration) bool {
			return reg.DiscountID != nil && *reg.DiscountID == 7 &&
				reg.DiscountAmount == 100000 &&
				reg.FinalPrice == 400000
		})).Return(&Registration{ID: 43, FinalPrice: 400000}, nil)
		discounts.On("IncrementUsage", mock.Anything, 7).Return(nil)
		mailer.On("SendRegistrationConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		reg, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 1, PackageID: 3, PaymentMethod: "card", DiscountCode: "SUMMER20",
		}, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(400000), reg.FinalPrice)
		discounts.AssertExpectations(t)
	})

	t.Run("unusable discount code is ignored", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		members.On("GetByID", mock.Anything, 1).Return(testMember(), nil)
		packages.On("GetByID", mock.Anything, 3).Return(testPackage(), nil)
		repo.On("FindOngoing", mock.Anything, 1, now).Return(nil, sql.ErrNoRows)
		discounts.On("Apply", mock.Anything, "EXPIRED", 3, int64(500000)).Return(nil, discount.ErrCodeInvalid)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(reg *Registration) bool {
			return reg.DiscountID == nil && reg.FinalPrice == 500000
		})).Return(&Registration{ID: 44, FinalPrice: 500000}, nil)
		mailer.On("SendRegistrationConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		reg, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 1, PackageID: 3, PaymentMethod: "cash", DiscountCode: "EXPIRED",
		}, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(500000), reg.FinalPrice)
		discounts.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("ongoing registration blocks a new one", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		conflicting := &Registration{ID: 10, MemberID: 1, EndDate: now.Add(10 * 24 * time.Hour)}
		members.On("GetByID", mock.Anything, 1).Return(testMember(), nil)
		packages.On("GetByID", mock.Anything, 3).Return(testPackage(), nil)
		repo.On("FindOngoing", mock.Anything, 1, now).Return(conflicting, nil)

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		_, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 1, PackageID: 3, PaymentMethod: "cash",
		}, 0)

		var ongoing *OngoingRegistrationError
		require.ErrorAs(t, err, &ongoing)
		assert.Equal(t, 10, ongoing.Conflicting.ID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("inactive package rejected", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		pkg := testPackage()
		pkg.Status = catalog.StatusInactive
		members.On("GetByID", mock.Anything, 1).Return(testMember(), nil)
		packages.On("GetByID", mock.Anything, 3).Return(pkg, nil)

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		_, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 1, PackageID: 3, PaymentMethod: "cash",
		}, 0)

		assert.ErrorIs(t, err, ErrPackageInactive)
	})

	t.Run("unknown member rejected", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		members.On("GetByID", mock.Anything, 99).Return(nil, errors.New("not found"))

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		_, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 99, PackageID: 3, PaymentMethod: "cash",
		}, 0)

		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("mail failure does not fail the registration", func(t *testing.T) {
		repo := new(MockRegistrationRepo)
		members := new(MockMemberService)
		packages := new(MockCatalogService)
		discounts := new(MockDiscountService)
		mailer := new(MockMailer)

		members.On("GetByID", mock.Anything, 1).Return(testMember(), nil)
		packages.On("GetByID", mock.Anything, 3).Return(testPackage(), nil)
		repo.On("FindOngoing", mock.Anything, 1, now).Return(nil, sql.ErrNoRows)
		repo.On("Create", mock.Anything, mock.Anything).Return(&Registration{ID: 45}, nil)
		mailer.On("SendRegistrationConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))

		svc := newCreateService(repo, members, packages, discounts, mailer, now)
		reg, err := svc.Create(context.Background(), CreateRegistrationRequest{
			MemberID: 1, PackageID: 3, PaymentMethod: "cash",
		}, 0)

		require.NoError(t, err)
		assert.Equal(t, 45, reg.ID)
	})
}

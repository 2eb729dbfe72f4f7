package registration

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymdesk/internal/catalog"
	"gymdesk/internal/discount"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/metrics"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrPackageNotFound      = errors.New("package not found")
	ErrPackageInactive      = errors.New("package is not active")
	ErrInvalidDate          = errors.New("invalid date format")
)

// OngoingRegistrationError carries the registration that blocks a new one.
type OngoingRegistrationError struct {
	Conflicting *Registration
}

func (e *OngoingRegistrationError) Error() string {
	return "member already has an ongoing registration"
}

// Mailer is the slice of the email service this package needs.
type Mailer interface {
	SendRegistrationConfirmation(ctx context.Context, email, name, packageName string, durationDays int, startDate, endDate time.Time, originalPrice, discountAmount, finalPrice int64) error
}

type Service interface {
	Create(ctx context.Context, req CreateRegistrationRequest, createdBy int) (*Registration, error)
	GetByID(ctx context.Context, id int) (*Registration, error)
	List(ctx context.Context, filter ListFilter) ([]Registration, int, error)
	UpdateStatus(ctx context.Context, id int, req UpdateStatusRequest) (*Registration, error)
	MemberActivePackages(ctx context.Context, memberID int) ([]ActivePackage, error)
}

type service struct {
	repo      Repository
	members   member.Service
	packages  catalog.Service
	discounts discount.Service
	mailer    Mailer
	now       func() time.Time
}

func NewService(repo Repository, members member.Service, packages catalog.Service, discounts discount.Service, mailer Mailer) Service {
	return &service{
		repo:      repo,
		members:   members,
		packages:  packages,
		discounts: discounts,
		mailer:    mailer,
		now:       time.Now,
	}
}

// Create registers a member for a package. A discount code that is unknown,
// expired or not applicable to the package is ignored rather than rejected,
// so the registration always proceeds at the price that can be honoured.
func (s *service) Create(ctx context.Context, req CreateRegistrationRequest, createdBy int) (*Registration, error) {
	m, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	pkg, err := s.packages.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, ErrPackageNotFound
	}
	if pkg.Status != catalog.StatusActive {
		return nil, ErrPackageInactive
	}

	now := s.now()
	ongoing, err := s.repo.FindOngoing(ctx, req.MemberID, now)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if ongoing != nil {
		return nil, &OngoingRegistrationError{Conflicting: ongoing}
	}

	startDate := now
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		startDate = parsed
	}
	endDate := startDate.AddDate(0, 0, pkg.DurationDays)

	originalPrice := pkg.Price
	var discountAmount int64
	finalPrice := originalPrice
	var discountID *int

	if req.DiscountCode != "" {
		result, err := s.discounts.Apply(ctx, req.DiscountCode, pkg.ID, originalPrice)
		if err != nil {
			logger.Infof("discount code %q not applied: %v", req.DiscountCode, err)
		} else {
			discountAmount = result.DiscountAmount
			finalPrice = result.FinalPrice
			discountID = &result.Discount.ID
		}
	}

	var remainingSessions *int
	if pkg.MaxSessions != nil {
		sessions := *pkg.MaxSessions
		remainingSessions = &sessions
	}

	var creator *int
	if createdBy > 0 {
		creator = &createdBy
	}

	reg, err := s.repo.Create(ctx, &Registration{
		MemberID:          req.MemberID,
		PackageID:         req.PackageID,
		DiscountID:        discountID,
		StartDate:         startDate,
		EndDate:           endDate,
		OriginalPrice:     originalPrice,
		DiscountAmount:    discountAmount,
		FinalPrice:        finalPrice,
		PaymentMethod:     PaymentMethod(req.PaymentMethod),
		RemainingSessions: remainingSessions,
		Notes:             req.Notes,
		CreatedBy:         creator,
	})
	if err != nil {
		return nil, err
	}

	if discountID != nil {
		if err := s.discounts.IncrementUsage(ctx, *discountID); err != nil {
			logger.Errorf("failed to increment discount usage for %d: %v", *discountID, err)
		}
	}

	metrics.RecordRegistration(req.PaymentMethod)

	if err := s.mailer.SendRegistrationConfirmation(ctx, m.Email, m.FullName, pkg.Name,
		pkg.DurationDays, startDate, endDate,
		originalPrice, discountAmount, finalPrice); err != nil {
		logger.Errorf("failed to queue registration confirmation for %s: %v", m.Email, err)
	}

	return reg, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Registration, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id int, req UpdateStatusRequest) (*Registration, error) {
	return s.repo.UpdateStatus(ctx, id, RegistrationStatus(req.Status), req.Reason)
}

func (s *service) MemberActivePackages(ctx context.Context, memberID int) ([]ActivePackage, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}
	return s.repo.ActivePackages(ctx, memberID, s.now())
}

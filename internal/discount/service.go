package discount

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/metrics"
)

var (
	ErrDiscountNotFound = errors.New("discount not found")
	ErrCodeExists       = errors.New("discount code already exists")
	ErrInvalidWindow    = errors.New("end date must not be before start date")
	ErrInvalidValue     = errors.New("percentage value must be between 0 and 100")
	ErrCodeInvalid      = errors.New("invalid or expired discount code")
	ErrUsageExhausted   = errors.New("discount code usage exhausted")
	ErrNotApplicable    = errors.New("discount not applicable to this package")
)

type Service interface {
	Create(ctx context.Context, req CreateDiscountRequest) (*Discount, error)
	GetByID(ctx context.Context, id int) (*Discount, error)
	List(ctx context.Context, filter ListFilter) ([]Discount, int, error)
	ListActive(ctx context.Context) ([]Discount, error)
	Update(ctx context.Context, id int, req UpdateDiscountRequest) (*Discount, error)
	Delete(ctx context.Context, id int) error
	Apply(ctx context.Context, code string, packageID int, originalPrice int64) (*ApplyResult, error)
	IncrementUsage(ctx context.Context, id int) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateDiscountRequest) (*Discount, error) {
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, ErrInvalidWindow
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, ErrInvalidWindow
	}
	if endDate.Before(startDate) {
		return nil, ErrInvalidWindow
	}

	if req.Type == string(TypePercentage) && (req.Value < 0 || req.Value > 100) {
		return nil, ErrInvalidValue
	}

	exists, err := s.repo.CodeExists(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}

	return s.repo.Create(ctx, req, startDate, endDate)
}

func (s *service) GetByID(ctx context.Context, id int) (*Discount, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrDiscountNotFound
	}
	d.normalizeStatus(s.now())
	return d, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Discount, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	discounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	for i := range discounts {
		discounts[i].normalizeStatus(now)
	}

	return discounts, total, nil
}

func (s *service) ListActive(ctx context.Context) ([]Discount, error) {
	return s.repo.ListActive(ctx, s.now())
}

func (s *service) Update(ctx context.Context, id int, req UpdateDiscountRequest) (*Discount, error) {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Apply resolves a discount code against a package and price. It does NOT
// increment the usage counter; callers must invoke IncrementUsage once the
// surrounding operation has committed.
func (s *service) Apply(ctx context.Context, code string, packageID int, originalPrice int64) (*ApplyResult, error) {
	d, err := s.repo.GetActiveByCode(ctx, code, s.now())
	if err != nil {
		return nil, ErrCodeInvalid
	}

	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return nil, ErrUsageExhausted
	}

	if !d.appliesTo(packageID) {
		return nil, ErrNotApplicable
	}

	amount := d.Amount(originalPrice)
	finalPrice := originalPrice - amount
	if finalPrice < 0 {
		finalPrice = 0
	}

	metrics.RecordDiscountApplication(string(d.Type))

	return &ApplyResult{
		Discount:       d,
		OriginalPrice:  originalPrice,
		DiscountAmount: amount,
		FinalPrice:     finalPrice,
		Savings:        amount,
	}, nil
}

func (s *service) IncrementUsage(ctx context.Context, id int) error {
	return s.repo.IncrementUsage(ctx, id)
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	byStatus, err := s.repo.StatsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	totalActive, err := s.repo.CountActive(ctx, now)
	if err != nil {
		return nil, err
	}

	expiringSoon, err := s.repo.CountExpiringSoon(ctx, now, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		ByStatus:     byStatus,
		TotalActive:  totalActive,
		ExpiringSoon: expiringSoon,
	}, nil
}

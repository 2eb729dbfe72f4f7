package email

import (
	"context"
	"fmt"
	"time"
)

func (s *Service) SendVerificationCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	subject := "Verify your email"
	body := fmt.Sprintf(`Hi %s,

Your verification code is %s (expires in %d minutes).

- GymDesk Team`, name, code, int(ttl.Minutes()))

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	subject := "Password reset code"
	body := fmt.Sprintf(`Hi %s,

Your password reset code is %s (expires in %d minutes).

If you did not request a reset, ignore this email.

- GymDesk Team`, name, code, int(ttl.Minutes()))

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendRegistrationConfirmation(ctx context.Context, email, name, packageName string, durationDays int, startDate, endDate time.Time, originalPrice, discountAmount, finalPrice int64) error {
	subject := "Package registration confirmed - " + packageName

	discountLine := ""
	if discountAmount > 0 {
		discountLine = fmt.Sprintf("Discount: -%d VND\n", discountAmount)
	}

	body := fmt.Sprintf(`Hi %s,

You are registered for the %s package.

Duration: %d days
Start: %s
End: %s
Original price: %d VND
%sTotal: %d VND

See you at the gym!

- GymDesk Team`,
		name, packageName, durationDays,
		startDate.Format("Jan 2, 2006"), endDate.Format("Jan 2, 2006"),
		originalPrice, discountLine, finalPrice)

	return s.Send(ctx, email, name, subject, body)
}

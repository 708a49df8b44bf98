package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/infrastructure/smtp"
	"github.com/otp-auth-api/internal/infrastructure/sns"
)

const otpSubject = "Your verification code"

// Notifier delivers a plaintext OTP to the owner of an identifier.
type Notifier interface {
	SendOTP(ctx context.Context, to domain.Identifier, code string) error
}

type notifier struct {
	mailer    smtp.Mailer
	smsSender sns.SMSSender
	expiry    time.Duration
}

// NewNotifier routes email identifiers to mailer and phone identifiers to smsSender.
// Either channel may be nil, in which case delivery on it is skipped with a warning.
// expiry is the code lifetime quoted in the message; zero means otp.DefaultExpiry.
func NewNotifier(mailer smtp.Mailer, smsSender sns.SMSSender, expiry time.Duration) Notifier {
	if expiry <= 0 {
		expiry = otp.DefaultExpiry
	}
	return &notifier{mailer: mailer, smsSender: smsSender, expiry: expiry}
}

func (n *notifier) SendOTP(ctx context.Context, to domain.Identifier, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in %s.", code, describeExpiry(n.expiry))

	switch to.Kind {
	case domain.IdentifierEmail:
		if n.mailer == nil {
			slog.Warn("no mailer configured, otp not delivered", "channel", "email")
			return nil
		}
		if err := n.mailer.SendEmail(to.Value, otpSubject, body); err != nil {
			return fmt.Errorf("send otp email: %w", err)
		}
		return nil
	case domain.IdentifierPhone:
		if n.smsSender == nil {
			slog.Warn("no sms sender configured, otp not delivered", "channel", "sms")
			return nil
		}
		if err := n.smsSender.SendSMS(ctx, to.Value, body); err != nil {
			return fmt.Errorf("send otp sms: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown identifier kind %q", to.Kind)
}

// describeExpiry renders whole minutes as "5 minutes" and anything else as a Go duration.
func describeExpiry(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}

// Package auth runs the OTP registration and login flows for users and sellers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldIsEmailVerified = "is_email_verified"
	fieldUpdatedAt       = "updated_at"
)

// OTPChallenge is returned when a code has been issued and the client must
// come back with it. OTP is only set when debug echo is enabled.
type OTPChallenge struct {
	OTP               string `json:"otp,omitempty"`
	RegistrationToken string `json:"registrationToken,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
}

type tokenIssuer interface {
	IssueRegistrationToken(payload domain.RegistrationPayload) (string, error)
	VerifyRegistrationToken(token string) (*domain.RegistrationPayload, error)
	IssueAuthToken(actorID string) (string, error)
}

// challenge delivers a freshly generated code to identifier and echoes the
// identifier back under its own field.
func challenge(ctx context.Context, otps otp.Service, n Notifier, echo bool, to domain.Identifier) (*OTPChallenge, error) {
	c, err := otps.Generate(ctx, to.Value)
	if err != nil {
		return nil, err
	}
	if err := n.SendOTP(ctx, to, c); err != nil {
		return nil, err
	}
	ch := &OTPChallenge{}
	switch to.Kind {
	case domain.IdentifierEmail:
		ch.Email = to.Value
	case domain.IdentifierPhone:
		ch.Phone = to.Value
	}
	if echo {
		ch.OTP = c
	}
	return ch, nil
}

func verifyOTP(ctx context.Context, otps otp.Service, identifier, submitted string) error {
	ok, err := otps.Verify(ctx, identifier, submitted)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("otp does not match or has expired: %w", domain.ErrInvalidOTP)
	}
	return nil
}

// found converts a lookup result into presence. Store failures other than
// ErrNotFound are returned unchanged.
func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func nowOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

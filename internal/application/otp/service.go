// Package otp issues and verifies one-time codes for one actor kind.
package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/code"
)

// DefaultExpiry is how long a generated code stays valid.
const DefaultExpiry = 5 * time.Minute

// Store holds at most one OTP record per identifier.
type Store interface {
	// Upsert replaces any record for rec.Identifier.
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	// Get returns domain.ErrNotFound when no record exists.
	Get(ctx context.Context, identifier string) (*domain.OTPRecord, error)
	// DeleteIfMatch atomically deletes the record only if it is still exactly rec.
	DeleteIfMatch(ctx context.Context, rec *domain.OTPRecord) (bool, error)
}

type Service interface {
	// Generate stores a fresh code for identifier, invalidating any earlier one,
	// and returns the plaintext code for out-of-band delivery.
	Generate(ctx context.Context, identifier string) (string, error)
	// Verify reports whether submitted is the live code for identifier and
	// consumes it on success. Absent, expired and wrong codes all report false.
	Verify(ctx context.Context, identifier, submitted string) (bool, error)
}

type service struct {
	store   Store
	expiry  time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

type ServiceDeps struct {
	Store  Store
	Expiry time.Duration
	// Now and NewCode default to time.Now and code.NewNumeric.
	Now     func() time.Time
	NewCode func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:   deps.Store,
		expiry:  deps.Expiry,
		now:     deps.Now,
		newCode: deps.NewCode,
	}
	if s.expiry <= 0 {
		s.expiry = DefaultExpiry
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = code.NewNumeric
	}
	return s
}

func (s *service) Generate(ctx context.Context, identifier string) (string, error) {
	c, err := s.newCode()
	if err != nil {
		return "", err
	}
	rec := &domain.OTPRecord{
		Identifier: identifier,
		OTPHash:    code.Digest(c),
		ExpiresAt:  s.now().Add(s.expiry).Unix(),
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return c, nil
}

func (s *service) Verify(ctx context.Context, identifier, submitted string) (bool, error) {
	rec, err := s.store.Get(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load otp: %w", err)
	}

	if rec.Expired(s.now()) {
		// Guarded delete so a code issued since the read survives.
		if _, err := s.store.DeleteIfMatch(ctx, rec); err != nil {
			return false, fmt.Errorf("purge expired otp: %w", err)
		}
		return false, nil
	}

	if !code.Equal(code.Digest(submitted), rec.OTPHash) {
		return false, nil
	}

	consumed, err := s.store.DeleteIfMatch(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return consumed, nil
}

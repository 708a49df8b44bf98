package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
)

const registrationAudience = "registration"

// actorIDClaims are the claim names that may carry the actor id, tried in order.
// "id" is what this service issues; "userId" and "_id" are accepted only so
// tokens minted by earlier deployments keep working. Do not add to this list.
var actorIDClaims = []string{"id", "userId", "_id"}

// RegistrationClaims carries unpersisted registration data between the
// request-OTP and verify-OTP steps of user registration.
type RegistrationClaims struct {
	domain.RegistrationPayload
	jwt.RegisteredClaims
}

// AuthClaims is the verified content of an auth token.
type AuthClaims struct {
	ActorID string
}

// Provider signs and verifies HS256 registration and auth tokens.
type Provider struct {
	secret         []byte
	authExpiry     time.Duration
	registerExpiry time.Duration
	now            func() time.Time
}

// NewProvider fails when no signing secret is configured. Callers treat that as fatal.
func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{
		secret:         []byte(cfg.JWTSecret),
		authExpiry:     cfg.JWTExpiry,
		registerExpiry: cfg.RegistrationTokenExpiry,
		now:            time.Now,
	}, nil
}

// IssueRegistrationToken signs payload without its avatar reference.
func (p *Provider) IssueRegistrationToken(payload domain.RegistrationPayload) (string, error) {
	payload.ProfileImage = ""
	now := p.now()
	claims := RegistrationClaims{
		RegistrationPayload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{registrationAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(p.registerExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// VerifyRegistrationToken returns the payload of a valid, unexpired registration token.
// Any failure wraps domain.ErrInvalidToken.
func (p *Provider) VerifyRegistrationToken(tokenStr string) (*domain.RegistrationPayload, error) {
	var claims RegistrationClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, p.keyFunc,
		jwt.WithAudience(registrationAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("registration token: %w", domain.ErrInvalidToken)
	}
	return &claims.RegistrationPayload, nil
}

// IssueAuthToken signs {id: actorID}.
func (p *Provider) IssueAuthToken(actorID string) (string, error) {
	now := p.now()
	claims := jwt.MapClaims{
		"id":  actorID,
		"iat": now.Unix(),
		"exp": now.Add(p.authExpiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// VerifyAuthToken checks signature and expiry and resolves the actor id.
// Registration tokens are rejected. Any failure wraps domain.ErrInvalidToken.
func (p *Provider) VerifyAuthToken(tokenStr string) (*AuthClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, p.keyFunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("auth token: %w", domain.ErrInvalidToken)
	}
	if aud, _ := claims.GetAudience(); len(aud) > 0 {
		return nil, fmt.Errorf("auth token has audience %v: %w", aud, domain.ErrInvalidToken)
	}
	actorID := resolveActorID(claims)
	if actorID == "" {
		return nil, fmt.Errorf("auth token carries no actor id: %w", domain.ErrInvalidToken)
	}
	return &AuthClaims{ActorID: actorID}, nil
}

func (p *Provider) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return p.secret, nil
}

func resolveActorID(claims jwt.MapClaims) string {
	for _, name := range actorIDClaims {
		if v, ok := claims[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

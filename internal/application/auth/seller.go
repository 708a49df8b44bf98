package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/id"
	"github.com/otp-auth-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// SellerSession is the result of a completed seller verification.
// Seller is omitted after registration verification.
type SellerSession struct {
	Token  string         `json:"token"`
	Seller *domain.Seller `json:"seller,omitempty"`
}

type SellerService interface {
	Register(ctx context.Context, req domain.RegisterSellerRequest) (*OTPChallenge, error)
	VerifyRegistration(ctx context.Context, req domain.SellerVerifyRequest) (*SellerSession, error)
	Login(ctx context.Context, req domain.SellerLoginRequest) (*OTPChallenge, error)
	VerifyLogin(ctx context.Context, req domain.SellerVerifyRequest) (*SellerSession, error)
}

type sellerStore interface {
	Create(ctx context.Context, s *domain.Seller) error
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Seller, error)
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

type sellerService struct {
	repo         sellerStore
	otps         otp.Service
	tokens       tokenIssuer
	notifier     Notifier
	debugEchoOTP bool
	now          func() time.Time
}

type SellerServiceDeps struct {
	SellerRepo   sellerStore
	OTPs         otp.Service
	Tokens       tokenIssuer
	Notifier     Notifier
	DebugEchoOTP bool
	Now          func() time.Time
}

func NewSellerService(deps SellerServiceDeps) SellerService {
	return &sellerService{
		repo:         deps.SellerRepo,
		otps:         deps.OTPs,
		tokens:       deps.Tokens,
		notifier:     deps.Notifier,
		debugEchoOTP: deps.DebugEchoOTP,
		now:          nowOrDefault(deps.Now),
	}
}

// Register persists the seller unverified and sends a code to its email.
func (s *sellerService) Register(ctx context.Context, req domain.RegisterSellerRequest) (*OTPChallenge, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	req.Phone = domain.NormalizePhone(req.Phone)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, req.Email)
	taken, err := found(err)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if req.Phone != "" {
		_, err := s.repo.GetByPhone(ctx, req.Phone)
		taken, err := found(err)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("phone already registered: %w", domain.ErrConflict)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	seller := &domain.Seller{
		SellerID:     id.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, seller); err != nil {
		return nil, err
	}

	return challenge(ctx, s.otps, s.notifier, s.debugEchoOTP, domain.EmailIdentifier(seller.Email))
}

// VerifyRegistration confirms the seller's email. The seller is looked up
// first so an unknown email leaves OTP state untouched.
func (s *sellerService) VerifyRegistration(ctx context.Context, req domain.SellerVerifyRequest) (*SellerSession, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	seller, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := verifyOTP(ctx, s.otps, req.Email, req.OTP); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, seller.SellerID, map[string]interface{}{
		fieldIsEmailVerified: true,
		fieldUpdatedAt:       s.now().UTC(),
	}); err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueAuthToken(seller.SellerID)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}
	return &SellerSession{Token: token}, nil
}

func (s *sellerService) Login(ctx context.Context, req domain.SellerLoginRequest) (*OTPChallenge, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	seller, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("password does not match: %w", domain.ErrInvalidCredentials)
	}
	return challenge(ctx, s.otps, s.notifier, s.debugEchoOTP, domain.EmailIdentifier(seller.Email))
}

func (s *sellerService) VerifyLogin(ctx context.Context, req domain.SellerVerifyRequest) (*SellerSession, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := verifyOTP(ctx, s.otps, req.Email, req.OTP); err != nil {
		return nil, err
	}
	seller, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueAuthToken(seller.SellerID)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}
	return &SellerSession{Token: token, Seller: seller}, nil
}

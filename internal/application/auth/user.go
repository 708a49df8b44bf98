package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/id"
	"github.com/otp-auth-api/internal/pkg/validate"
)

// UserSession is the result of a completed user registration or login.
type UserSession struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, req domain.RegisterUserRequest) (*OTPChallenge, error)
	VerifyRegistration(ctx context.Context, req domain.VerifyRegistrationRequest) (*UserSession, error)
	Login(ctx context.Context, req domain.UserLoginRequest) (*OTPChallenge, error)
	VerifyLogin(ctx context.Context, req domain.UserVerifyLoginRequest) (*UserSession, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type userService struct {
	repo         userStore
	otps         otp.Service
	tokens       tokenIssuer
	notifier     Notifier
	debugEchoOTP bool
	now          func() time.Time
}

type UserServiceDeps struct {
	UserRepo     userStore
	OTPs         otp.Service
	Tokens       tokenIssuer
	Notifier     Notifier
	DebugEchoOTP bool
	Now          func() time.Time
}

func NewUserService(deps UserServiceDeps) UserService {
	return &userService{
		repo:         deps.UserRepo,
		otps:         deps.OTPs,
		tokens:       deps.Tokens,
		notifier:     deps.Notifier,
		debugEchoOTP: deps.DebugEchoOTP,
		now:          nowOrDefault(deps.Now),
	}
}

// Register checks the identifiers are free, sends a code to the preferred one
// and hands back a registration token. Nothing is persisted besides the code.
func (s *userService) Register(ctx context.Context, req domain.RegisterUserRequest) (*OTPChallenge, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	req.Phone = domain.NormalizePhone(req.Phone)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Email == "" && req.Phone == "" {
		return nil, fmt.Errorf("email or phone is required: %w", domain.ErrValidation)
	}
	if err := s.ensureAvailable(ctx, req.Email, req.Phone); err != nil {
		return nil, err
	}

	payload := domain.RegistrationPayload{
		Email:        req.Email,
		Phone:        req.Phone,
		Name:         req.Name,
		DOB:          req.DOB,
		Gender:       req.Gender,
		ProfileImage: req.ProfileImage,
	}
	ch, err := challenge(ctx, s.otps, s.notifier, s.debugEchoOTP, payload.Identifier())
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueRegistrationToken(payload)
	if err != nil {
		return nil, fmt.Errorf("issue registration token: %w", err)
	}
	ch.RegistrationToken = token
	return ch, nil
}

func (s *userService) ensureAvailable(ctx context.Context, email, phone string) error {
	if email != "" {
		_, err := s.repo.GetByEmail(ctx, email)
		taken, err := found(err)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
	}
	if phone != "" {
		_, err := s.repo.GetByPhone(ctx, phone)
		taken, err := found(err)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("phone already registered: %w", domain.ErrConflict)
		}
	}
	return nil
}

func (s *userService) byIdentifier(ctx context.Context, identifier domain.Identifier) (*domain.User, error) {
	if identifier.Kind == domain.IdentifierEmail {
		return s.repo.GetByEmail(ctx, identifier.Value)
	}
	return s.repo.GetByPhone(ctx, identifier.Value)
}

func (s *userService) VerifyRegistration(ctx context.Context, req domain.VerifyRegistrationRequest) (*UserSession, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	payload, err := s.tokens.VerifyRegistrationToken(req.RegistrationToken)
	if err != nil {
		return nil, err
	}
	identifier := payload.Identifier()
	if identifier.IsZero() {
		return nil, fmt.Errorf("registration token carries no email or phone: %w", domain.ErrValidation)
	}
	if err := verifyOTP(ctx, s.otps, identifier.Value, req.OTP); err != nil {
		return nil, err
	}

	u, err := s.newUser(payload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueAuthToken(u.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}
	return &UserSession{Token: token, User: u}, nil
}

// newUser builds the actor from a verified payload. The identifier the code
// was sent to is marked verified.
func (s *userService) newUser(p *domain.RegistrationPayload) (*domain.User, error) {
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		ProfileImage: domain.DefaultProfileImage,
		Gender:       p.Gender,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch p.Identifier().Kind {
	case domain.IdentifierEmail:
		u.IsEmailVerified = true
	case domain.IdentifierPhone:
		u.IsPhoneVerified = true
	}
	if p.DOB != "" {
		dob, err := time.Parse("2006-01-02", p.DOB)
		if err != nil {
			return nil, fmt.Errorf("dob must be in YYYY-MM-DD format: %w", domain.ErrValidation)
		}
		u.DOB = &dob
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, req domain.UserLoginRequest) (*OTPChallenge, error) {
	identifier, err := loginIdentifier(req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if _, err := s.byIdentifier(ctx, identifier); err != nil {
		return nil, err
	}
	return challenge(ctx, s.otps, s.notifier, s.debugEchoOTP, identifier)
}

func (s *userService) VerifyLogin(ctx context.Context, req domain.UserVerifyLoginRequest) (*UserSession, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	req.Phone = domain.NormalizePhone(req.Phone)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	identifier, err := loginIdentifier(req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := verifyOTP(ctx, s.otps, identifier.Value, req.OTP); err != nil {
		return nil, err
	}
	u, err := s.byIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueAuthToken(u.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue auth token: %w", err)
	}
	return &UserSession{Token: token, User: u}, nil
}

// loginIdentifier normalizes and validates the identifier a user logs in with.
// Email wins when both are supplied.
func loginIdentifier(email, phone string) (domain.Identifier, error) {
	req := domain.UserLoginRequest{
		Email: domain.NormalizeEmail(email),
		Phone: domain.NormalizePhone(phone),
	}
	if err := validate.Struct(req); err != nil {
		return domain.Identifier{}, err
	}
	switch {
	case req.Email != "":
		return domain.EmailIdentifier(req.Email), nil
	case req.Phone != "":
		return domain.PhoneIdentifier(req.Phone), nil
	}
	return domain.Identifier{}, fmt.Errorf("email or phone is required: %w", domain.ErrValidation)
}

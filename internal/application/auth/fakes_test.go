package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- in-memory identifier stores ---

// memUsers enforces email/phone uniqueness under one lock, the way the claims
// table does in DynamoDB.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	email map[string]string
	phone map[string]string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}, email: map[string]string{}, phone: map[string]string{}}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.email[u.Email]; ok && u.Email != "" {
		return fmt.Errorf("email claimed: %w", domain.ErrConflict)
	}
	if _, ok := m.phone[u.Phone]; ok && u.Phone != "" {
		return fmt.Errorf("phone claimed: %w", domain.ErrConflict)
	}
	cp := *u
	m.byID[u.UserID] = &cp
	if u.Email != "" {
		m.email[u.Email] = u.UserID
	}
	if u.Phone != "" {
		m.phone[u.Phone] = u.UserID
	}
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.email[email]; ok {
		cp := *m.byID[id]
		return &cp, nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (m *memUsers) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.phone[phone]; ok {
		cp := *m.byID[id]
		return &cp, nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memSellers struct {
	mu    sync.Mutex
	byID  map[string]*domain.Seller
	email map[string]string
	phone map[string]string
}

func newMemSellers() *memSellers {
	return &memSellers{byID: map[string]*domain.Seller{}, email: map[string]string{}, phone: map[string]string{}}
}

func (m *memSellers) Create(_ context.Context, s *domain.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.email[s.Email]; ok {
		return fmt.Errorf("email claimed: %w", domain.ErrConflict)
	}
	if _, ok := m.phone[s.Phone]; ok && s.Phone != "" {
		return fmt.Errorf("phone claimed: %w", domain.ErrConflict)
	}
	cp := *s
	m.byID[s.SellerID] = &cp
	m.email[s.Email] = s.SellerID
	if s.Phone != "" {
		m.phone[s.Phone] = s.SellerID
	}
	return nil
}

func (m *memSellers) GetByEmail(_ context.Context, email string) (*domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.email[email]; ok {
		cp := *m.byID[id]
		return &cp, nil
	}
	return nil, fmt.Errorf("seller: %w", domain.ErrNotFound)
}

func (m *memSellers) GetByPhone(_ context.Context, phone string) (*domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.phone[phone]; ok {
		cp := *m.byID[id]
		return &cp, nil
	}
	return nil, fmt.Errorf("seller: %w", domain.ErrNotFound)
}

func (m *memSellers) Update(_ context.Context, sellerID string, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[sellerID]
	if !ok {
		return fmt.Errorf("seller: %w", domain.ErrNotFound)
	}
	if v, ok := updates[fieldIsEmailVerified].(bool); ok {
		s.IsEmailVerified = v
	}
	if v, ok := updates[fieldUpdatedAt].(time.Time); ok {
		s.UpdatedAt = v
	}
	return nil
}

// --- mocks ---

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendOTP(ctx context.Context, to domain.Identifier, code string) error {
	return m.Called(ctx, to, code).Error(0)
}

// recordingNotifier keeps the last code sent to each identifier value and the
// channel kind it was routed by.
type recordingNotifier struct {
	mu    sync.Mutex
	codes map[string]string
	kinds map[string]domain.IdentifierKind
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{codes: map[string]string{}, kinds: map[string]domain.IdentifierKind{}}
}

func (r *recordingNotifier) SendOTP(_ context.Context, to domain.Identifier, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[to.Value] = code
	r.kinds[to.Value] = to.Kind
	return nil
}

func (r *recordingNotifier) kind(identifier string) domain.IdentifierKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kinds[identifier]
}

func (r *recordingNotifier) last(identifier string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[identifier]
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

var ctx = context.Background()

func newTokens(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		JWTSecret:               "test-secret",
		JWTExpiry:               7 * 24 * time.Hour,
		RegistrationTokenExpiry: 10 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

type userHarness struct {
	svc      UserService
	users    *memUsers
	otpStore *otp.MemoryStore
	notifier *recordingNotifier
	tokens   *jwtinfra.Provider
}

func newUserHarness(t *testing.T, echo bool) *userHarness {
	h := &userHarness{
		users:    newMemUsers(),
		otpStore: otp.NewMemoryStore(),
		notifier: newRecordingNotifier(),
		tokens:   newTokens(t),
	}
	h.svc = NewUserService(UserServiceDeps{
		UserRepo:     h.users,
		OTPs:         otp.NewService(otp.ServiceDeps{Store: h.otpStore}),
		Tokens:       h.tokens,
		Notifier:     h.notifier,
		DebugEchoOTP: echo,
	})
	return h
}

type sellerHarness struct {
	svc      SellerService
	sellers  *memSellers
	otpStore *otp.MemoryStore
	notifier *recordingNotifier
	tokens   *jwtinfra.Provider
}

func newSellerHarness(t *testing.T) *sellerHarness {
	h := &sellerHarness{
		sellers:  newMemSellers(),
		otpStore: otp.NewMemoryStore(),
		notifier: newRecordingNotifier(),
		tokens:   newTokens(t),
	}
	h.svc = NewSellerService(SellerServiceDeps{
		SellerRepo: h.sellers,
		OTPs:       otp.NewService(otp.ServiceDeps{Store: h.otpStore}),
		Tokens:     h.tokens,
		Notifier:   h.notifier,
	})
	return h
}

// wrongCode returns a valid-looking code that differs from c.
func wrongCode(c string) string {
	if c == "999999" {
		return "100000"
	}
	return "999999"
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/domain"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory repositories ---

type memActors struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	sellers map[string]*domain.Seller
}

func newMemActors() *memActors {
	return &memActors{users: map[string]*domain.User{}, sellers: map[string]*domain.Seller{}}
}

type memUserRepo struct{ *memActors }

func (m memUserRepo) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.users {
		if (u.Email != "" && x.Email == u.Email) || (u.Phone != "" && x.Phone == u.Phone) {
			return domain.ErrConflict
		}
	}
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m memUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (m memUserRepo) Get(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.UserID == id })
}
func (m memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}
func (m memUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Phone == phone })
}
func (m memUserRepo) GetStatus(ctx context.Context, id string) (*domain.ActorStatus, error) {
	u, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ActorStatus{ID: id, Kind: domain.ActorUser, IsActive: u.IsActive, IsDeleted: u.IsDeleted}, nil
}
func (m memUserRepo) Update(_ context.Context, current *domain.User, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[current.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	if v, ok := updates["name"].(string); ok {
		u.Name = v
	}
	if v, ok := updates["is_deleted"].(bool); ok {
		u.IsDeleted = v
	}
	return nil
}

type memSellerRepo struct{ *memActors }

func (m memSellerRepo) Create(_ context.Context, s *domain.Seller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.sellers {
		if x.Email == s.Email {
			return domain.ErrConflict
		}
	}
	cp := *s
	m.sellers[s.SellerID] = &cp
	return nil
}

func (m memSellerRepo) find(match func(*domain.Seller) bool) (*domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sellers {
		if match(s) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("seller: %w", domain.ErrNotFound)
}

func (m memSellerRepo) Get(_ context.Context, id string) (*domain.Seller, error) {
	return m.find(func(s *domain.Seller) bool { return s.SellerID == id })
}
func (m memSellerRepo) GetByEmail(_ context.Context, email string) (*domain.Seller, error) {
	return m.find(func(s *domain.Seller) bool { return s.Email == email })
}
func (m memSellerRepo) GetByPhone(_ context.Context, phone string) (*domain.Seller, error) {
	return m.find(func(s *domain.Seller) bool { return s.Phone != "" && s.Phone == phone })
}
func (m memSellerRepo) GetStatus(ctx context.Context, id string) (*domain.ActorStatus, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ActorStatus{ID: id, Kind: domain.ActorSeller, IsActive: s.IsActive, IsDeleted: s.IsDeleted}, nil
}
func (m memSellerRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sellers[id]
	if !ok {
		return domain.ErrNotFound
	}
	if v, ok := updates["is_email_verified"].(bool); ok {
		s.IsEmailVerified = v
	}
	return nil
}

// --- helpers ---

func newTestServer(t *testing.T) (nethttp.Handler, *memActors) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:               "router-secret",
		JWTExpiry:               time.Hour,
		RegistrationTokenExpiry: 10 * time.Minute,
		OTPExpiry:               5 * time.Minute,
		DebugEchoOTP:            true,
		AllowedOrigins:          []string{"*"},
	}
	provider, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)

	actors := newMemActors()
	return NewRouter(cfg, &Deps{
		UserRepo:       memUserRepo{actors},
		SellerRepo:     memSellerRepo{actors},
		UserOTPStore:   otp.NewMemoryStore(),
		SellerOTPStore: otp.NewMemoryStore(),
		JWTProvider:    provider,
	}), actors
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, h nethttp.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func data(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// --- flows ---

func TestRouter_UserRegistrationScenario(t *testing.T) {
	h, actors := newTestServer(t)

	code, env := call(t, h, nethttp.MethodPost, "/v1/user/auth/register", "", map[string]string{"email": "a@x.com", "name": "Ann"})
	require.Equal(t, nethttp.StatusOK, code, env.Message)
	var ch struct {
		OTP               string `json:"otp"`
		RegistrationToken string `json:"registrationToken"`
		Email             string `json:"email"`
	}
	data(t, env, &ch)
	require.Len(t, ch.OTP, 6)
	assert.Equal(t, "a@x.com", ch.Email)

	wrong := "999999"
	if ch.OTP == wrong {
		wrong = "100000"
	}
	code, env = call(t, h, nethttp.MethodPost, "/v1/user/auth/verify-registration", "", map[string]string{"otp": wrong, "registrationToken": ch.RegistrationToken})
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Empty(t, actors.users)

	code, env = call(t, h, nethttp.MethodPost, "/v1/user/auth/verify-registration", "", map[string]string{"otp": ch.OTP, "registrationToken": ch.RegistrationToken})
	require.Equal(t, nethttp.StatusCreated, code, env.Message)
	var sess struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	data(t, env, &sess)
	assert.Equal(t, "a@x.com", sess.User.Email)
	assert.Len(t, actors.users, 1)

	code, env = call(t, h, nethttp.MethodGet, "/v1/user/profile", sess.Token, nil)
	require.Equal(t, nethttp.StatusOK, code)
	var me domain.User
	data(t, env, &me)
	assert.Equal(t, "Ann", me.Name)

	code, _ = call(t, h, nethttp.MethodPut, "/v1/user/profile", sess.Token, map[string]string{"name": "Annie"})
	assert.Equal(t, nethttp.StatusOK, code)
}

func TestRouter_DeletedUserIsForbidden(t *testing.T) {
	h, actors := newTestServer(t)
	actors.users["u1"] = &domain.User{UserID: "u1", Email: "a@x.com", IsActive: true, IsDeleted: true}
	token, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "router-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)
	tok, err := token.IssueAuthToken("u1")
	require.NoError(t, err)

	code, env := call(t, h, nethttp.MethodGet, "/v1/user/profile", tok, nil)

	assert.Equal(t, nethttp.StatusForbidden, code)
	assert.False(t, env.Success)
}

func TestRouter_ProfileRequiresToken(t *testing.T) {
	h, _ := newTestServer(t)

	code, _ := call(t, h, nethttp.MethodGet, "/v1/seller/profile", "", nil)

	assert.Equal(t, nethttp.StatusUnauthorized, code)
}

func TestRouter_LoginUnknownUser(t *testing.T) {
	h, _ := newTestServer(t)

	code, _ := call(t, h, nethttp.MethodPost, "/v1/user/auth/login", "", map[string]string{"email": "ghost@x.com"})

	assert.Equal(t, nethttp.StatusNotFound, code)
}

func TestRouter_SellerFlow(t *testing.T) {
	h, actors := newTestServer(t)

	code, env := call(t, h, nethttp.MethodPost, "/v1/seller/auth/register", "", map[string]string{
		"name": "Acme", "email": "shop@acme.io", "password": "hunter22",
	})
	require.Equal(t, nethttp.StatusCreated, code, env.Message)
	var ch struct {
		OTP string `json:"otp"`
	}
	data(t, env, &ch)
	require.Len(t, actors.sellers, 1, "sellers are persisted before verification")

	code, env = call(t, h, nethttp.MethodPost, "/v1/seller/auth/verify-registration", "", map[string]string{"otp": ch.OTP, "email": "shop@acme.io"})
	require.Equal(t, nethttp.StatusOK, code, env.Message)
	var sess struct {
		Token string `json:"token"`
	}
	data(t, env, &sess)

	code, env = call(t, h, nethttp.MethodGet, "/v1/seller/profile", sess.Token, nil)
	require.Equal(t, nethttp.StatusOK, code)
	var me domain.Seller
	data(t, env, &me)
	assert.True(t, me.IsEmailVerified)

	code, _ = call(t, h, nethttp.MethodPost, "/v1/seller/auth/login", "", map[string]string{"email": "shop@acme.io", "password": "wrong-pass"})
	assert.Equal(t, nethttp.StatusUnauthorized, code)

	// A seller token is checked against sellers, not users.
	code, _ = call(t, h, nethttp.MethodGet, "/v1/user/profile", sess.Token, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, code)
}

func TestRouter_HealthCheck(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := call(t, h, nethttp.MethodGet, "/v1/health-check/ping", "", nil)

	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, "pong", env.Message)
}

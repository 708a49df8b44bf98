package http

import (
	"context"
	"io"

	"github.com/otp-auth-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	// GetStatus loads only is_active/is_deleted; it backs the session gate.
	GetStatus(ctx context.Context, userID string) (*domain.ActorStatus, error)
	Update(ctx context.Context, current *domain.User, updates map[string]interface{}) error
}

// SellerRepository is the minimal interface the router requires from a seller store.
type SellerRepository interface {
	Create(ctx context.Context, s *domain.Seller) error
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Seller, error)
	GetStatus(ctx context.Context, sellerID string) (*domain.ActorStatus, error)
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

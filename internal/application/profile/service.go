// Package profile reads and edits the profile of an authenticated actor.
package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/id"
	"github.com/otp-auth-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName            = "name"
	fieldEmail           = "email"
	fieldPhone           = "phone"
	fieldDOB             = "dob"
	fieldGender          = "gender"
	fieldProfileImage    = "profile_image"
	fieldProfileImageKey = "profile_image_key"
	fieldIsEmailVerified = "is_email_verified"
	fieldIsPhoneVerified = "is_phone_verified"
)

var avatarExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// Avatar is an uploaded profile image.
type Avatar struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Service interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req domain.UpdateProfileRequest, avatar *Avatar) (*domain.User, error)
	GetSeller(ctx context.Context, sellerID string) (*domain.Seller, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, current *domain.User, updates map[string]interface{}) error
}

type sellerStore interface {
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
}

type blobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	users   userStore
	sellers sellerStore
	blobs   blobStore
}

type ServiceDeps struct {
	UserRepo   userStore
	SellerRepo sellerStore
	Blobs      blobStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:   deps.UserRepo,
		sellers: deps.SellerRepo,
		blobs:   deps.Blobs,
	}
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !(domain.ActorStatus{IsActive: u.IsActive, IsDeleted: u.IsDeleted}).Usable() {
		return nil, fmt.Errorf("user is inactive or deleted: %w", domain.ErrForbidden)
	}
	return u, nil
}

func (s *service) GetSeller(ctx context.Context, sellerID string) (*domain.Seller, error) {
	seller, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !(domain.ActorStatus{IsActive: seller.IsActive, IsDeleted: seller.IsDeleted}).Usable() {
		return nil, fmt.Errorf("seller is inactive or deleted: %w", domain.ErrForbidden)
	}
	return seller, nil
}

// UpdateUser applies a partial edit. Email and phone may be changed but not
// cleared; a changed identifier loses its verified flag. A new avatar replaces
// the previous upload, which is then removed best-effort.
func (s *service) UpdateUser(ctx context.Context, userID string, req domain.UpdateProfileRequest, avatar *Avatar) (*domain.User, error) {
	normalize(&req)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if avatar != nil {
		if _, err := avatarExt(avatar.Filename); err != nil {
			return nil, err
		}
	}

	current, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Gender != nil && *req.Gender != "" {
		updates[fieldGender] = *req.Gender
	}
	if req.DOB != nil && *req.DOB != "" {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, fmt.Errorf("dob must be in YYYY-MM-DD format: %w", domain.ErrValidation)
		}
		updates[fieldDOB] = dob
	}
	if req.Email != nil && *req.Email != current.Email {
		updates[fieldEmail] = *req.Email
		updates[fieldIsEmailVerified] = false
	}
	if req.Phone != nil && *req.Phone != current.Phone {
		updates[fieldPhone] = *req.Phone
		updates[fieldIsPhoneVerified] = false
	}

	var newKey string
	if avatar != nil {
		url, key, err := s.uploadAvatar(ctx, userID, avatar)
		if err != nil {
			return nil, err
		}
		newKey = key
		updates[fieldProfileImage] = url
		updates[fieldProfileImageKey] = key
	}

	if len(updates) == 0 {
		return current, nil
	}
	if err := s.users.Update(ctx, current, updates); err != nil {
		if newKey != "" {
			s.discard(ctx, newKey)
		}
		return nil, err
	}
	if newKey != "" && current.ProfileImageKey != "" {
		s.discard(ctx, current.ProfileImageKey)
	}
	return s.users.Get(ctx, userID)
}

func (s *service) uploadAvatar(ctx context.Context, userID string, a *Avatar) (url, key string, err error) {
	ext, err := avatarExt(a.Filename)
	if err != nil {
		return "", "", err
	}
	key = id.ObjectKey("avatars/users/"+userID, ext)
	url, err = s.blobs.Upload(ctx, key, a.Body, a.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("upload avatar: %w", err)
	}
	return url, key, nil
}

func (s *service) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete avatar object", "key", key, "err", err)
	}
}

func avatarExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !avatarExtensions[ext] {
		return "", fmt.Errorf("profile image must be jpg, jpeg, png or gif: %w", domain.ErrValidation)
	}
	return ext, nil
}

// normalize canonicalizes email and phone. A blank value is dropped so it
// means "unchanged" and skips format validation.
func normalize(req *domain.UpdateProfileRequest) {
	req.Email = nonBlank(req.Email, domain.NormalizeEmail)
	req.Phone = nonBlank(req.Phone, domain.NormalizePhone)
}

func nonBlank(v *string, norm func(string) string) *string {
	if v == nil {
		return nil
	}
	n := norm(*v)
	if n == "" {
		return nil
	}
	return &n
}

package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/otp-auth-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
type UserRepo struct {
	t actorTable
}

func NewUserRepo(db DB, tableName, claimsTable string) *UserRepo {
	return &UserRepo{t: actorTable{
		db:          db,
		tableName:   tableName,
		claimsTable: claimsTable,
		keyAttr:     fieldUserID,
		kind:        domain.ActorUser,
	}}
}

// Create persists a new user together with its email/phone claims.
// Returns domain.ErrConflict when either identifier is already taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return r.t.create(ctx, u.UserID, item, map[string]string{
		fieldEmail: u.Email,
		fieldPhone: u.Phone,
	})
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	if err := r.t.get(ctx, userID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.t.queryGSI(ctx, indexEmail, fieldEmail, email, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	if err := r.t.queryGSI(ctx, indexPhone, fieldPhone, phone, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetStatus(ctx context.Context, userID string) (*domain.ActorStatus, error) {
	return r.t.status(ctx, userID)
}

// Update applies updates to current. Changed email/phone values move their
// uniqueness claims in the same transaction.
func (r *UserRepo) Update(ctx context.Context, current *domain.User, updates map[string]interface{}) error {
	var swaps []claimSwap
	if v, ok := updates[fieldEmail].(string); ok && v != current.Email {
		swaps = append(swaps, claimSwap{field: fieldEmail, oldValue: current.Email, newValue: v})
	}
	if v, ok := updates[fieldPhone].(string); ok && v != current.Phone {
		swaps = append(swaps, claimSwap{field: fieldPhone, oldValue: current.Phone, newValue: v})
	}
	return r.t.update(ctx, current.UserID, updates, swaps)
}

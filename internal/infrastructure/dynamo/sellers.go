package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/otp-auth-api/internal/domain"
)

// SellerRepo provides typed DynamoDB operations for the sellers table.
type SellerRepo struct {
	t actorTable
}

func NewSellerRepo(db DB, tableName, claimsTable string) *SellerRepo {
	return &SellerRepo{t: actorTable{
		db:          db,
		tableName:   tableName,
		claimsTable: claimsTable,
		keyAttr:     fieldSellerID,
		kind:        domain.ActorSeller,
	}}
}

func (r *SellerRepo) Create(ctx context.Context, s *domain.Seller) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal seller: %w", err)
	}
	return r.t.create(ctx, s.SellerID, item, map[string]string{
		fieldEmail: s.Email,
		fieldPhone: s.Phone,
	})
}

func (r *SellerRepo) Get(ctx context.Context, sellerID string) (*domain.Seller, error) {
	var s domain.Seller
	if err := r.t.get(ctx, sellerID, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SellerRepo) GetByEmail(ctx context.Context, email string) (*domain.Seller, error) {
	var s domain.Seller
	if err := r.t.queryGSI(ctx, indexEmail, fieldEmail, email, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SellerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Seller, error) {
	var s domain.Seller
	if err := r.t.queryGSI(ctx, indexPhone, fieldPhone, phone, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SellerRepo) GetStatus(ctx context.Context, sellerID string) (*domain.ActorStatus, error) {
	return r.t.status(ctx, sellerID)
}

// Update applies a partial SET to an existing seller. Identifier changes are not
// supported here; only flags and profile fields are expected in updates.
func (r *SellerRepo) Update(ctx context.Context, sellerID string, updates map[string]interface{}) error {
	return r.t.update(ctx, sellerID, updates, nil)
}

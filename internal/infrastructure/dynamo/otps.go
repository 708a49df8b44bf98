package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-auth-api/internal/domain"
)

// OTPRepo stores pending OTP records for one actor kind.
// PK: identifier. TTL attribute: expires_at.
type OTPRepo struct {
	db        DB
	tableName string
}

func NewOTPRepo(db DB, tableName string) *OTPRepo {
	return &OTPRepo{db: db, tableName: tableName}
}

// Upsert replaces any record for rec.Identifier.
func (r *OTPRepo) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp: %w", err)
	}
	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *OTPRepo) Get(ctx context.Context, identifier string) (*domain.OTPRecord, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldIdentifier, identifier),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	var rec domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteIfMatch deletes the record only if it still holds rec's digest and expiry.
// It reports false when the record was already consumed or replaced.
func (r *OTPRepo) DeleteIfMatch(ctx context.Context, rec *domain.OTPRecord) (bool, error) {
	_, err := r.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldIdentifier, rec.Identifier),
		ConditionExpression: aws.String("#h = :h AND #e = :e"),
		ExpressionAttributeNames: map[string]string{
			"#h": fieldOTPHash,
			"#e": fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h": strVal(rec.OTPHash),
			":e": &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.ExpiresAt, 10)},
		},
	})
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

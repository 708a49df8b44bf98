package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-auth-api/internal/domain"
)

// claimKey is the primary key of a uniqueness claim, e.g. "user#email#a@x.com".
// DynamoDB has no unique secondary indexes, so each unique value owns one item
// in the identifiers table and is written in the same transaction as the actor.
func claimKey(kind domain.ActorKind, field, value string) string {
	return string(kind) + "#" + field + "#" + value
}

// claimSwap moves a uniqueness claim from oldValue to newValue. Either side may be empty.
type claimSwap struct {
	field    string
	oldValue string
	newValue string
}

// actorTable implements the storage shared by users and sellers: a table keyed
// by an id attribute, sparse email/phone GSIs and claims in the identifiers table.
type actorTable struct {
	db          DB
	tableName   string
	claimsTable string
	keyAttr     string
	kind        domain.ActorKind
}

func (t *actorTable) create(ctx context.Context, actorID string, item map[string]types.AttributeValue, claims map[string]string) error {
	items := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:                aws.String(t.tableName),
			Item:                     item,
			ConditionExpression:      aws.String("attribute_not_exists(#k)"),
			ExpressionAttributeNames: map[string]string{"#k": t.keyAttr},
		},
	}}
	fields := make([]string, 0, len(claims))
	for f := range claims {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if claims[f] != "" {
			items = append(items, t.putClaim(f, claims[f], actorID))
		}
	}
	_, err := t.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return translateTxErr(err)
}

func (t *actorTable) putClaim(field, value, actorID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(t.claimsTable),
			Item: map[string]types.AttributeValue{
				fieldClaimKey:     strVal(claimKey(t.kind, field, value)),
				fieldClaimActorID: strVal(actorID),
			},
			ConditionExpression: aws.String("attribute_not_exists(" + fieldClaimKey + ")"),
		},
	}
}

func (t *actorTable) deleteClaim(field, value, actorID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Delete: &types.Delete{
			TableName:           aws.String(t.claimsTable),
			Key:                 strKey(fieldClaimKey, claimKey(t.kind, field, value)),
			ConditionExpression: aws.String(fieldClaimActorID + " = :owner"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": strVal(actorID),
			},
		},
	}
}

func (t *actorTable) get(ctx context.Context, actorID string, out interface{}) error {
	res, err := t.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.tableName),
		Key:            strKey(t.keyAttr, actorID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return err
	}
	if res.Item == nil {
		return fmt.Errorf("%s not found: %w", t.kind, domain.ErrNotFound)
	}
	return attributevalue.UnmarshalMap(res.Item, out)
}

// status loads only the flags the session gate needs.
func (t *actorTable) status(ctx context.Context, actorID string) (*domain.ActorStatus, error) {
	res, err := t.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(t.tableName),
		Key:                  strKey(t.keyAttr, actorID),
		ProjectionExpression: aws.String("#a, #d"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldIsActive,
			"#d": fieldIsDeleted,
		},
	})
	if err != nil {
		return nil, err
	}
	if res.Item == nil {
		return nil, fmt.Errorf("%s not found: %w", t.kind, domain.ErrNotFound)
	}
	var s domain.ActorStatus
	if err := attributevalue.UnmarshalMap(res.Item, &s); err != nil {
		return nil, err
	}
	s.ID = actorID
	s.Kind = t.kind
	return &s, nil
}

func (t *actorTable) queryGSI(ctx context.Context, index, attr, value string, out interface{}) error {
	res, err := t.db.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(t.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": strVal(value)},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return err
	}
	if len(res.Items) == 0 {
		return fmt.Errorf("%s not found: %w", t.kind, domain.ErrNotFound)
	}
	return attributevalue.UnmarshalMap(res.Items[0], out)
}

// update applies a partial SET to an existing actor. When swaps is non-empty the
// update and the claim moves commit in one transaction, so a collision leaves
// the actor untouched and surfaces as domain.ErrConflict.
func (t *actorTable) update(ctx context.Context, actorID string, updates map[string]interface{}, swaps []claimSwap) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	ue.Names["#k"] = t.keyAttr
	cond := aws.String("attribute_exists(#k)")

	if len(swaps) == 0 {
		_, err = t.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(t.tableName),
			Key:                       strKey(t.keyAttr, actorID),
			UpdateExpression:          aws.String(ue.Expr),
			ConditionExpression:       cond,
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		})
		if isConditionFailed(err) {
			return fmt.Errorf("%s not found: %w", t.kind, domain.ErrNotFound)
		}
		return err
	}

	items := []types.TransactWriteItem{{
		Update: &types.Update{
			TableName:                 aws.String(t.tableName),
			Key:                       strKey(t.keyAttr, actorID),
			UpdateExpression:          aws.String(ue.Expr),
			ConditionExpression:       cond,
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		},
	}}
	for _, s := range swaps {
		if s.oldValue != "" {
			items = append(items, t.deleteClaim(s.field, s.oldValue, actorID))
		}
		if s.newValue != "" {
			items = append(items, t.putClaim(s.field, s.newValue, actorID))
		}
	}
	_, err = t.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	return translateTxErr(err)
}

package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	webhookStatusProcessing = "processing"
	webhookStatusProcessed  = "processed"
	webhookStatusFailed     = "failed"

	// A processing claim older than this is considered abandoned and may be
	// taken over by a re-delivery.
	webhookClaimStaleAfter = 10 * time.Minute
	webhookEventRetention  = 30 * 24 * time.Hour
)

// dynamoAPI is the part of *dynamodb.Client the ledger uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type webhookEventItem struct {
	PK         string `dynamodbav:"pk"`
	Provider   string `dynamodbav:"provider"`
	EventID    string `dynamodbav:"event_id"`
	EventType  string `dynamodbav:"event_type"`
	Status     string `dynamodbav:"status"`
	ReceivedAt string `dynamodbav:"received_at"`
	UpdatedAt  string `dynamodbav:"updated_at"`
	ExpiresAt  int64  `dynamodbav:"expires_at"`
}

// WebhookEventDynamoRepository is the webhook idempotency ledger.
//
// Table requirements:
//   - PK: pk (string), "provider#event_id"
//   - TTL attribute: expires_at
type WebhookEventDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IWebhookEventRepository = (*WebhookEventDynamoRepository)(nil)

func NewWebhookEventDynamoRepository(ddb *dynamodb.Client, tableName string) *WebhookEventDynamoRepository {
	return newWebhookEventDynamoRepository(ddb, tableName)
}

func newWebhookEventDynamoRepository(ddb dynamoAPI, tableName string) *WebhookEventDynamoRepository {
	return &WebhookEventDynamoRepository{ddb: ddb, tableName: tableName, now: time.Now}
}

func webhookEventKey(e entities.WebhookEvent) string {
	return string(e.Provider) + "#" + e.EventID
}

// Claim writes a processing entry unless one exists that is processed or
// still fresh. Failed and stale entries are overwritten.
func (r *WebhookEventDynamoRepository) Claim(ctx context.Context, e entities.WebhookEvent) (bool, error) {
	now := r.now().UTC()
	it := webhookEventItem{
		PK:         webhookEventKey(e),
		Provider:   string(e.Provider),
		EventID:    e.EventID,
		EventType:  e.EventType,
		Status:     webhookStatusProcessing,
		ReceivedAt: now.Format(time.RFC3339Nano),
		UpdatedAt:  now.Format(time.RFC3339Nano),
		ExpiresAt:  now.Add(webhookEventRetention).Unix(),
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return false, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#pk) OR #status = :failed OR (#status = :processing AND #updated_at < :stale)"),
		ExpressionAttributeNames: map[string]string{
			"#pk":         "pk",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed":     &types.AttributeValueMemberS{Value: webhookStatusFailed},
			":processing": &types.AttributeValueMemberS{Value: webhookStatusProcessing},
			":stale":      &types.AttributeValueMemberS{Value: now.Add(-webhookClaimStaleAfter).Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *WebhookEventDynamoRepository) MarkProcessed(ctx context.Context, e entities.WebhookEvent) error {
	return r.update(ctx, e, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :now REMOVE #last_error"
		vals := map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: webhookStatusProcessed},
			":now":    &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
			"#last_error": "last_error",
		}
		return expr, vals, names
	})
}

func (r *WebhookEventDynamoRepository) MarkFailed(ctx context.Context, e entities.WebhookEvent, reason string) error {
	return r.update(ctx, e, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :now, #last_error = :reason ADD #attempts :one"
		vals := map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: webhookStatusFailed},
			":now":    &types.AttributeValueMemberS{Value: now},
			":reason": &types.AttributeValueMemberS{Value: reason},
			":one":    &types.AttributeValueMemberN{Value: strconv.Itoa(1)},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
			"#last_error": "last_error",
			"#attempts":   "attempts",
		}
		return expr, vals, names
	})
}

func (r *WebhookEventDynamoRepository) update(
	ctx context.Context,
	e entities.WebhookEvent,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) error {
	now := r.now().UTC().Format(time.RFC3339Nano)
	updateExpr, values, names := build(now)

	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: webhookEventKey(e)},
		},
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#pk": "pk"}),
	})
	return err
}

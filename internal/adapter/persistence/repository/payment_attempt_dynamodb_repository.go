package repository

import (
	"context"
	"errors"
	"time"

	"cervejaria_storefront/internal/domain/entities"
	"cervejaria_storefront/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentAttemptsTableName = "payment_attempts"
	paymentAttemptsOrderIDIndex     = "order_id-index"
)

var ErrPaymentAttemptNotFound = errors.New("payment attempt not found")

// dynamoAPI is the subset of *dynamodb.Client used by the repository.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type paymentAttemptItem struct {
	ID         string `dynamodbav:"id"`
	OrderID    string `dynamodbav:"order_id"`
	Amount     string `dynamodbav:"amount"`
	Status     string `dynamodbav:"status"`
	Reason     string `dynamodbav:"reason,omitempty"`
	CreatedAt  string `dynamodbav:"created_at"`
	FinishedAt string `dynamodbav:"finished_at,omitempty"`
}

// PaymentAttemptDynamoRepository persists PaymentAttempt records in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: order_id-index (PK: order_id)

type PaymentAttemptDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.IPaymentAttemptRepository = (*PaymentAttemptDynamoRepository)(nil)

// NewPaymentAttemptDynamoRepository uses tableName, or PAYMENT_ATTEMPTS_TABLE
// when empty.
func NewPaymentAttemptDynamoRepository(ddb dynamoAPI, tableName string) *PaymentAttemptDynamoRepository {
	if tableName == "" {
		tableName = tableNameFromEnv()
	}
	return &PaymentAttemptDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       time.Now,
	}
}

func (r *PaymentAttemptDynamoRepository) Create(ctx context.Context, a entities.PaymentAttempt) (entities.PaymentAttempt, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now().UTC()
	}
	av, err := attributevalue.MarshalMap(toPaymentAttemptItem(a))
	if err != nil {
		return entities.PaymentAttempt{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.PaymentAttempt{}, err
	}
	return a, nil
}

// MarkFinished records the terminal status of an attempt. The attempt must
// exist.
func (r *PaymentAttemptDynamoRepository) MarkFinished(ctx context.Context, id string, status entities.PaymentStatus, reason string) (entities.PaymentAttempt, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET #status = :status, #reason = :reason, finished_at = :finished_at"),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id":     "id",
			"#status": "status",
			"#reason": "reason",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":      &types.AttributeValueMemberS{Value: string(status)},
			":reason":      &types.AttributeValueMemberS{Value: reason},
			":finished_at": &types.AttributeValueMemberS{Value: r.now().UTC().Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return entities.PaymentAttempt{}, ErrPaymentAttemptNotFound
		}
		return entities.PaymentAttempt{}, err
	}

	var it paymentAttemptItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.PaymentAttempt{}, err
	}
	return fromPaymentAttemptItem(it), nil
}

func (r *PaymentAttemptDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.PaymentAttempt, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentAttemptsOrderIDIndex),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.PaymentAttempt, 0, len(out.Items))
	for _, raw := range out.Items {
		var it paymentAttemptItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromPaymentAttemptItem(it))
	}
	return items, nil
}

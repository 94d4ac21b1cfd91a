package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/abz-group/portal-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ReimbursementRepo provides typed DynamoDB operations for the
// reimbursements table.
type ReimbursementRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReimbursementRepo(client *dynamodb.Client, tableName string) *ReimbursementRepo {
	return &ReimbursementRepo{client: client, tableName: tableName}
}

func (r *ReimbursementRepo) Put(ctx context.Context, req *domain.Reimbursement) error {
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal reimbursement: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReimbursementRepo) Get(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reimbursement_id", reimbursementID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reimbursement not found: %w", domain.ErrNotFound)
	}
	var req domain.Reimbursement
	if err := attributevalue.UnmarshalMap(out.Item, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByUser returns a user's requests, newest first via the
// user_id-created_at GSI.
func (r *ReimbursementRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reimbursement, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var items []domain.Reimbursement
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByStatus returns all requests in a given workflow state via the
// status-created_at GSI. Managers use it to review the pending queue.
func (r *ReimbursementRepo) ListByStatus(ctx context.Context, status string) ([]domain.Reimbursement, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("status-created_at-index"),
		KeyConditionExpression: aws.String("#s = :st"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":st": &types.AttributeValueMemberS{Value: status},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var items []domain.Reimbursement
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ReimbursementRepo) Update(ctx context.Context, reimbursementID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("reimbursement_id", reimbursementID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

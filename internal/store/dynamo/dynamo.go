// Package dynamo implements store.Store on AWS DynamoDB using a
// single-table design: every entity lives in one table addressed by PK/SK,
// with GSI1 serving the accounts-by-owner access pattern and ReferenceIndex
// serving expense lookup by statement reference.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"expense-tracker/internal/store"
)

const (
	conditionNotExists = "attribute_not_exists(PK)"
	conditionExists    = "attribute_exists(PK)"
)

// Store is the DynamoDB-backed implementation of store.Store.
type Store struct {
	client *dynamodb.Client
	table  string
	log    zerolog.Logger
}

// New wraps a DynamoDB client and table name as a store.Store.
func New(client *dynamodb.Client, table string, log zerolog.Logger) *Store {
	return &Store{client: client, table: table, log: log}
}

// NewClient builds a DynamoDB client from the default AWS configuration
// chain (environment, shared config, instance role). Timeout and retry
// policy come from the SDK configuration, not from this package.
func NewClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewClient: loading AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, item store.Item, cond store.Condition) error {
	key, ok := store.ItemKey(item)
	if !ok {
		return fmt.Errorf("Put: item is missing PK/SK attributes")
	}

	av, err := attributevalue.MarshalMap(map[string]interface{}(item))
	if err != nil {
		return fmt.Errorf("Put %s: marshaling item: %w", key.PK, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	}
	switch cond {
	case store.ConditionNotExists:
		input.ConditionExpression = aws.String(conditionNotExists)
	case store.ConditionExists:
		input.ConditionExpression = aws.String(conditionExists)
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("Put %s: %w", key.PK, store.ErrConflict)
		}
		return fmt.Errorf("Put %s: %w", key.PK, err)
	}
	return nil
}

// Get implements store.Store. It returns nil when the key holds no item.
func (s *Store) Get(ctx context.Context, key store.Key) (store.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       marshalKey(key),
	})
	if err != nil {
		return nil, fmt.Errorf("Get %s: %w", key.PK, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return unmarshalItem(out.Item)
}

// Scan implements store.Store, following LastEvaluatedKey until the full
// result set has been read.
func (s *Store) Scan(ctx context.Context, pred store.Predicate) ([]store.Item, error) {
	expr, names, values, err := buildExpression(pred)
	if err != nil {
		return nil, fmt.Errorf("Scan: %w", err)
	}

	var items []store.Item
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.table),
			FilterExpression:          aws.String(expr),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		for _, raw := range out.Items {
			item, err := unmarshalItem(raw)
			if err != nil {
				return nil, fmt.Errorf("Scan: %w", err)
			}
			items = append(items, item)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

// Query implements store.Store against the named secondary index.
func (s *Store) Query(ctx context.Context, indexName string, pred store.Predicate) ([]store.Item, error) {
	expr, names, values, err := buildExpression(pred)
	if err != nil {
		return nil, fmt.Errorf("Query %s: %w", indexName, err)
	}

	var items []store.Item
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.table),
			IndexName:                 aws.String(indexName),
			KeyConditionExpression:    aws.String(expr),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("Query %s: %w", indexName, err)
		}
		for _, raw := range out.Items {
			item, err := unmarshalItem(raw)
			if err != nil {
				return nil, fmt.Errorf("Query %s: %w", indexName, err)
			}
			items = append(items, item)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

// Update implements store.Store, returning the post-update item image.
func (s *Store) Update(ctx context.Context, key store.Key, assigns []store.Assignment, cond store.Condition) (store.Item, error) {
	expr, names, values, err := buildUpdateExpression(assigns)
	if err != nil {
		return nil, fmt.Errorf("Update %s: %w", key.PK, err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       marshalKey(key),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}
	switch cond {
	case store.ConditionNotExists:
		input.ConditionExpression = aws.String(conditionNotExists)
	case store.ConditionExists:
		input.ConditionExpression = aws.String(conditionExists)
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, fmt.Errorf("Update %s: %w", key.PK, store.ErrConflict)
		}
		return nil, fmt.Errorf("Update %s: %w", key.PK, err)
	}
	return unmarshalItem(out.Attributes)
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, key store.Key, cond store.Condition) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       marshalKey(key),
	}
	switch cond {
	case store.ConditionNotExists:
		input.ConditionExpression = aws.String(conditionNotExists)
	case store.ConditionExists:
		input.ConditionExpression = aws.String(conditionExists)
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("Delete %s: %w", key.PK, store.ErrConflict)
		}
		return fmt.Errorf("Delete %s: %w", key.PK, err)
	}
	return nil
}

func marshalKey(key store.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key.PK},
		"SK": &types.AttributeValueMemberS{Value: key.SK},
	}
}

func unmarshalItem(raw map[string]types.AttributeValue) (store.Item, error) {
	var item map[string]interface{}
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling item: %w", err)
	}
	return store.Item(item), nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

var _ store.Store = (*Store)(nil)

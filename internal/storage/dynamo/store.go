// Package dynamo implements the record store on a single DynamoDB table with
// a (collection, record_key) composite key. Conditional expressions stand in
// for the filesystem's exclusive-create: attribute_not_exists on Create,
// attribute_exists on Update and Delete.
package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-api-filestore/internal/domain"
)

// item is the table row: the record itself travels as an opaque JSON document
// so the table schema stays identical for every collection.
type item struct {
	Collection string `dynamodbav:"collection"`
	RecordKey  string `dynamodbav:"record_key"`
	Document   string `dynamodbav:"document"`
}

// Store persists records in DynamoDB.
type Store struct {
	client *dynamodb.Client
	table  string
}

func NewStore(client *dynamodb.Client, table string) *Store {
	return &Store{client: client, table: table}
}

func (s *Store) Create(ctx context.Context, collection, key string, record interface{}) error {
	av, err := marshalItem(collection, key, record)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(record_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("record %s/%s already exists: %w", collection, key, domain.ErrConflict)
		}
		return fmt.Errorf("create record %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, collection, key string, out interface{}) error {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            compositeKey(collection, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("read record %s/%s: %w", collection, key, err)
	}
	if res.Item == nil {
		return fmt.Errorf("record %s/%s: %w", collection, key, domain.ErrNotFound)
	}
	var it item
	if err := attributevalue.UnmarshalMap(res.Item, &it); err != nil {
		return fmt.Errorf("unmarshal record %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal([]byte(it.Document), out); err != nil {
		return fmt.Errorf("decode record %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, key string, record interface{}) error {
	av, err := marshalItem(collection, key, record)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(record_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("record %s/%s: %w", collection, key, domain.ErrNotFound)
		}
		return fmt.Errorf("update record %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 compositeKey(collection, key),
		ConditionExpression: aws.String("attribute_exists(record_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("record %s/%s: %w", collection, key, domain.ErrNotFound)
		}
		return fmt.Errorf("delete record %s/%s: %w", collection, key, err)
	}
	return nil
}

func marshalItem(collection, key string, record interface{}) (map[string]types.AttributeValue, error) {
	doc, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record %s/%s: %w", collection, key, err)
	}
	av, err := attributevalue.MarshalMap(item{
		Collection: collection,
		RecordKey:  key,
		Document:   string(doc),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal record %s/%s: %w", collection, key, err)
	}
	return av, nil
}

// compositeKey builds the table's (collection, record_key) primary key.
func compositeKey(collection, key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"collection": &types.AttributeValueMemberS{Value: collection},
		"record_key": &types.AttributeValueMemberS{Value: key},
	}
}

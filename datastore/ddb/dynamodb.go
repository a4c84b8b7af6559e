/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/variantstore/datastore"
	storeerrors "github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
	"go.uber.org/zap"
)

// EntityTypeAttribute is injected into every item on Put.
const EntityTypeAttribute = "EntityType"

// DynamodbDataStore implements datastore.DataStore[T] by using AWS DynamoDB as the underlying data store.
type DynamodbDataStore[T any] struct {
	client    *sdk.Client
	tableName string
	logger    *zap.Logger
}

var _ datastore.DataStore[storagemodels.LoadoutRecord] = (*DynamodbDataStore[storagemodels.LoadoutRecord])(nil)

// Option configures a DynamodbDataStore.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	endpoint string
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEndpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS credentials.
// Empty credentials fall back to the default AWS credential chain.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string, opts ...Option) (*sdk.Client, error) {
	o := buildOptions(opts)

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(awsRegion)}
	if awsAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(so *sdk.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
		}
	})

	o.logger.Info("dynamodb client initialized",
		zap.String("region", awsRegion),
		zap.String("endpoint", o.endpoint),
	)
	return client, nil
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for type T.
func NewDynamodbDataStore[T any](ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, tableName string, opts ...Option) (*DynamodbDataStore[T], error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewWithClient[T](client, tableName, opts...), nil
}

// NewWithClient wraps an existing client.
func NewWithClient[T any](client *sdk.Client, tableName string, opts ...Option) *DynamodbDataStore[T] {
	o := buildOptions(opts)
	return &DynamodbDataStore[T]{
		client:    client,
		tableName: tableName,
		logger:    o.logger.With(zap.String("table", tableName), zap.String("entity", entityTypeName[T]())),
	}
}

// TableName returns the table the store reads and writes.
func (d *DynamodbDataStore[T]) TableName() string {
	return d.tableName
}

// GetOne retrieves a single item. keyInput supplies the fields of the PK and SK templates.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, keyInput any) (*T, error) {
	key, err := d.key(keyInput)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, storeerrors.NewNotFoundError(entityTypeName[T](), keyString(key))
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores entity, adding the expanded key attributes (PK, SK and any GSI keys)
// and the EntityType attribute.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	return d.put(ctx, entity, storagemodels.Condition{})
}

// PutWithCondition stores entity like Put, but only if cond holds against the
// item currently stored under the same key. Use "attribute_not_exists(PK)" to
// create without overwriting. A failed condition is reported as a ConditionFailedError.
func (d *DynamodbDataStore[T]) PutWithCondition(ctx context.Context, entity T, cond storagemodels.Condition) error {
	return d.put(ctx, entity, cond)
}

func (d *DynamodbDataStore[T]) put(ctx context.Context, entity T, cond storagemodels.Condition) error {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return storeerrors.ErrNoIndexMap
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	expanded, err := datastore.ExpandKeys(indexMap, entity)
	if err != nil {
		return err
	}
	if expanded["PK"] == "" || expanded["SK"] == "" {
		return storeerrors.NewValidationError("key", "entity does not fill the PK and SK templates")
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av[EntityTypeAttribute] = &types.AttributeValueMemberS{Value: entityTypeName[T]()}

	input := &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	}
	if cond.Expression != "" {
		input.ConditionExpression = aws.String(cond.Expression)
		if len(cond.Values) > 0 {
			input.ExpressionAttributeValues = make(map[string]types.AttributeValue, len(cond.Values))
			for placeholder, v := range cond.Values {
				cv, err := attributevalue.Marshal(v)
				if err != nil {
					return fmt.Errorf("failed to marshal condition value %s: %w", placeholder, err)
				}
				input.ExpressionAttributeValues[placeholder] = cv
			}
		}
	}

	_, err = d.client.PutItem(ctx, input)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return storeerrors.NewConditionFailedError("put", cond.Expression)
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	d.logger.Debug("put item", zap.String("pk", expanded["PK"]), zap.String("sk", expanded["SK"]))
	return nil
}

// Delete removes an item.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, keyInput any) error {
	key, err := d.key(keyInput)
	if err != nil {
		return err
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       key,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("delete condition failed: %w", storeerrors.NewConditionFailedError("delete", cfe.ErrorMessage()))
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// UpdateWithCondition sets the given attributes if cond holds.
// A failed condition is reported as a ConditionFailedError.
func (d *DynamodbDataStore[T]) UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]interface{}, cond storagemodels.Condition) error {
	key, err := d.key(keyInput)
	if err != nil {
		return err
	}

	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(updates)
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &sdk.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       key,
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ReturnValues:              types.ReturnValueNone,
	}
	if cond.Expression != "" {
		for placeholder, v := range cond.Values {
			if _, taken := exprAttrValues[placeholder]; taken {
				return storeerrors.NewValidationError("condition", fmt.Sprintf("placeholder %s collides with update values", placeholder))
			}
			av, err := attributevalue.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to marshal condition value %s: %w", placeholder, err)
			}
			exprAttrValues[placeholder] = av
		}
		input.ConditionExpression = aws.String(cond.Expression)
	}

	_, err = d.client.UpdateItem(ctx, input)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return storeerrors.NewConditionFailedError("update", cond.Expression)
		}
		return fmt.Errorf("UpdateWithCondition failed: %w", err)
	}
	return nil
}

func (d *DynamodbDataStore[T]) key(keyInput any) (map[string]types.AttributeValue, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return nil, storeerrors.ErrNoIndexMap
	}
	pk, sk, err := datastore.PrimaryKey(indexMap, keyInput)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// buildUpdateExpression transforms a map of field->value into:
//   - an "update expression" (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Fields are processed in sorted order so the expression is stable.
func buildUpdateExpression(updates map[string]interface{}) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.New("no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(updates))
	exprAttrNames := make(map[string]string, len(updates))
	exprAttrValues := make(map[string]types.AttributeValue, len(updates))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("unhandled update value for field '%s': %w", field, err)
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field
		exprAttrValues[placeholderValue] = av
	}

	return "SET " + strings.Join(setClauses, ", "), exprAttrNames, exprAttrValues, nil
}

func entityTypeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().Name()
}

func keyString(key map[string]types.AttributeValue) string {
	pk, _ := key["PK"].(*types.AttributeValueMemberS)
	sk, _ := key["SK"].(*types.AttributeValueMemberS)
	if pk == nil || sk == nil {
		return ""
	}
	return pk.Value + "|" + sk.Value
}

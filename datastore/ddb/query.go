/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/suparena/variantstore/storagemodels"
	"go.uber.org/zap"
)

// Query performs a query against the table using the provided parameters and
// follows LastEvaluatedKey until every page is read, or until Limit items have
// been collected when Limit is set.
//
// Items whose EntityType attribute names another type are skipped, since a
// single table holds several entity types under shared partitions.
func (d *DynamodbDataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	if params == nil {
		return nil, fmt.Errorf("query params are required")
	}
	tableName := params.TableName
	if tableName == "" {
		tableName = d.tableName
	}

	input := &sdk.QueryInput{
		TableName:                 &tableName,
		KeyConditionExpression:    &params.KeyConditionExpression,
		ExpressionAttributeValues: params.ExpressionAttributeValues,
		FilterExpression:          params.FilterExpression,
		IndexName:                 params.IndexName,
		Limit:                     params.Limit,
		ScanIndexForward:          params.ScanIndexForward,
		ExclusiveStartKey:         params.ExclusiveStartKey,
	}

	want := entityTypeName[T]()
	var results []T
	pages := 0
	for {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		pages++

		for _, item := range out.Items {
			var entityType string
			if attr, ok := item[EntityTypeAttribute]; ok {
				if err := attributevalue.Unmarshal(attr, &entityType); err != nil {
					return nil, fmt.Errorf("failed to unmarshal EntityType: %w", err)
				}
			}
			if entityType != "" && entityType != want {
				continue
			}

			var obj T
			if err := attributevalue.UnmarshalMap(item, &obj); err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s item: %w", want, err)
			}
			results = append(results, obj)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		if params.Limit != nil && len(results) >= int(*params.Limit) {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	results = truncate(results, params.Limit)

	d.logger.Debug("query completed",
		zap.String("index", stringValue(params.IndexName)),
		zap.Int("pages", pages),
		zap.Int("items", len(results)),
	)
	return results, nil
}

// truncate caps results at limit. Pages are read whole, so the last page can
// overshoot.
func truncate[T any](results []T, limit *int32) []T {
	if limit != nil && *limit >= 0 && len(results) > int(*limit) {
		return results[:*limit]
	}
	return results
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

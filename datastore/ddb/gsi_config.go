/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/suparena/variantstore/storagemodels"
)

// GSIConfig holds the configuration for GSI key mappings
type GSIConfig struct {
	// IndexName is the actual GSI name in DynamoDB (e.g., "GSI1")
	IndexName string
	// PartitionKeyName is the partition key attribute of the GSI (e.g., "GSI1PK")
	PartitionKeyName string
	// SortKeyName is the sort key attribute of the GSI (e.g., "GSI1SK")
	SortKeyName string
}

// DefaultGSIConfigs holds the default GSI configurations.
// The attribute names match the index map keys registered for each entity.
var DefaultGSIConfigs = map[string]GSIConfig{
	"GSI1": {
		IndexName:        "GSI1",
		PartitionKeyName: "GSI1PK",
		SortKeyName:      "GSI1SK",
	},
}

// GetGSIConfig returns the GSI configuration for a given index name
func GetGSIConfig(indexName string) (GSIConfig, bool) {
	config, ok := DefaultGSIConfigs[indexName]
	return config, ok
}

// IndexQuery builds query parameters for a secondary index. An empty
// skPrefix selects the whole index partition.
func IndexQuery(indexName, pk, skPrefix string) (*storagemodels.QueryParams, error) {
	cfg, ok := GetGSIConfig(indexName)
	if !ok {
		return nil, fmt.Errorf("unknown index %q", indexName)
	}
	params := &storagemodels.QueryParams{
		IndexName:              aws.String(cfg.IndexName),
		KeyConditionExpression: cfg.PartitionKeyName + " = :pk",
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	}
	if skPrefix != "" {
		params.KeyConditionExpression += " AND begins_with(" + cfg.SortKeyName + ", :skPrefix)"
		params.ExpressionAttributeValues[":skPrefix"] = &types.AttributeValueMemberS{Value: skPrefix}
	}
	return params, nil
}

// QueryIndex queries a secondary index by partition key and optional sort key prefix.
func (d *DynamodbDataStore[T]) QueryIndex(ctx context.Context, indexName, pk, skPrefix string) ([]T, error) {
	params, err := IndexQuery(indexName, pk, skPrefix)
	if err != nil {
		return nil, err
	}
	return d.Query(ctx, params)
}

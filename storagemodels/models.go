/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
)

// LoadoutRecord is the persisted form of one host loadout.
// Key patterns are registered for it in the registry package by the root package.
type LoadoutRecord struct {
	// HostID identifies the owning host.
	HostID string `dynamodbav:"HostID" mapstructure:"HostID"`
	// HostKind is the kind of host (character, camera, item).
	HostKind string `dynamodbav:"HostKind" mapstructure:"HostKind"`
	// Kind is the variant kind stored in Blob.
	Kind string `dynamodbav:"Kind" mapstructure:"Kind"`
	// Blob is the binary-encoded loadout.
	Blob []byte `dynamodbav:"Blob" mapstructure:"Blob"`
	// Version is incremented on every save and checked on update.
	Version int64 `dynamodbav:"Version" mapstructure:"Version"`
	// UpdatedAt is an RFC 3339 timestamp (strfmt.DateTime text form).
	UpdatedAt string `dynamodbav:"UpdatedAt" mapstructure:"UpdatedAt"`
}

// LoadoutKey is the key input for a single LoadoutRecord.
type LoadoutKey struct {
	HostID string `dynamodbav:"HostID"`
	Kind   string `dynamodbav:"Kind"`
}

// Key returns the key input for the record.
func (r LoadoutRecord) Key() LoadoutKey {
	return LoadoutKey{HostID: r.HostID, Kind: r.Kind}
}

// Touch sets UpdatedAt to t.
func (r *LoadoutRecord) Touch(t time.Time) {
	r.UpdatedAt = strfmt.DateTime(t.UTC()).String()
}

// UpdatedTime parses UpdatedAt. A zero time is returned for an empty value.
func (r LoadoutRecord) UpdatedTime() (time.Time, error) {
	if r.UpdatedAt == "" {
		return time.Time{}, nil
	}
	dt, err := strfmt.ParseDateTime(r.UpdatedAt)
	if err != nil {
		return time.Time{}, err
	}
	return time.Time(dt), nil
}

// Condition is a condition expression together with the placeholder values it references.
type Condition struct {
	// Expression is a DynamoDB condition expression, e.g. "Version = :expectedVersion".
	Expression string
	// Values maps placeholders in Expression to plain Go values.
	Values map[string]interface{}
}

// QueryParams defines parameters for a DynamoDB Query operation.
type QueryParams struct {
	// TableName is the DynamoDB table name. Empty means the datastore's own table.
	TableName string
	// KeyConditionExpression is the primary condition for the query.
	KeyConditionExpression string
	// FilterExpression is an optional filter expression.
	FilterExpression *string
	// ExpressionAttributeValues contains the values for expression placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// IndexName is optional if you wish to query a secondary index.
	IndexName *string
	// Limit defines an optional limit per query page.
	Limit *int32
	// ExclusiveStartKey for pagination
	ExclusiveStartKey map[string]types.AttributeValue
	// ScanIndexForward specifies the order for index traversal.
	ScanIndexForward *bool
}

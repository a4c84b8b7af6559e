/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
)

type slotRecord struct {
	Owner  string `dynamodbav:"Owner"`
	Slot   int    `dynamodbav:"Slot"`
	Active bool   `dynamodbav:"Active"`
}

type unmappedRecord struct{ ID string }

var slotIndexMap = map[string]string{
	"PK":     "OWNER#{Owner}",
	"SK":     "SLOT#{Slot}",
	"GSI1PK": "ACTIVE#{Active}",
	"GSI1SK": "STATIC",
}

func TestExpandKeys(t *testing.T) {
	keys, err := ExpandKeys(slotIndexMap, slotRecord{Owner: "o1", Slot: 3, Active: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"PK":     "OWNER#o1",
		"SK":     "SLOT#3",
		"GSI1PK": "ACTIVE#true",
		"GSI1SK": "STATIC",
	}, keys)

	keys, err = ExpandKeys(slotIndexMap, struct {
		Slot int `dynamodbav:"Slot"`
	}{Slot: 1})
	require.NoError(t, err)
	_, hasPK := keys["PK"]
	assert.False(t, hasPK, "templates with unfilled macros are omitted")
	assert.Equal(t, "SLOT#1", keys["SK"])
}

func TestPrimaryKey(t *testing.T) {
	pk, sk, err := PrimaryKey(slotIndexMap, slotRecord{Owner: "o1", Slot: 2})
	require.NoError(t, err)
	assert.Equal(t, "OWNER#o1", pk)
	assert.Equal(t, "SLOT#2", sk)

	_, _, err = PrimaryKey(slotIndexMap, slotRecord{Slot: 2})
	assert.True(t, errors.IsValidationError(err))
}

func TestPartitionQuery(t *testing.T) {
	registry.RegisterIndexMap[slotRecord](slotIndexMap)

	params, err := PartitionQuery[slotRecord](slotRecord{Owner: "o9"})
	require.NoError(t, err)
	assert.Equal(t, "PK = :pk", params.KeyConditionExpression)
	assert.Equal(t, "OWNER#o9", params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS).Value)

	_, err = PartitionQuery[slotRecord](slotRecord{})
	assert.True(t, errors.IsValidationError(err))

	_, err = PartitionQuery[unmappedRecord](unmappedRecord{ID: "x"})
	assert.ErrorIs(t, err, errors.ErrNoIndexMap)
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/variantstore/datastore"
	storeerrors "github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
	"go.uber.org/zap/zaptest"
)

func init() {
	registry.RegisterIndexMap[storagemodels.LoadoutRecord](map[string]string{
		"PK":     "HOST#{HostID}",
		"SK":     "LOADOUT#{Kind}",
		"GSI1PK": "HOSTKIND#{HostKind}",
		"GSI1SK": "HOST#{HostID}",
	})
}

func TestBuildUpdateExpression(t *testing.T) {
	expr, names, values, err := buildUpdateExpression(map[string]interface{}{
		"Version":   int64(3),
		"Blob":      []byte{1, 2},
		"UpdatedAt": "2025-01-01T00:00:00.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", expr)
	assert.Equal(t, map[string]string{"#f0": "Blob", "#f1": "UpdatedAt", "#f2": "Version"}, names)
	assert.IsType(t, &types.AttributeValueMemberB{}, values[":v0"])
	assert.Equal(t, "3", values[":v2"].(*types.AttributeValueMemberN).Value)

	_, _, _, err = buildUpdateExpression(nil)
	assert.Error(t, err)
}

func TestIndexQuery(t *testing.T) {
	params, err := IndexQuery("GSI1", "HOSTKIND#character", "HOST#")
	require.NoError(t, err)
	assert.Equal(t, "GSI1", *params.IndexName)
	assert.Equal(t, "GSI1PK = :pk AND begins_with(GSI1SK, :skPrefix)", params.KeyConditionExpression)
	assert.Equal(t, "HOST#", params.ExpressionAttributeValues[":skPrefix"].(*types.AttributeValueMemberS).Value)

	params, err = IndexQuery("GSI1", "HOSTKIND#camera", "")
	require.NoError(t, err)
	assert.Equal(t, "GSI1PK = :pk", params.KeyConditionExpression)

	_, err = IndexQuery("GSI9", "x", "")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	two, ten := int32(2), int32(10)

	assert.Equal(t, []int{1, 2}, truncate(items, &two))
	assert.Equal(t, items, truncate(items, &ten))
	assert.Equal(t, items, truncate(items, nil))
}

func TestEntityTypeName(t *testing.T) {
	assert.Equal(t, "LoadoutRecord", entityTypeName[storagemodels.LoadoutRecord]())
}

func TestKeyString(t *testing.T) {
	key := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "HOST#h1"},
		"SK": &types.AttributeValueMemberS{Value: "LOADOUT#ability"},
	}
	assert.Equal(t, "HOST#h1|LOADOUT#ability", keyString(key))
	assert.Empty(t, keyString(nil))
}

// The tests below talk to a real table and are skipped unless AWS_DDB_TABLE
// is set, either in the environment or in a .env file.
func getLoadoutStore(t *testing.T) *DynamodbDataStore[storagemodels.LoadoutRecord] {
	t.Helper()
	_ = godotenv.Load()

	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set")
	}

	store, err := NewDynamodbDataStore[storagemodels.LoadoutRecord](
		context.Background(),
		os.Getenv("AWS_ACCESS_KEY"),
		os.Getenv("AWS_SECRET_KEY"),
		os.Getenv("AWS_REGION"),
		table,
		WithEndpoint(os.Getenv("AWS_DDB_ENDPOINT")),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	return store
}

func TestDynamoDBLoadoutLifecycle(t *testing.T) {
	store := getLoadoutStore(t)
	ctx := context.Background()

	rec := storagemodels.LoadoutRecord{
		HostID:   "integration-host",
		HostKind: "character",
		Kind:     string(registry.KindAbility),
		Blob:     []byte("VLD1\x00\x00"),
		Version:  1,
	}
	rec.Touch(time.Now())
	require.NoError(t, store.Put(ctx, rec))
	t.Cleanup(func() { _ = store.Delete(ctx, rec.Key()) })

	err := store.PutWithCondition(ctx, rec, storagemodels.Condition{Expression: "attribute_not_exists(PK)"})
	assert.True(t, storeerrors.IsConditionFailed(err), "create must not overwrite")

	got, err := store.GetOne(ctx, rec.Key())
	require.NoError(t, err)
	assert.Equal(t, rec.Blob, got.Blob)

	err = store.UpdateWithCondition(ctx, rec.Key(),
		map[string]interface{}{"Version": int64(2)},
		storagemodels.Condition{Expression: "Version = :expectedVersion", Values: map[string]interface{}{":expectedVersion": int64(1)}},
	)
	require.NoError(t, err)

	err = store.UpdateWithCondition(ctx, rec.Key(),
		map[string]interface{}{"Version": int64(3)},
		storagemodels.Condition{Expression: "Version = :expectedVersion", Values: map[string]interface{}{":expectedVersion": int64(1)}},
	)
	assert.True(t, storeerrors.IsConditionFailed(err))

	params, err := datastore.PartitionQuery[storagemodels.LoadoutRecord](storagemodels.LoadoutRecord{HostID: rec.HostID})
	require.NoError(t, err)
	records, err := store.Query(ctx, params)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	byKind, err := store.QueryIndex(ctx, "GSI1", "HOSTKIND#character", "HOST#integration-host")
	require.NoError(t, err)
	assert.NotEmpty(t, byKind)

	require.NoError(t, store.Delete(ctx, rec.Key()))
	_, err = store.GetOne(ctx, rec.Key())
	assert.True(t, storeerrors.IsNotFound(err))
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/variantstore/storagemodels"
)

// DataStore persists records of type T. Key inputs are values (usually
// structs) whose fields fill the key templates registered for T.
type DataStore[T any] interface {
	GetOne(ctx context.Context, keyInput any) (*T, error)

	Put(ctx context.Context, entity T) error

	// PutWithCondition stores entity only if cond holds against the item
	// currently stored under its key, e.g. "attribute_not_exists(PK)".
	PutWithCondition(ctx context.Context, entity T, cond storagemodels.Condition) error

	UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]interface{}, cond storagemodels.Condition) error

	Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)

	Delete(ctx context.Context, keyInput any) error
}

/*
Package datastore defines the persistence interface used to store loadout records.

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, keyInput any) (*T, error)
	    Put(ctx context.Context, entity T) error
	    PutWithCondition(ctx context.Context, entity T, cond storagemodels.Condition) error
	    UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]interface{}, cond storagemodels.Condition) error
	    Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	    Delete(ctx context.Context, keyInput any) error
	}

Keys are expanded from the index map registered for T (see ExpandKeys).

Implementations:
  - ddb: DynamoDB implementation with support for single-table design
  - mock: In-memory implementation for testing
*/
package datastore

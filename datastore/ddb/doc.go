/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The DynamodbDataStore supports:
  - Single-table design with macro-based key expansion (e.g., "HOST#{HostID}")
  - Global Secondary Index (GSI) queries
  - Conditional updates for optimistic locking
  - Automatic EntityType injection so several record types can share a partition

Macro Expansion:
Keys are built from the index map registered for the entity type:

	registry.RegisterIndexMap[storagemodels.LoadoutRecord](map[string]string{
	    "PK":     "HOST#{HostID}",
	    "SK":     "LOADOUT#{Kind}",
	    "GSI1PK": "HOSTKIND#{HostKind}",
	    "GSI1SK": "HOST#{HostID}",
	})

GetOne, Delete and UpdateWithCondition take any value carrying the fields
the PK and SK templates reference, e.g. storagemodels.LoadoutKey.

A missing item is reported as errors.NotFoundError and a failed condition as
errors.ConditionFailedError.
*/
package ddb

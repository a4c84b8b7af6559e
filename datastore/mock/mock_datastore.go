/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides mock implementations of the DataStore interface for testing
package mock

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/suparena/variantstore/datastore"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
)

// DataStore is a mock implementation of datastore.DataStore[T] for testing.
//
// Entities are keyed "PK|SK" using the index map registered for T. Without an
// index map a custom key function (or the entity's printed form) is used.
type DataStore[T any] struct {
	mu          sync.RWMutex
	data        map[string]T
	queryFunc   func(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	getKeyFunc  func(entity T) string
	getError    error
	putError    error
	deleteError error
	updateError error
}

var _ datastore.DataStore[storagemodels.LoadoutRecord] = (*DataStore[storagemodels.LoadoutRecord])(nil)

// New creates a new mock DataStore
func New[T any]() *DataStore[T] {
	return &DataStore[T]{
		data: make(map[string]T),
	}
}

// WithGetKeyFunc sets a custom function to extract keys from entities
func (m *DataStore[T]) WithGetKeyFunc(f func(T) string) *DataStore[T] {
	m.getKeyFunc = f
	return m
}

// WithQueryFunc sets a custom query function for testing
func (m *DataStore[T]) WithQueryFunc(f func(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)) *DataStore[T] {
	m.queryFunc = f
	return m
}

// WithGetError makes GetOne operations return an error
func (m *DataStore[T]) WithGetError(err error) *DataStore[T] {
	m.getError = err
	return m
}

// WithPutError makes Put operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// WithUpdateError makes UpdateWithCondition operations return an error
func (m *DataStore[T]) WithUpdateError(err error) *DataStore[T] {
	m.updateError = err
	return m
}

// GetOne retrieves an entity by key input
func (m *DataStore[T]) GetOne(ctx context.Context, keyInput any) (*T, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	key, err := m.keyFor(keyInput)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if entity, exists := m.data[key]; exists {
		return &entity, nil
	}
	return nil, errors.NewNotFoundError(typeName[T](), key)
}

// Put stores an entity
func (m *DataStore[T]) Put(ctx context.Context, entity T) error {
	if m.putError != nil {
		return m.putError
	}

	key := m.extractKey(entity)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from entity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entity
	return nil
}

// PutWithCondition stores an entity if cond holds against the entity
// currently stored under the same key. A missing entity has no attributes.
func (m *DataStore[T]) PutWithCondition(ctx context.Context, entity T, cond storagemodels.Condition) error {
	if m.putError != nil {
		return m.putError
	}

	key := m.extractKey(entity)
	if key == "" {
		return errors.NewValidationError("key", "unable to extract key from entity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := map[string]interface{}{}
	if current, exists := m.data[key]; exists {
		var err error
		if attrs, err = attributes(current); err != nil {
			return err
		}
	}
	ok, err := evaluate(cond, attrs)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewConditionFailedError("put", cond.Expression)
	}
	m.data[key] = entity
	return nil
}

// UpdateWithCondition applies updates to a stored entity if cond holds.
//
// Only conjunctions of "Attr = :placeholder", attribute_exists(Attr) and
// attribute_not_exists(Attr) are understood; anything else is rejected as
// invalid input.
func (m *DataStore[T]) UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]interface{}, cond storagemodels.Condition) error {
	if m.updateError != nil {
		return m.updateError
	}
	key, err := m.keyFor(keyInput)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.data[key]
	if !exists {
		if cond.Expression != "" {
			return errors.NewConditionFailedError("update", cond.Expression)
		}
		return errors.NewNotFoundError(typeName[T](), key)
	}

	attrs, err := attributes(current)
	if err != nil {
		return err
	}

	ok, err := evaluate(cond, attrs)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewConditionFailedError("update", cond.Expression)
	}

	for k, v := range updates {
		attrs[k] = v
	}

	var updated T
	if err := mapstructure.Decode(attrs, &updated); err != nil {
		return fmt.Errorf("mock: apply updates: %w", err)
	}
	m.data[key] = updated
	return nil
}

// Query returns the stored entities matching the ":pk" value of the key
// condition, and the ":skPrefix" value of a begins_with clause when present,
// ordered by key. Without a ":pk" value every entity is returned.
func (m *DataStore[T]) Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, params)
	}

	f := parseKeyCondition(params)
	indexMap, hasIndex := registry.GetIndexMap[T]()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]T, 0, len(keys))
	for _, k := range keys {
		v := m.data[k]
		if f.pk != "" && hasIndex {
			expanded, err := datastore.ExpandKeys(indexMap, v)
			if err != nil {
				return nil, err
			}
			if !f.matches(expanded) {
				continue
			}
		}
		results = append(results, v)
	}
	return results, nil
}

// Delete removes an entity by key input
func (m *DataStore[T]) Delete(ctx context.Context, keyInput any) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	key, err := m.keyFor(keyInput)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return errors.NewNotFoundError(typeName[T](), key)
	}
	delete(m.data, key)
	return nil
}

// Helper methods for testing

// SetData directly sets the internal data map (for testing)
func (m *DataStore[T]) SetData(data map[string]T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns a copy of the internal data map (for testing)
func (m *DataStore[T]) GetData() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]T, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]T)
}

// keyFor resolves a key input. Strings are used as-is.
func (m *DataStore[T]) keyFor(keyInput any) (string, error) {
	switch k := keyInput.(type) {
	case string:
		return k, nil
	case T:
		return m.extractKey(k), nil
	}
	if indexMap, ok := registry.GetIndexMap[T](); ok {
		pk, sk, err := datastore.PrimaryKey(indexMap, keyInput)
		if err != nil {
			return "", err
		}
		return pk + "|" + sk, nil
	}
	return "", errors.NewValidationError("keyInput", fmt.Sprintf("cannot derive a key from %T", keyInput))
}

// extractKey attempts to extract a key from an entity
func (m *DataStore[T]) extractKey(entity T) string {
	if m.getKeyFunc != nil {
		return m.getKeyFunc(entity)
	}
	if indexMap, ok := registry.GetIndexMap[T](); ok {
		pk, sk, err := datastore.PrimaryKey(indexMap, entity)
		if err != nil {
			return ""
		}
		return pk + "|" + sk
	}
	return fmt.Sprintf("key_%v", entity)
}

type keyCondition struct {
	pkAttr, pk       string
	skAttr, skPrefix string
}

func (f keyCondition) matches(keys map[string]string) bool {
	if keys[f.pkAttr] != f.pk {
		return false
	}
	if f.skAttr != "" {
		sk, ok := keys[f.skAttr]
		return ok && strings.HasPrefix(sk, f.skPrefix)
	}
	return true
}

// parseKeyCondition understands "Attr = :pk" optionally followed by
// "AND begins_with(Attr, :skPrefix)".
func parseKeyCondition(params *storagemodels.QueryParams) keyCondition {
	var f keyCondition
	if params == nil {
		return f
	}
	v, ok := params.ExpressionAttributeValues[":pk"].(*types.AttributeValueMemberS)
	if !ok {
		return f
	}
	clauses := strings.SplitN(params.KeyConditionExpression, " AND ", 2)
	f.pkAttr = strings.TrimSpace(strings.SplitN(clauses[0], "=", 2)[0])
	f.pk = v.Value

	if len(clauses) == 2 {
		clause := strings.TrimSpace(clauses[1])
		prefix, ok := params.ExpressionAttributeValues[":skPrefix"].(*types.AttributeValueMemberS)
		if ok && strings.HasPrefix(clause, "begins_with(") && strings.HasSuffix(clause, ")") {
			args := strings.SplitN(strings.TrimSuffix(strings.TrimPrefix(clause, "begins_with("), ")"), ",", 2)
			f.skAttr = strings.TrimSpace(args[0])
			f.skPrefix = prefix.Value
		}
	}
	return f
}

// attributes flattens an entity into the attribute map a condition is
// evaluated against, including its expanded key attributes.
func attributes[T any](entity T) (map[string]interface{}, error) {
	attrs := map[string]interface{}{}
	if err := mapstructure.Decode(entity, &attrs); err != nil {
		return nil, fmt.Errorf("mock: flatten entity: %w", err)
	}
	if indexMap, ok := registry.GetIndexMap[T](); ok {
		expanded, err := datastore.ExpandKeys(indexMap, entity)
		if err != nil {
			return nil, err
		}
		for k, v := range expanded {
			attrs[k] = v
		}
	}
	return attrs, nil
}

func evaluate(cond storagemodels.Condition, attrs map[string]interface{}) (bool, error) {
	if strings.TrimSpace(cond.Expression) == "" {
		return true, nil
	}
	for _, clause := range strings.Split(cond.Expression, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "attribute_exists(") && strings.HasSuffix(clause, ")"):
			name := strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_exists("), ")")
			if _, ok := attrs[name]; !ok {
				return false, nil
			}
		case strings.HasPrefix(clause, "attribute_not_exists(") && strings.HasSuffix(clause, ")"):
			name := strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_not_exists("), ")")
			if _, ok := attrs[name]; ok {
				return false, nil
			}
		case strings.Contains(clause, "="):
			parts := strings.SplitN(clause, "=", 2)
			name, placeholder := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
			want, ok := cond.Values[placeholder]
			if !ok {
				return false, errors.NewValidationError("condition", "missing value for "+placeholder)
			}
			if !sameValue(attrs[name], want) {
				return false, nil
			}
		default:
			return false, errors.NewValidationError("condition", "unsupported clause: "+clause)
		}
	}
	return true, nil
}

func sameValue(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().Name()
}

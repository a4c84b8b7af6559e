/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// Key patterns for persisted record types. Templates use {Field} macros that
// datastores expand from the record, e.g. "HOST#{HostID}".
var (
	indexMaps   = make(map[reflect.Type]map[string]string)
	indexMapsMu sync.RWMutex
)

// RegisterIndexMap associates record type T with its key templates (PK, SK, GSI keys).
// Registering T again replaces the previous templates.
func RegisterIndexMap[T any](idxMap map[string]string) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	cp := make(map[string]string, len(idxMap))
	for k, v := range idxMap {
		cp[k] = v
	}

	indexMapsMu.Lock()
	defer indexMapsMu.Unlock()
	indexMaps[t] = cp
}

// GetIndexMap returns a copy of the key templates registered for T.
func GetIndexMap[T any]() (map[string]string, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	indexMapsMu.RLock()
	defer indexMapsMu.RUnlock()
	m, ok := indexMaps[t]
	if !ok {
		return nil, false
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp, true
}

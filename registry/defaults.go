/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/suparena/variantstore/storagemodels"
)

// DefaultsFrom turns a struct prototype into a default field map, so a
// variant's defaults can be written as a typed value:
//
//	type Jump struct {
//	    Force    float64 `mapstructure:"force"`
//	    Airborne bool    `mapstructure:"airborne"`
//	}
//	defaults, _ := registry.DefaultsFrom(Jump{Force: 5})
//
// Nested fields must be scalars, slices, or maps; nested structs are not flattened.
func DefaultsFrom(prototype any) (storagemodels.Fields, error) {
	var raw map[string]any
	if err := mapstructure.Decode(prototype, &raw); err != nil {
		return nil, fmt.Errorf("decode prototype %T: %w", prototype, err)
	}
	return storagemodels.Normalize(raw)
}

// MustDefaultsFrom is DefaultsFrom for static tables; it panics on failure.
func MustDefaultsFrom(prototype any) storagemodels.Fields {
	f, err := DefaultsFrom(prototype)
	if err != nil {
		panic(err)
	}
	return f
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loadout

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
	"github.com/suparena/variantstore/storagemodels"
)

// Entry is one variant instance in a loadout. Entries are created and
// mutated only through their Registry.
type Entry struct {
	id      uuid.UUID
	typeID  string
	ordinal int
	fields  storagemodels.Fields
}

// ID identifies the entry for the lifetime of the process. IDs are not persisted.
func (e *Entry) ID() uuid.UUID { return e.id }

// TypeID returns the canonical variant type id.
func (e *Entry) TypeID() string { return e.typeID }

// Ordinal returns the entry's current position.
func (e *Entry) Ordinal() int { return e.ordinal }

// Fields returns a copy of the field values.
func (e *Entry) Fields() storagemodels.Fields { return e.fields.Clone() }

// Field returns a single field value.
func (e *Entry) Field(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Decode fills out, a pointer to a struct, from the field values.
// Numeric fields are stored as float64 and are converted to the struct's
// numeric types.
func (e *Entry) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(e.fields.Clone())); err != nil {
		return fmt.Errorf("decode %s entry: %w", e.typeID, err)
	}
	return nil
}

func (e *Entry) record() storagemodels.EntryRecord {
	return storagemodels.EntryRecord{TypeID: e.typeID, Fields: e.fields, Ordinal: e.ordinal}
}

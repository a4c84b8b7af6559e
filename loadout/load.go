/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loadout

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"go.uber.org/zap"
)

// Dropped describes an entry that was left out while loading.
type Dropped struct {
	// Ordinal is the entry's position in the blob.
	Ordinal int
	TypeID  string
	// Err is an UnknownVariantTypeError or a CorruptBlobError.
	Err error
}

// Report lists what Load had to leave out.
type Report struct {
	Dropped []Dropped
	// ClearedPointers names pointers whose entry was dropped.
	ClearedPointers []string
}

// Clean reports whether everything in the blob was loaded.
func (rep Report) Clean() bool {
	return len(rep.Dropped) == 0 && len(rep.ClearedPointers) == 0
}

// Deserialize builds a loadout from a blob. See Registry.Load.
func Deserialize(blob []byte, kind registry.Kind, catalog *registry.Catalog, opts ...Option) (*Registry, Report, error) {
	r := New(kind, catalog, opts...)
	rep, err := r.Load(blob)
	if err != nil {
		return nil, rep, err
	}
	return r, rep, nil
}

// Load replaces the contents of the loadout with the decoded blob.
//
// Entries whose type id no longer resolves to a variant of this kind, and
// entries whose frame cannot be decoded, are dropped; the others keep their
// relative order and pointers are remapped to them. Fields the type declares
// but the blob lacks receive their default values. Companions required by the
// loaded entries are attached to the host.
//
// If the blob framing is unreadable the loadout is left unchanged and a
// CorruptBlobError is returned. A closed loadout rejects the load.
func (r *Registry) Load(blob []byte) (Report, error) {
	if r.closed {
		return Report{}, fmt.Errorf("load %s loadout: %w", r.kind, errors.ErrLoadoutClosed)
	}
	decoded, err := r.codec.Decode(blob)
	if err != nil {
		return Report{}, fmt.Errorf("load %s loadout: %w", r.kind, err)
	}

	var rep Report
	for _, s := range decoded.Skipped {
		rep.Dropped = append(rep.Dropped, Dropped{Ordinal: s.Ordinal, TypeID: s.TypeID, Err: s.Err})
	}

	entries := make([]*Entry, 0, len(decoded.Snapshot.Entries))
	remap := make(map[int]int, len(decoded.Snapshot.Entries))
	for _, rec := range decoded.Snapshot.Entries {
		meta, err := r.catalog.Resolve(r.kind, rec.TypeID)
		if err != nil {
			rep.Dropped = append(rep.Dropped, Dropped{Ordinal: rec.Ordinal, TypeID: rec.TypeID, Err: err})
			continue
		}

		fields := rec.Fields.Clone()
		for k, v := range meta.Defaults {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}

		remap[rec.Ordinal] = len(entries)
		entries = append(entries, &Entry{
			id:      uuid.New(),
			typeID:  meta.TypeID,
			ordinal: len(entries),
			fields:  fields,
		})
	}
	sort.Slice(rep.Dropped, func(i, j int) bool { return rep.Dropped[i].Ordinal < rep.Dropped[j].Ordinal })

	pointers := make(map[string]int, len(decoded.Snapshot.Pointers))
	for name, old := range decoded.Snapshot.Pointers {
		if pos, ok := remap[old]; ok {
			pointers[name] = pos
		} else {
			rep.ClearedPointers = append(rep.ClearedPointers, name)
		}
	}
	sort.Strings(rep.ClearedPointers)

	for _, d := range rep.Dropped {
		r.logger.Warn("dropped entry while loading",
			zap.Int("ordinal", d.Ordinal),
			zap.String("variant", d.TypeID),
			zap.Error(d.Err),
		)
	}

	for _, e := range r.entries {
		e.ordinal = -1
	}
	r.entries = entries
	r.pointers = pointers

	companionErr := r.ApplyCompanions()
	r.commit(Change{Op: OpLoad, From: -1, To: -1})
	if companionErr != nil {
		return rep, fmt.Errorf("load %s loadout: %w", r.kind, companionErr)
	}
	return rep, nil
}

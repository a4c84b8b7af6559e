/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loadout

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/suparena/variantstore/codec"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
	"go.uber.org/zap"
)

// Host is the owner of a loadout. The registry asks it for companion
// capabilities whenever a variant that requires them is added or loaded.
type Host interface {
	HasCompanion(name string) bool
	AttachCompanion(name string) error
}

// Option configures a Registry.
type Option func(*Registry)

// WithHost binds the registry to its owning host.
func WithHost(h Host) Option {
	return func(r *Registry) { r.host = h }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCodec replaces the binary codec used by Serialize and Load.
func WithCodec(c codec.Codec) Option {
	return func(r *Registry) { r.codec = c }
}

// Registry is an ordered list of variants of one kind.
//
// Positions are always the contiguous range [0, Len). Named pointers (for
// example "default" or "active") follow the entry they reference through
// inserts, removals and moves. Every completed mutation re-serializes the
// loadout and then notifies subscribers.
//
// A Registry is not safe for concurrent use; all calls are expected to come
// from the goroutine that owns the host.
type Registry struct {
	kind    registry.Kind
	catalog *registry.Catalog
	host    Host
	codec   codec.Codec
	logger  *zap.Logger

	entries  []*Entry
	pointers map[string]int

	blob      []byte
	encodeErr error

	listeners    []listener
	nextListener int

	closed bool
}

type listener struct {
	id int
	fn func(Change)
}

// New creates an empty loadout of the given kind.
func New(kind registry.Kind, catalog *registry.Catalog, opts ...Option) *Registry {
	r := &Registry{
		kind:     kind,
		catalog:  catalog,
		codec:    codec.Binary{},
		logger:   zap.NewNop(),
		pointers: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("kind", string(kind)))
	r.reserialize()
	return r
}

// Kind returns the variant kind the loadout accepts.
func (r *Registry) Kind() registry.Kind { return r.kind }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns the entries in order.
func (r *Registry) Entries() []*Entry { return slices.Clone(r.entries) }

// TypeIDs returns the type ids of the entries in order.
func (r *Registry) TypeIDs() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.typeID
	}
	return ids
}

// At returns the entry at position i.
func (r *Registry) At(i int) (*Entry, error) {
	if i < 0 || i >= len(r.entries) {
		return nil, errors.NewIndexOutOfRangeError("at", i, len(r.entries))
	}
	return r.entries[i], nil
}

// IndexOf returns the position of the entry with the given id, or -1.
func (r *Registry) IndexOf(id uuid.UUID) int {
	return slices.IndexFunc(r.entries, func(e *Entry) bool { return e.id == id })
}

// Find returns the entry with the given id.
func (r *Registry) Find(id uuid.UUID) (*Entry, bool) {
	if i := r.IndexOf(id); i >= 0 {
		return r.entries[i], true
	}
	return nil, false
}

// Add appends a new variant of the given type.
func (r *Registry) Add(typeID string) (*Entry, error) {
	return r.Insert(typeID, len(r.entries))
}

// Insert creates a variant of the given type at position pos, shifting the
// entries at and after pos by one. The entry starts with the type's default
// field values, and any companion the type requires is attached to the host.
func (r *Registry) Insert(typeID string, pos int) (*Entry, error) {
	if r.closed {
		return nil, fmt.Errorf("insert into %s loadout: %w", r.kind, errors.ErrLoadoutClosed)
	}
	if pos < 0 || pos > len(r.entries) {
		return nil, errors.NewIndexOutOfRangeError("insert", pos, len(r.entries))
	}
	meta, err := r.catalog.Resolve(r.kind, typeID)
	if err != nil {
		return nil, err
	}
	if err := r.attachCompanions(meta); err != nil {
		return nil, err
	}

	e := &Entry{id: uuid.New(), typeID: meta.TypeID, fields: meta.Defaults}
	r.entries = slices.Insert(r.entries, pos, e)
	r.renumber(pos, len(r.entries)-1)
	for name, p := range r.pointers {
		if p >= pos {
			r.pointers[name] = p + 1
		}
	}

	r.commit(Change{Op: OpAdd, EntryID: e.id, TypeID: e.typeID, From: -1, To: pos})
	return e, nil
}

// Remove deletes the entry with the given id. Removing an entry that is not
// in the loadout is a no-op and returns false.
func (r *Registry) Remove(id uuid.UUID) bool {
	i := r.IndexOf(id)
	if i < 0 {
		return false
	}
	r.removeAt(i)
	return true
}

// RemoveAt deletes the entry at position i.
func (r *Registry) RemoveAt(i int) error {
	if i < 0 || i >= len(r.entries) {
		return errors.NewIndexOutOfRangeError("remove", i, len(r.entries))
	}
	r.removeAt(i)
	return nil
}

func (r *Registry) removeAt(i int) {
	e := r.entries[i]
	r.entries = slices.Delete(r.entries, i, i+1)
	r.renumber(i, len(r.entries)-1)
	e.ordinal = -1

	for name, p := range r.pointers {
		switch {
		case p == i:
			delete(r.pointers, name)
		case p > i:
			r.pointers[name] = p - 1
		}
	}

	r.commit(Change{Op: OpRemove, EntryID: e.id, TypeID: e.typeID, From: i, To: -1})
}

// Move relocates the entry at from to position to. Only the entries between
// the two positions shift, by one slot each; pointers move with their entries.
func (r *Registry) Move(from, to int) error {
	n := len(r.entries)
	if from < 0 || from >= n {
		return errors.NewIndexOutOfRangeError("move", from, n)
	}
	if to < 0 || to >= n {
		return errors.NewIndexOutOfRangeError("move", to, n)
	}
	if from == to {
		return nil
	}

	e := r.entries[from]
	if from < to {
		copy(r.entries[from:to], r.entries[from+1:to+1])
	} else {
		copy(r.entries[to+1:from+1], r.entries[to:from])
	}
	r.entries[to] = e
	r.renumber(min(from, to), max(from, to))

	for name, p := range r.pointers {
		switch {
		case p == from:
			r.pointers[name] = to
		case from < to && p > from && p <= to:
			r.pointers[name] = p - 1
		case to < from && p >= to && p < from:
			r.pointers[name] = p + 1
		}
	}

	r.commit(Change{Op: OpMove, EntryID: e.id, TypeID: e.typeID, From: from, To: to})
	return nil
}

// MoveEntry moves the entry with the given id to position to.
func (r *Registry) MoveEntry(id uuid.UUID, to int) error {
	i := r.IndexOf(id)
	if i < 0 {
		return errors.NewStaleEntryReferenceError("move", id.String())
	}
	return r.Move(i, to)
}

// SetField sets one field value of an entry.
func (r *Registry) SetField(id uuid.UUID, name string, value any) error {
	e, ok := r.Find(id)
	if !ok {
		return errors.NewStaleEntryReferenceError("set field", id.String())
	}
	v, err := storagemodels.NormalizeValue(value)
	if err != nil {
		return errors.NewValidationError(name, err.Error())
	}
	e.fields[name] = v

	r.commit(Change{Op: OpSetField, EntryID: e.id, TypeID: e.typeID, From: e.ordinal, To: e.ordinal, Field: name})
	return nil
}

// SetPointer points name at position i.
func (r *Registry) SetPointer(name string, i int) error {
	if name == "" {
		return errors.NewValidationError("pointer", "name is required")
	}
	if i < 0 || i >= len(r.entries) {
		return errors.NewIndexOutOfRangeError("set pointer", i, len(r.entries))
	}
	r.pointers[name] = i
	r.commit(Change{Op: OpPointer, Pointer: name, From: -1, To: i})
	return nil
}

// ClearPointer removes a pointer. It returns false if the pointer was not set.
func (r *Registry) ClearPointer(name string) bool {
	if _, ok := r.pointers[name]; !ok {
		return false
	}
	delete(r.pointers, name)
	r.commit(Change{Op: OpPointer, Pointer: name, From: -1, To: -1})
	return true
}

// Pointer returns the position a pointer references.
func (r *Registry) Pointer(name string) (int, bool) {
	p, ok := r.pointers[name]
	return p, ok
}

// Pointers returns a copy of all pointers.
func (r *Registry) Pointers() map[string]int {
	out := make(map[string]int, len(r.pointers))
	for k, v := range r.pointers {
		out[k] = v
	}
	return out
}

// Clear removes every entry and pointer. Hosts call it when they are destroyed.
func (r *Registry) Clear() {
	if len(r.entries) == 0 && len(r.pointers) == 0 {
		return
	}
	for _, e := range r.entries {
		e.ordinal = -1
	}
	r.entries = nil
	r.pointers = make(map[string]int)
	r.commit(Change{Op: OpClear, From: -1, To: -1})
}

// Close clears the loadout and rejects further inserts and loads. Hosts close
// their loadouts when they are destroyed.
func (r *Registry) Close() {
	r.Clear()
	r.closed = true
}

// Closed reports whether Close was called.
func (r *Registry) Closed() bool { return r.closed }

// ApplyCompanions attaches every companion required by the current entries.
func (r *Registry) ApplyCompanions() error {
	for _, e := range r.entries {
		meta, ok := r.catalog.Lookup(e.typeID)
		if !ok {
			continue
		}
		if err := r.attachCompanions(meta); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns a deep copy of the loadout in portable form.
func (r *Registry) Snapshot() storagemodels.Snapshot {
	s := r.snapshot()
	for i := range s.Entries {
		s.Entries[i].Fields = s.Entries[i].Fields.Clone()
	}
	return s
}

// Serialize returns the blob produced by the most recent mutation.
func (r *Registry) Serialize() ([]byte, error) {
	if r.encodeErr != nil {
		return nil, r.encodeErr
	}
	return slices.Clone(r.blob), nil
}

func (r *Registry) snapshot() storagemodels.Snapshot {
	s := storagemodels.Snapshot{Entries: make([]storagemodels.EntryRecord, len(r.entries))}
	for i, e := range r.entries {
		s.Entries[i] = e.record()
	}
	if len(r.pointers) > 0 {
		s.Pointers = r.Pointers()
	}
	return s
}

func (r *Registry) renumber(lo, hi int) {
	for i := lo; i <= hi && i < len(r.entries); i++ {
		r.entries[i].ordinal = i
	}
}

func (r *Registry) attachCompanions(meta registry.Metadata) error {
	if r.host == nil {
		return nil
	}
	for _, c := range meta.Companions {
		if r.host.HasCompanion(c) {
			continue
		}
		if err := r.host.AttachCompanion(c); err != nil {
			return fmt.Errorf("attach companion %q for %s: %w", c, meta.TypeID, err)
		}
		r.logger.Debug("attached companion",
			zap.String("companion", c),
			zap.String("variant", meta.TypeID),
		)
	}
	return nil
}

func (r *Registry) reserialize() {
	r.blob, r.encodeErr = r.codec.Encode(r.snapshot())
	if r.encodeErr != nil {
		r.encodeErr = fmt.Errorf("serialize %s loadout: %w", r.kind, r.encodeErr)
		r.logger.Error("serialize failed", zap.Error(r.encodeErr))
	}
}

func (r *Registry) commit(c Change) {
	r.reserialize()
	r.notify(c)
}

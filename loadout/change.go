/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package loadout

import (
	"slices"

	"github.com/google/uuid"
)

// Op names the mutation that produced a Change.
type Op string

const (
	OpAdd      Op = "add"
	OpRemove   Op = "remove"
	OpMove     Op = "move"
	OpSetField Op = "set_field"
	OpPointer  Op = "pointer"
	OpLoad     Op = "load"
	OpClear    Op = "clear"
)

// Change describes a completed mutation. From and To are positions, -1 when
// not applicable (From for an add, To for a remove).
type Change struct {
	Op      Op
	EntryID uuid.UUID
	TypeID  string
	From    int
	To      int
	// Field is set for OpSetField, Pointer for OpPointer.
	Field   string
	Pointer string
}

// Subscribe registers fn to be called after every completed mutation.
// The returned function removes the subscription.
func (r *Registry) Subscribe(fn func(Change)) (cancel func()) {
	id := r.nextListener
	r.nextListener++
	r.listeners = append(r.listeners, listener{id: id, fn: fn})

	return func() {
		r.listeners = slices.DeleteFunc(r.listeners, func(l listener) bool { return l.id == id })
	}
}

func (r *Registry) notify(c Change) {
	// Listeners may cancel themselves while being notified.
	for _, l := range slices.Clone(r.listeners) {
		l.fn(c)
	}
}

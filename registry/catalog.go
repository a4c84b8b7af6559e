/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/storagemodels"
)

// Kind groups variant types by the loadout they can be added to.
type Kind string

const (
	KindAbility      Kind = "ability"
	KindItemAction   Kind = "item_action"
	KindViewType     Kind = "view_type"
	KindMovementType Kind = "movement_type"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindAbility, KindItemAction, KindViewType, KindMovementType}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts s into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", errors.NewValidationError("kind", fmt.Sprintf("unsupported kind %q", s))
	}
	return k, nil
}

// Metadata describes one variant type.
type Metadata struct {
	// TypeID is the stable identifier written into serialized loadouts.
	TypeID string
	// Kind is the loadout kind the type belongs to.
	Kind Kind
	// DisplayName and Order are presentation hints used by List.
	DisplayName string
	Order       int
	// Aliases are former type ids that still resolve to this type.
	Aliases []string
	// Companions are capabilities the host must carry for the variant to work.
	Companions []string
	// Defaults are the field values of a newly added entry.
	Defaults storagemodels.Fields
}

func (m Metadata) clone() Metadata {
	m.Aliases = append([]string(nil), m.Aliases...)
	m.Companions = append([]string(nil), m.Companions...)
	m.Defaults = m.Defaults.Clone()
	return m
}

// Catalog maps variant type ids to their metadata. A catalog is built once
// during startup and sealed before loadouts use it; lookups are safe for
// concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	types   map[string]Metadata
	aliases map[string]string
	sealed  bool
}

// NewCatalog returns an empty, unsealed catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:   make(map[string]Metadata),
		aliases: make(map[string]string),
	}
}

// Register adds a variant type. Type ids and aliases share one namespace;
// a collision returns an AlreadyExistsError.
func (c *Catalog) Register(m Metadata) error {
	if m.TypeID == "" {
		return errors.NewValidationError("TypeID", "type id is required")
	}
	if !m.Kind.Valid() {
		return errors.NewValidationError("Kind", fmt.Sprintf("type %q has unsupported kind %q", m.TypeID, m.Kind))
	}
	defaults, err := storagemodels.Normalize(m.Defaults)
	if err != nil {
		return errors.NewValidationError("Defaults", fmt.Sprintf("type %q: %v", m.TypeID, err))
	}
	m.Defaults = defaults
	if m.DisplayName == "" {
		m.DisplayName = m.TypeID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return fmt.Errorf("register %q: %w", m.TypeID, errors.ErrCatalogSealed)
	}
	seen := make(map[string]bool, len(m.Aliases)+1)
	for _, id := range append([]string{m.TypeID}, m.Aliases...) {
		if seen[id] || c.taken(id) {
			return errors.NewAlreadyExistsError("variant type", id)
		}
		seen[id] = true
	}

	m = m.clone()
	c.types[m.TypeID] = m
	for _, alias := range m.Aliases {
		c.aliases[alias] = m.TypeID
	}
	return nil
}

// MustRegister registers m and panics on failure, for use in init-time tables.
func (c *Catalog) MustRegister(m Metadata) {
	if err := c.Register(m); err != nil {
		panic(fmt.Sprintf("variant catalog: %v", err))
	}
}

// RegisterAll registers every entry of ms, stopping at the first failure.
func (c *Catalog) RegisterAll(ms []Metadata) error {
	for _, m := range ms {
		if err := c.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Seal freezes the catalog. Later Register calls fail with ErrCatalogSealed.
func (c *Catalog) Seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (c *Catalog) Sealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sealed
}

// Lookup finds a type by id or alias.
func (c *Catalog) Lookup(typeID string) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if canonical, ok := c.aliases[typeID]; ok {
		typeID = canonical
	}
	m, ok := c.types[typeID]
	if !ok {
		return Metadata{}, false
	}
	return m.clone(), true
}

// Resolve finds a type of the given kind by id or alias.
func (c *Catalog) Resolve(kind Kind, typeID string) (Metadata, error) {
	m, ok := c.Lookup(typeID)
	if !ok || m.Kind != kind {
		return Metadata{}, errors.NewUnknownVariantTypeError(typeID, string(kind))
	}
	return m, nil
}

// List returns the types of a kind ordered by Order, then DisplayName, then TypeID.
func (c *Catalog) List(kind Kind) []Metadata {
	c.mu.RLock()
	out := make([]Metadata, 0, len(c.types))
	for _, m := range c.types {
		if m.Kind == kind {
			out = append(out, m.clone())
		}
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].TypeID < out[j].TypeID
	})
	return out
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types)
}

func (c *Catalog) taken(id string) bool {
	if _, ok := c.types[id]; ok {
		return true
	}
	_, ok := c.aliases[id]
	return ok
}

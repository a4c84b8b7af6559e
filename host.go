/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package variantstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/suparena/variantstore/datastore"
	"github.com/suparena/variantstore/errors"
	"github.com/suparena/variantstore/loadout"
	"github.com/suparena/variantstore/registry"
	"github.com/suparena/variantstore/storagemodels"
	"go.uber.org/zap"
)

// LoadoutStore persists loadout blobs.
type LoadoutStore = datastore.DataStore[storagemodels.LoadoutRecord]

// HostOption configures a Host.
type HostOption func(*Host)

// WithStore sets the datastore used by Save and Load.
func WithStore(s LoadoutStore) HostOption {
	return func(h *Host) { h.store = s }
}

// WithHostLogger sets the logger. The default discards everything.
func WithHostLogger(l *zap.Logger) HostOption {
	return func(h *Host) { h.logger = l }
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) HostOption {
	return func(h *Host) { h.now = now }
}

// Host owns one loadout per variant kind and the companion capabilities its
// variants require.
//
// The loadouts themselves are single-threaded; the host only guards its own
// bookkeeping so that Hosts can be inspected from other goroutines.
type Host struct {
	id       string
	hostKind string
	catalog  *registry.Catalog
	store    LoadoutStore
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	companions map[string]struct{}
	loadouts   map[registry.Kind]*loadout.Registry
	versions   map[registry.Kind]int64
	dirty      map[registry.Kind]bool
	destroyed  bool
	owner      *Hosts
}

var _ loadout.Host = (*Host)(nil)

// NewHost creates a host. hostKind is free-form (character, camera, item).
func NewHost(id, hostKind string, catalog *registry.Catalog, opts ...HostOption) (*Host, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", "host id is required")
	}
	if catalog == nil {
		return nil, errors.NewValidationError("catalog", "catalog is required")
	}
	h := &Host{
		id:         id,
		hostKind:   hostKind,
		catalog:    catalog,
		logger:     zap.NewNop(),
		now:        time.Now,
		companions: make(map[string]struct{}),
		loadouts:   make(map[registry.Kind]*loadout.Registry),
		versions:   make(map[registry.Kind]int64),
		dirty:      make(map[registry.Kind]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(zap.String("host", id))
	return h, nil
}

// ID returns the host id.
func (h *Host) ID() string { return h.id }

// HostKind returns the kind of host.
func (h *Host) HostKind() string { return h.hostKind }

// HasCompanion reports whether the companion capability is attached.
func (h *Host) HasCompanion(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.companions[name]
	return ok
}

// AttachCompanion attaches a companion capability. Attaching one that is
// already present is a no-op.
func (h *Host) AttachCompanion(name string) error {
	if name == "" {
		return errors.NewValidationError("companion", "name is required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return errors.NewValidationError("host", fmt.Sprintf("host %s is destroyed", h.id))
	}
	h.companions[name] = struct{}{}
	return nil
}

// Companions returns the attached companions in name order.
func (h *Host) Companions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.companions))
	for c := range h.companions {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Loadout returns the host's loadout of the given kind, creating it empty on
// first use.
func (h *Host) Loadout(kind registry.Kind) (*loadout.Registry, error) {
	if !kind.Valid() {
		return nil, errors.NewValidationError("kind", fmt.Sprintf("unknown variant kind %q", kind))
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return nil, errors.NewValidationError("host", fmt.Sprintf("host %s is destroyed", h.id))
	}
	return h.loadoutLocked(kind), nil
}

func (h *Host) loadoutLocked(kind registry.Kind) *loadout.Registry {
	if r, ok := h.loadouts[kind]; ok {
		return r
	}
	r := loadout.New(kind, h.catalog, loadout.WithHost(h), loadout.WithLogger(h.logger))
	r.Subscribe(func(loadout.Change) {
		h.mu.Lock()
		h.dirty[kind] = true
		h.mu.Unlock()
	})
	h.loadouts[kind] = r
	return r
}

// Kinds returns the kinds the host has a loadout for.
func (h *Host) Kinds() []registry.Kind {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kindsLocked()
}

func (h *Host) kindsLocked() []registry.Kind {
	kinds := make([]registry.Kind, 0, len(h.loadouts))
	for k := range h.loadouts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Dirty reports whether the loadout changed since it was last saved or loaded.
func (h *Host) Dirty(kind registry.Kind) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dirty[kind]
}

// Version returns the persisted version of a loadout, or 0 if it was never saved.
func (h *Host) Version(kind registry.Kind) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.versions[kind]
}

// Destroyed reports whether Destroy was called.
func (h *Host) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

// claim records hs as the set owning h.
func (h *Host) claim(hs *Hosts) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owner != nil {
		return errors.NewAlreadyExistsError("Host", h.id)
	}
	h.owner = hs
	return nil
}

func (h *Host) release(hs *Hosts) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owner == hs {
		h.owner = nil
	}
}

// Destroy clears and closes every loadout and detaches all companions. A closed
// loadout rejects new entries even through a previously obtained reference.
// Further calls are no-ops.
func (h *Host) Destroy() {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return
	}
	h.destroyed = true
	loadouts := make([]*loadout.Registry, 0, len(h.loadouts))
	for _, k := range h.kindsLocked() {
		loadouts = append(loadouts, h.loadouts[k])
	}
	h.mu.Unlock()

	// Close notifies subscribers, which take h.mu.
	for _, r := range loadouts {
		r.Close()
	}

	h.mu.Lock()
	h.companions = make(map[string]struct{})
	h.mu.Unlock()
	h.logger.Debug("host destroyed")
}

// Save writes every changed loadout to the datastore. A loadout that was never
// saved is created only if no record exists yet; otherwise the update only
// succeeds if the stored version still matches. Either way a
// ConditionFailedError is returned when another writer got there first.
func (h *Host) Save(ctx context.Context) error {
	if h.store == nil {
		return errors.NewValidationError("store", "host has no datastore")
	}
	for _, kind := range h.Kinds() {
		if !h.Dirty(kind) {
			continue
		}
		if err := h.save(ctx, kind); err != nil {
			return fmt.Errorf("save %s loadout of %s: %w", kind, h.id, err)
		}
	}
	return nil
}

func (h *Host) save(ctx context.Context, kind registry.Kind) error {
	h.mu.Lock()
	r := h.loadouts[kind]
	version := h.versions[kind]
	h.mu.Unlock()

	blob, err := r.Serialize()
	if err != nil {
		return err
	}

	rec := storagemodels.LoadoutRecord{
		HostID:   h.id,
		HostKind: h.hostKind,
		Kind:     string(kind),
		Blob:     blob,
		Version:  version + 1,
	}
	rec.Touch(h.now())

	if version == 0 {
		err = h.store.PutWithCondition(ctx, rec, storagemodels.Condition{
			Expression: "attribute_not_exists(PK)",
		})
	} else {
		err = h.store.UpdateWithCondition(ctx, rec.Key(),
			map[string]interface{}{
				"Blob":      rec.Blob,
				"Version":   rec.Version,
				"UpdatedAt": rec.UpdatedAt,
			},
			storagemodels.Condition{
				Expression: "Version = :expectedVersion",
				Values:     map[string]interface{}{":expectedVersion": version},
			},
		)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.versions[kind] = rec.Version
	h.dirty[kind] = false
	h.mu.Unlock()
	h.logger.Debug("saved loadout", zap.String("kind", string(kind)), zap.Int64("version", rec.Version))
	return nil
}

// Load replaces the host's loadouts with the ones stored for it and returns
// a report per kind of what had to be dropped. Loadouts with no stored record
// are cleared and marked as never saved. Records of unknown kinds are skipped
// with a warning.
func (h *Host) Load(ctx context.Context) (map[registry.Kind]loadout.Report, error) {
	if h.store == nil {
		return nil, errors.NewValidationError("store", "host has no datastore")
	}
	if h.Destroyed() {
		return nil, errors.NewValidationError("host", fmt.Sprintf("host %s is destroyed", h.id))
	}

	params, err := datastore.PartitionQuery[storagemodels.LoadoutRecord](storagemodels.LoadoutKey{HostID: h.id})
	if err != nil {
		return nil, err
	}
	records, err := h.store.Query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("query loadouts of %s: %w", h.id, err)
	}

	reports := make(map[registry.Kind]loadout.Report)
	stored := make(map[registry.Kind]bool)
	for _, rec := range records {
		if rec.HostID != h.id {
			continue
		}
		kind, err := registry.ParseKind(rec.Kind)
		if err != nil {
			h.logger.Warn("skipping loadout of unknown kind", zap.String("kind", rec.Kind))
			continue
		}

		h.mu.Lock()
		r := h.loadoutLocked(kind)
		h.mu.Unlock()

		rep, err := r.Load(rec.Blob)
		reports[kind] = rep
		if err != nil {
			return reports, fmt.Errorf("load %s loadout of %s: %w", kind, h.id, err)
		}

		h.mu.Lock()
		h.versions[kind] = rec.Version
		h.dirty[kind] = false
		h.mu.Unlock()
		stored[kind] = true
	}

	for _, kind := range h.Kinds() {
		if stored[kind] {
			continue
		}
		h.mu.Lock()
		r := h.loadouts[kind]
		h.mu.Unlock()

		r.Clear()

		h.mu.Lock()
		delete(h.versions, kind)
		h.dirty[kind] = false
		h.mu.Unlock()
	}
	return reports, nil
}

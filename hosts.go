/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package variantstore

import (
	"context"
	"sort"
	"sync"

	"github.com/suparena/variantstore/errors"
	"go.uber.org/zap"
)

// Hosts is a thread-safe set of hosts keyed by id. A host belongs to at most one set.
type Hosts struct {
	mu     sync.RWMutex
	hosts  map[string]*Host
	logger *zap.Logger
}

// NewHosts creates an empty set. A nil logger discards everything.
func NewHosts(logger *zap.Logger) *Hosts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hosts{
		hosts:  make(map[string]*Host),
		logger: logger,
	}
}

// Add registers h under its id. A host already registered in any set is
// rejected with an AlreadyExistsError.
func (hs *Hosts) Add(h *Host) error {
	if h == nil {
		return errors.NewValidationError("host", "host is required")
	}
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if _, exists := hs.hosts[h.ID()]; exists {
		return errors.NewAlreadyExistsError("Host", h.ID())
	}
	if err := h.claim(hs); err != nil {
		return err
	}
	hs.hosts[h.ID()] = h
	return nil
}

// Get retrieves a host by id.
func (hs *Hosts) Get(id string) (*Host, error) {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	h, exists := hs.hosts[id]
	if !exists {
		return nil, errors.NewNotFoundError("Host", id)
	}
	return h, nil
}

// Remove unregisters a host and destroys it, clearing all of its loadouts.
func (hs *Hosts) Remove(id string) error {
	hs.mu.Lock()
	h, exists := hs.hosts[id]
	if !exists {
		hs.mu.Unlock()
		return errors.NewNotFoundError("Host", id)
	}
	delete(hs.hosts, id)
	hs.mu.Unlock()

	h.release(hs)
	h.Destroy()
	hs.logger.Debug("host removed", zap.String("host", id))
	return nil
}

// List returns the registered host ids in order.
func (hs *Hosts) List() []string {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	ids := make([]string, 0, len(hs.hosts))
	for id := range hs.hosts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered hosts.
func (hs *Hosts) Len() int {
	hs.mu.RLock()
	defer hs.mu.RUnlock()
	return len(hs.hosts)
}

// SaveAll saves every host in id order and stops at the first error.
func (hs *Hosts) SaveAll(ctx context.Context) error {
	for _, id := range hs.List() {
		h, err := hs.Get(id)
		if err != nil {
			// Removed concurrently.
			continue
		}
		if err := h.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

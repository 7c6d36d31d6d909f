/*
 * MIT License
 *
 * Copyright (c) 2026 syslog-ng authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stats

import (
	"sync"
	"sync/atomic"
)

// Registry owns every Cluster in process scope. A single mutex guards the
// two lookup tables; counter mutation itself stays lock-free so the mutex is
// never held while evaluating caller code (spec §4.1, §5).
type Registry struct {
	mu         sync.Mutex
	level      Level
	maxDynamic int // 0 == unlimited (spec §7 resolves the ambiguity this way)

	static  map[string]*Cluster
	dynamic map[string]*Cluster
}

// NewRegistry creates a Registry gated at level and capped at maxDynamic
// dynamic clusters (0 meaning unlimited).
func NewRegistry(level Level, maxDynamic int) *Registry {
	return &Registry{
		level:      level,
		maxDynamic: maxDynamic,
		static:     make(map[string]*Cluster),
		dynamic:    make(map[string]*Cluster),
	}
}

// SetLevel changes the gating level for future registrations.
func (r *Registry) SetLevel(l Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = l
}

func (r *Registry) findLocked(table map[string]*Cluster, key Key) *Cluster {
	return table[key.Canonical()]
}

// RegisterCounter implements spec §4.1 register_counter. A level above the
// configured gate silently returns a NullCounter; the caller proceeds
// without metrics.
func (r *Registry) RegisterCounter(level Level, key Key, kind Kind, id CounterID) (*Cluster, Counter, error) {
	if level > r.level {
		return nil, NullCounter, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.findLocked(r.static, key); c != nil {
		if c.kind != kind {
			return nil, nil, newKindMismatch(key)
		}
		atomic.AddInt32(&c.useCount, 1)
		return c, r.slotLocked(c, id), nil
	}

	c := newCluster(key, kind, false)
	c.useCount = 1
	r.static[key.Canonical()] = c
	return c, r.slotLocked(c, id), nil
}

// RegisterDynamicCounter implements spec §4.1 register_dynamic_counter,
// enforcing max_dynamic (0 == unlimited, spec §7).
func (r *Registry) RegisterDynamicCounter(level Level, key Key, kind Kind, id CounterID) (*Cluster, Counter, bool) {
	if level > r.level {
		return nil, NullCounter, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.findLocked(r.dynamic, key); c != nil {
		if c.kind != kind {
			return nil, NullCounter, false
		}
		atomic.AddInt32(&c.useCount, 1)
		return c, r.slotLocked(c, id), true
	}

	if r.maxDynamic > 0 && len(r.dynamic) >= r.maxDynamic {
		return nil, NullCounter, false
	}

	c := newCluster(key, kind, true)
	c.useCount = 1
	r.dynamic[key.Canonical()] = c
	return c, r.slotLocked(c, id), true
}

// RegisterExternalCounter implements spec §4.1 register_external_counter:
// storage is supplied by the caller and is read-only through the registry.
// Re-registering the same (key, id) with a different ownership kind
// (internal vs external) is a programming error.
func (r *Registry) RegisterExternalCounter(level Level, key Key, kind Kind, id CounterID, ext *int64) (*Cluster, Counter, error) {
	if level > r.level {
		return nil, NullCounter, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findLocked(r.static, key)
	if c == nil {
		c = newCluster(key, kind, false)
		r.static[key.Canonical()] = c
	} else if c.kind != kind {
		return nil, nil, newKindMismatch(key)
	}

	if existing, ok := c.counters[id]; ok && !existing.IsExternal() {
		return nil, nil, newInternalExternalClash(key, id)
	}

	atomic.AddInt32(&c.useCount, 1)
	cnt := newExternalCounter(ext)
	c.counters[id] = cnt
	return c, cnt, nil
}

// RegisterAliasCounter implements spec §4.1 register_alias_counter: shorthand
// for external registration pointing at another counter's storage.
func (r *Registry) RegisterAliasCounter(level Level, key Key, kind Kind, id CounterID, aliased Counter) (*Cluster, Counter, error) {
	if level > r.level {
		return nil, NullCounter, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findLocked(r.static, key)
	if c == nil {
		c = newCluster(key, kind, false)
		r.static[key.Canonical()] = c
	} else if c.kind != kind {
		return nil, nil, newKindMismatch(key)
	}

	if existing, ok := c.counters[id]; ok && !existing.IsExternal() {
		return nil, nil, newInternalExternalClash(key, id)
	}

	atomic.AddInt32(&c.useCount, 1)
	cnt := newAliasCounter(aliased)
	c.counters[id] = cnt
	return c, cnt, nil
}

// slotLocked returns the counter for id on c, creating an owned counter slot
// on first use. Must be called with r.mu held.
func (r *Registry) slotLocked(c *Cluster, id CounterID) Counter {
	if cnt, ok := c.counters[id]; ok {
		return cnt
	}
	cnt := newOwnedCounter()
	c.counters[id] = cnt
	c.markLive(id)
	return cnt
}

// UnregisterCounter implements spec §4.1 unregister_counter: decrements the
// cluster's use-count. A zero use-count makes the cluster orphaned but does
// not delete it until RemoveCluster or the orphan sweep runs.
func (r *Registry) UnregisterCounter(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.findLocked(r.static, key); c != nil {
		atomic.AddInt32(&c.useCount, -1)
		return
	}
	if c := r.findLocked(r.dynamic, key); c != nil {
		atomic.AddInt32(&c.useCount, -1)
	}
}

// RemoveCluster removes the cluster addressed by key only if it is orphaned
// (spec §4.1 remove_cluster).
func (r *Registry) RemoveCluster(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	canon := key.Canonical()
	if c, ok := r.static[canon]; ok && c.Orphaned() {
		delete(r.static, canon)
		return true
	}
	if c, ok := r.dynamic[canon]; ok && c.Orphaned() {
		delete(r.dynamic, canon)
		return true
	}
	return false
}

// SweepOrphanedDynamic removes every orphaned dynamic cluster and returns how
// many were reclaimed (spec glossary "Dynamic counter/cluster").
func (r *Registry) SweepOrphanedDynamic() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k, c := range r.dynamic {
		if c.Orphaned() {
			delete(r.dynamic, k)
			n++
		}
	}
	return n
}

// snapshot copies cluster pointers out from under the lock so ForeachCluster
// and ForeachCounter never call user code while r.mu is held (spec §5).
func (r *Registry) snapshot() []*Cluster {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Cluster, 0, len(r.static)+len(r.dynamic))
	for _, c := range r.static {
		out = append(out, c)
	}
	for _, c := range r.dynamic {
		out = append(out, c)
	}
	return out
}

// ForeachCluster iterates every cluster. If cancellable is non-nil and set to
// true between clusters, iteration stops early (spec §4.1, §5 "Long-running
// exports accept a cancellation flag").
func (r *Registry) ForeachCluster(fn func(*Cluster) bool, cancellable *atomic.Bool) {
	for _, c := range r.snapshot() {
		if cancellable != nil && cancellable.Load() {
			return
		}
		if !fn(c) {
			return
		}
	}
}

// ForeachCounter iterates every (cluster, counterID, counter) triple.
func (r *Registry) ForeachCounter(fn func(*Cluster, CounterID, Counter) bool, cancellable *atomic.Bool) {
	r.ForeachCluster(func(c *Cluster) bool {
		for id, cnt := range c.counters {
			if cancellable != nil && cancellable.Load() {
				return false
			}
			if !fn(c, id, cnt) {
				return false
			}
		}
		return true
	}, cancellable)
}

func newKindMismatch(key Key) error {
	return newStatsError(CodeKindMismatch, "cluster "+key.Canonical()+" already registered with a different kind")
}

func newInternalExternalClash(key Key, id CounterID) error {
	return newStatsError(CodeInternalExternalClash, "counter slot on "+key.Canonical()+" already registered with the other ownership kind")
}

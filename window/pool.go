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

// Package window implements the dynamic-window credit pool an AF_SOCKET
// source driver distributes across its live connections: a shared integer
// credit count recomputed into a per-connection share on a fixed cadence
// (spec §4.4 "Dynamic-window pool").
package window

import (
	"context"
	"sync"
	"time"

	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/runner/ticker"
	"github.com/syslog-ng/logcore/stats"
)

// Config carries the init-time parameters a driver configures a Pool with
// (spec §6 "dynamic-window-size", "dynamic-window-stats-freq",
// "dynamic-window-realloc-ticks").
type Config struct {
	PoolSize       int
	StaticWindow   int
	MaxConnections int
	ReallocTicks   int           // ticks of the stats timer between recomputes; default 5
	StatsInterval  time.Duration // stats timer period; default 1s
}

// Pool is the shared dynamic-window credit pool for one source driver.
type Pool struct {
	mu sync.Mutex

	poolSize       int
	staticWindow   int
	maxConnections int
	reallocTicks   int

	active         int
	balancedWindow int
	remaining      int
	ticksSinceCalc int

	warnedNoGrowth bool

	size      stats.Counter
	poolRem   stats.Counter
	balanced  stats.Counter
	connCount stats.Counter

	log logger.Logger
	tck ticker.Ticker

	mirror *RedisMirror
}

// NewPool validates cfg, applies the warning contract (spec §4.4 "Warning
// contract") and returns a ready-to-Start Pool.
func NewPool(ctx context.Context, cfg Config) (*Pool, error) {
	if cfg.PoolSize <= 0 {
		return nil, ErrInvalidPoolSize
	}
	if cfg.ReallocTicks <= 0 {
		cfg.ReallocTicks = 5
	}
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = time.Second
	}

	log := logger.New(ctx)
	poolSize := cfg.PoolSize

	if cfg.MaxConnections > 0 && poolSize%cfg.MaxConnections != 0 {
		rounded := ((poolSize / cfg.MaxConnections) + 1) * cfg.MaxConnections
		log.Warning("dynamic window pool_size is not a multiple of max_connections, rounding up", nil,
			"pool_size", poolSize, "max_connections", cfg.MaxConnections, "rounded_to", rounded)
		poolSize = rounded
	}

	if cfg.MaxConnections > 0 && cfg.StaticWindow > 0 {
		share := poolSize / cfg.MaxConnections
		if share < 10*cfg.StaticWindow {
			log.Warning("dynamic window per-connection share is less than 10x the static window", nil,
				"share", share, "static_window", cfg.StaticWindow)
		}
	}

	p := &Pool{
		poolSize:       poolSize,
		staticWindow:   cfg.StaticWindow,
		maxConnections: cfg.MaxConnections,
		reallocTicks:   cfg.ReallocTicks,
		remaining:      poolSize,
		size:           stats.NullCounter,
		poolRem:        stats.NullCounter,
		balanced:       stats.NullCounter,
		connCount:      stats.NullCounter,
		log:            log,
	}
	p.tck = ticker.New(cfg.StatsInterval, p.onTick)
	return p, nil
}

// BindCounters attaches the pool-size/pool-remaining/balanced-window/
// connection-count counters this pool reports through (spec §6
// "<driver>.dynamic_window").
func (p *Pool) BindCounters(size, remaining, balanced, connCount stats.Counter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.size, p.poolRem, p.balanced, p.connCount = size, remaining, balanced, connCount
	p.size.Set(int64(p.poolSize))
	p.poolRem.Set(int64(p.remaining))
	p.balanced.Set(int64(p.balancedWindow))
	p.connCount.Set(int64(p.active))
}

// SetMirror attaches an optional cross-process credit mirror. Every reader
// attached after this call (and any attached before it, on their next
// Acquire/Release) publishes its credit record through m; nil disables
// mirroring.
func (p *Pool) SetMirror(m *RedisMirror) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mirror = m
}

// Start begins the recompute ticker.
func (p *Pool) Start(ctx context.Context) error { return p.tck.Start(ctx) }

// Stop stops the recompute ticker.
func (p *Pool) Stop(ctx context.Context) error { return p.tck.Stop(ctx) }

func (p *Pool) onTick(ctx context.Context, _ *time.Ticker) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticksSinceCalc++
	if p.ticksSinceCalc < p.reallocTicks {
		return nil
	}
	p.ticksSinceCalc = 0
	p.recomputeLocked()
	return nil
}

// recomputeLocked implements "every realloc_ticks ticks, recompute
// balanced_window = pool_size / active_connections" (spec §4.4). Must be
// called with p.mu held.
func (p *Pool) recomputeLocked() {
	if p.active <= 0 {
		p.balancedWindow = p.poolSize
		p.warnedNoGrowth = false
	} else {
		p.balancedWindow = p.poolSize / p.active
		if p.balancedWindow == 0 {
			if !p.warnedNoGrowth {
				p.log.Warning("dynamic window pool has too many connections for any growth", nil,
					"pool_size", p.poolSize, "active_connections", p.active)
				p.warnedNoGrowth = true
			}
		} else {
			p.warnedNoGrowth = false
		}
	}
	p.balanced.Set(int64(p.balancedWindow))
}

// Attach registers a new reader against the pool and returns its handle.
// staticWindow is that connection's own initial credit, independent of the
// shared pool (spec §4.4 "Each connection holds a static window ... and may
// draw additional credits from the shared dynamic pool").
func (p *Pool) Attach(staticWindow int) *Reader {
	return p.AttachNamed("", staticWindow)
}

// AttachNamed is Attach with an explicit connection ID, used as the
// rendezvous-hashing key when a RedisMirror is set via SetMirror. Readers
// attached through plain Attach (empty id) are never mirrored.
func (p *Pool) AttachNamed(id string, staticWindow int) *Reader {
	p.mu.Lock()
	p.active++
	p.connCount.Set(int64(p.active))
	p.mu.Unlock()
	return &Reader{pool: p, id: id, staticWindow: staticWindow}
}

// ActiveConnections reports the current number of attached readers.
func (p *Pool) ActiveConnections() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// BalancedWindow reports the current per-connection dynamic share.
func (p *Pool) BalancedWindow() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balancedWindow
}

// Remaining reports the pool's unallocated credit (spec §4.4
// "pool_remaining").
func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}

// PoolSize reports the (possibly rounded-up) configured pool size.
func (p *Pool) PoolSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.poolSize
}

// Recompute forces an immediate recalculation outside the regular tick
// cadence, used by tests and by a driver reacting to a burst of new
// connections (spec §9 notes this cadence is not load-adaptive by design;
// an explicit call is the escape hatch a caller may still use).
func (p *Pool) Recompute() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recomputeLocked()
}

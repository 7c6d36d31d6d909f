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

package window

import "context"

// Reader is one connection's handle on the shared Pool: its own static
// window plus whatever dynamic credit it currently holds.
type Reader struct {
	pool *Pool

	id string // rendezvous-hashing key for the pool's RedisMirror, if any

	staticWindow int
	staticUsed   int
	drawn        int // credit currently held from the shared pool
}

// mirror publishes this reader's current credit record in the background,
// best-effort: mirroring is for external dashboards and must never hold up
// the caller or fail the Acquire/Release it originated from.
func (r *Reader) mirror() {
	if r.id == "" || r.pool.mirror == nil {
		return
	}
	m, id, drawn, staticUsed := r.pool.mirror, r.id, r.drawn, r.staticUsed
	go func() {
		if err := m.Mirror(context.Background(), id, drawn, staticUsed); err != nil {
			r.pool.log.Warning("dynamic window redis mirror write failed", err, "conn_id", id)
		}
	}()
}

// Acquire grants up to n credits: first from the reader's own static
// window, then from its share of the dynamic pool, bounded by both the
// reader's remaining balanced_window share and the pool's own remaining
// credit (spec §4.4 "A reader requesting growth obtains
// min(remaining_balanced_window, pool_remaining)"). It returns how many
// credits were actually granted, which may be less than n or zero.
func (r *Reader) Acquire(n int) int {
	if n <= 0 {
		return 0
	}
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()

	fromStatic := min(n, r.staticWindow-r.staticUsed)
	r.staticUsed += fromStatic
	granted := fromStatic

	remain := n - fromStatic
	if remain > 0 {
		remainingShare := r.pool.balancedWindow - r.drawn
		if remainingShare < 0 {
			remainingShare = 0
		}
		fromPool := min(remain, min(remainingShare, r.pool.remaining))
		if fromPool > 0 {
			r.drawn += fromPool
			r.pool.remaining -= fromPool
			r.pool.poolRem.Set(int64(r.pool.remaining))
			granted += fromPool
		}
	}
	r.mirror()
	return granted
}

// Release returns n credits, dynamic credit first then static (spec §4.4
// "release returns to the pool").
func (r *Reader) Release(n int) {
	if n <= 0 {
		return
	}
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()

	fromDyn := min(n, r.drawn)
	r.drawn -= fromDyn
	r.pool.remaining += fromDyn
	r.pool.poolRem.Set(int64(r.pool.remaining))

	remain := n - fromDyn
	if remain > 0 {
		r.staticUsed -= remain
		if r.staticUsed < 0 {
			r.staticUsed = 0
		}
	}
	r.mirror()
}

// Drawn reports how much dynamic credit this reader currently holds.
func (r *Reader) Drawn() int {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()
	return r.drawn
}

// StaticUsed reports how much of the reader's own static window is in use.
func (r *Reader) StaticUsed() int {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()
	return r.staticUsed
}

// Detach releases all dynamic credit this reader holds back to the pool and
// decrements the active-connection count (spec §4.4, connection lifecycle).
func (r *Reader) Detach() {
	r.pool.mu.Lock()
	defer r.pool.mu.Unlock()
	r.pool.remaining += r.drawn
	r.drawn = 0
	if r.pool.active > 0 {
		r.pool.active--
	}
	r.pool.poolRem.Set(int64(r.pool.remaining))
	r.pool.connCount.Set(int64(r.pool.active))

	if r.id != "" && r.pool.mirror != nil {
		m, id := r.pool.mirror, r.id
		go func() {
			if err := m.Forget(context.Background(), id); err != nil {
				r.pool.log.Warning("dynamic window redis mirror forget failed", err, "conn_id", id)
			}
		}()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

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

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/dgryski/go-rendezvous"
	"github.com/redis/go-redis/v9"
)

// RedisMirror is an optional, best-effort cross-process view of a Pool's
// per-connection credit records, for dashboards that live outside the
// process holding the Pool itself. It is never consulted by Acquire/
// Release/Detach's own accounting; a mirror write failure only ever
// produces a log warning.
type RedisMirror struct {
	rz     *rendezvous.Rendezvous
	shards map[string]*redis.Client
	prefix string
}

// NewRedisMirror builds a mirror sharded across addrs (each a "host:port"
// redis endpoint). Rendezvous (highest-random-weight) hashing picks one
// shard per connection ID, so a given connection's record always lands on
// the same shard as long as the shard list itself doesn't change.
func NewRedisMirror(addrs []string, keyPrefix string) (*RedisMirror, error) {
	if len(addrs) == 0 {
		return nil, ErrNoMirrorShards
	}
	if keyPrefix == "" {
		keyPrefix = "syslogng:window"
	}

	shards := make(map[string]*redis.Client, len(addrs))
	for _, a := range addrs {
		shards[a] = redis.NewClient(&redis.Options{Addr: a})
	}

	return &RedisMirror{
		rz:     rendezvous.New(addrs, fnvHash),
		shards: shards,
		prefix: keyPrefix,
	}, nil
}

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func (m *RedisMirror) key(connID string) string {
	return fmt.Sprintf("%s:%s", m.prefix, connID)
}

func (m *RedisMirror) shardFor(connID string) *redis.Client {
	return m.shards[m.rz.Lookup(connID)]
}

// Mirror publishes connID's current drawn/static-used credit to whichever
// shard rendezvous hashing assigns it to, with a TTL so a process that
// crashes without calling Forget doesn't leave a stale record forever.
func (m *RedisMirror) Mirror(ctx context.Context, connID string, drawn, staticUsed int) error {
	c := m.shardFor(connID)
	if c == nil {
		return fmt.Errorf("window: no redis mirror shard for %q", connID)
	}
	k := m.key(connID)
	if err := c.HSet(ctx, k, map[string]interface{}{
		"drawn":       drawn,
		"static_used": staticUsed,
	}).Err(); err != nil {
		return fmt.Errorf("window: mirror hset %s: %w", k, err)
	}
	return c.Expire(ctx, k, 5*time.Minute).Err()
}

// Forget removes connID's mirrored record, called from Detach.
func (m *RedisMirror) Forget(ctx context.Context, connID string) error {
	c := m.shardFor(connID)
	if c == nil {
		return nil
	}
	return c.Del(ctx, m.key(connID)).Err()
}

// Close releases every shard's client.
func (m *RedisMirror) Close() error {
	var first error
	for _, c := range m.shards {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

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

// Package queue implements the abstract FIFO contract shared by the
// in-memory and disk-backed queue implementations: push/peek/pop plus the
// ack/rewind backlog discipline a destination worker drives its delivery
// loop with (spec §3 "Queue").
package queue

import "github.com/syslog-ng/logcore/message"

// Entry pairs a message with the path options it carried through the
// pipeline (flow-control request, last filter match result).
type Entry struct {
	Message     message.Message
	PathOptions message.PathOptions
}

// Queue is the abstract FIFO every concrete backing (memory, disk) and every
// destination worker programs against (spec §3 "Queue").
//
// Popped entries are not gone: they remain in the backlog, the region
// between BacklogHead and ReadHead, until AckBacklog confirms delivery or
// RewindBacklog/RewindBacklogAll replays them.
type Queue interface {
	// PushTail appends an entry. It fails when the queue is at capacity;
	// the caller decides whether to drop, request flow control upstream, or
	// overflow to a secondary queue (spec §4.3 "push_tail").
	PushTail(e Entry) error

	// PeekHead returns the next unread entry without advancing ReadHead.
	PeekHead() (Entry, bool)

	// PopHead returns the next unread entry and advances ReadHead, moving
	// the entry into the backlog.
	PopHead() (Entry, bool)

	// AckBacklog advances BacklogHead by n logical messages, freeing the
	// space they occupied (spec §4.3 "ack_backlog").
	AckBacklog(n int) int

	// RewindBacklog moves ReadHead back toward BacklogHead by n messages so
	// a subsequent PopHead replays them.
	RewindBacklog(n int) int

	// RewindBacklogAll rewinds every unacknowledged entry.
	RewindBacklogAll() int

	// Length reports the number of unread entries (pushed but not yet
	// popped).
	Length() int

	// BacklogLength reports the number of popped-but-unacknowledged entries.
	BacklogLength() int

	// CheckItems reports whether entries are available without popping one.
	// It mirrors spec §4.6's `queue.check_items(&timeout_msec, wakeup_cb)`:
	// when the queue is empty, wakeup is retained and invoked exactly once
	// the next time PushTail makes an entry available.
	CheckItems(wakeup func()) bool
}

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

package worker

import (
	"context"

	"github.com/syslog-ng/logcore/queue"
)

// Inserter is the driver-specific part of a threaded destination: everything
// the spec leaves to "user code" (spec §4.6 "connect is user code returning
// success/failure"). One Inserter instance belongs to exactly one worker; it
// is never called from more than one goroutine at a time.
type Inserter interface {
	// Connect attempts to establish (or re-establish) the downstream
	// connection. A non-nil error means the worker suspends and schedules a
	// reconnect.
	Connect(ctx context.Context) error

	// Disconnect tears down the current connection. It must be idempotent.
	Disconnect()

	// Insert delivers one batch of entries and reports the outcome (spec
	// §4.6's result table). Insert must not retain batch past the call.
	Insert(ctx context.Context, batch []queue.Entry) InsertResult

	// Flush delivers anything buffered by a prior ResultQueued outcome.
	Flush(ctx context.Context, mode FlushMode) InsertResult
}

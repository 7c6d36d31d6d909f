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

package diskqueue

import (
	"fmt"

	liberr "github.com/syslog-ng/logcore/errors"
)

const (
	CodeQueueFull uint16 = 6300 + iota
	CodeOpenFailed
	CodeCorrupted
	CodeNotStarted
	CodeEncodeFailed
	CodeDecodeFailed
)

// ErrQueueFull is returned by PushTail when the on-disk ring has no room
// left for the new record within max_useful_space (spec §8 "Disk queue at
// exactly capacity: push_tail returns failure").
var ErrQueueFull = liberr.New(CodeQueueFull, "disk queue is at capacity")

// ErrNotStarted is returned by any operation attempted before Start or
// after Stop (spec §4.3 "start"/"stop").
var ErrNotStarted = liberr.New(CodeNotStarted, "disk queue is not started")

func errOpenFailed(path string, cause error) error {
	return liberr.New(CodeOpenFailed, fmt.Sprintf("cannot open disk queue file %q", path), cause)
}

func errCorrupted(path string, pos int64, cause error) error {
	return liberr.New(CodeCorrupted, fmt.Sprintf("corrupted disk queue record in %q at offset %d", path, pos), cause)
}

func errEncodeFailed(cause error) error {
	return liberr.New(CodeEncodeFailed, "cannot serialize message for disk queue", cause)
}

func errDecodeFailed(cause error) error {
	return liberr.New(CodeDecodeFailed, "cannot deserialize message read from disk queue", cause)
}

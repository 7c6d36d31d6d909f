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

// Package persist backs the narrow persistent-state seams other modules
// declare independently: destination/worker's SeqNumStore (the shared
// sequence counter surviving a restart) and source/afsocket's ReloadStore
// (the listen fd surviving a config reload). Neither seam names this
// package directly; a Store here satisfies both simply by implementing
// their method sets, the same way a single on-disk key/value table backs
// every persistent_state(...) name in the original engine.
package persist

// Store is the concrete persistent key/value surface every backend here
// implements. It is never referenced by name from destination/worker or
// source/afsocket: those packages depend only on their own narrower
// SeqNumStore/ReloadStore interfaces, and any Store satisfies both
// structurally.
type Store interface {
	// LoadSeqNum implements worker.SeqNumStore.
	LoadSeqNum(key string) (int64, bool)
	// StoreSeqNum implements worker.SeqNumStore.
	StoreSeqNum(key string, v int64) error

	// FetchListenFD implements afsocket.ReloadStore.
	FetchListenFD(key string) (fd int, ok bool)
	// StoreListenFD implements afsocket.ReloadStore.
	StoreListenFD(key string, fd int) error

	// Close releases any underlying resource (file handle, DB connection).
	Close() error
}

// namespace prefixes a caller-supplied key by kind, so a seqnum key and a
// listen-fd key that happen to share the same driver name (e.g. both named
// after "<driver>") never collide in one shared table.
func namespace(kind, key string) string {
	return kind + ":" + key
}

const (
	kindSeqNum   = "seqnum"
	kindListenFD = "listen_fd"
)

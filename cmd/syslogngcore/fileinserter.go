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

package main

import (
	"context"
	"os"

	"github.com/syslog-ng/logcore/destination/worker"
	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
)

// fileInserter is the reference worker.Inserter for a minimal static
// configuration: every destination with no other driver wired appends
// delivered lines to a plain file, one per message (the "connect is user
// code" slot spec §4.6 leaves open).
type fileInserter struct {
	path string
	log  logger.Logger
	f    *os.File
}

func newFileInserter(path string, log logger.Logger) *fileInserter {
	return &fileInserter{path: path, log: log}
}

// Connect opens (creating/truncating-safe append) the target file.
func (i *fileInserter) Connect(context.Context) error {
	f, err := os.OpenFile(i.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	i.f = f
	return nil
}

// Disconnect closes the file. It is idempotent.
func (i *fileInserter) Disconnect() {
	if i.f == nil {
		return
	}
	_ = i.f.Close()
	i.f = nil
}

// Insert appends each entry's MESSAGE value as one line.
func (i *fileInserter) Insert(_ context.Context, batch []queue.Entry) worker.InsertResult {
	if i.f == nil {
		return worker.ResultNotConnected
	}
	for _, entry := range batch {
		line := payloadOf(entry.Message)
		line = append(line, '\n')
		if _, err := i.f.Write(line); err != nil {
			i.log.Warning("fileinserter: write failed", err)
			return worker.ResultError
		}
	}
	return worker.ResultSuccess
}

// Flush has nothing buffered to flush: every Insert call above already
// wrote and the kernel page cache owns durability from there.
func (i *fileInserter) Flush(context.Context, worker.FlushMode) worker.InsertResult {
	return worker.ResultSuccess
}

func payloadOf(m message.Message) []byte {
	if v, ok := m.GetValue("MESSAGE"); ok {
		out := make([]byte, len(v.Raw))
		copy(out, v.Raw)
		return out
	}
	return nil
}

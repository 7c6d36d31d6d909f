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
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/runner/ticker"
	"github.com/syslog-ng/logcore/stats"
)

// DirWatcher keeps one disk_queue_dir_available_bytes gauge per watched
// directory fresh: a background ticker re-polls every directory on a fixed
// interval, and an fsnotify watch triggers an immediate out-of-band re-poll
// of a directory the moment a disk queue file is created, renamed or
// removed in it, rather than waiting out the remainder of the tick (spec
// §4.3 "process-wide ... free-space ... polling timer").
type DirWatcher struct {
	mu       sync.Mutex
	reg      *stats.Registry
	counters map[string]stats.Counter

	watcher *fsnotify.Watcher
	tck     ticker.Ticker
	log     logger.Logger

	stopWatch chan struct{}
}

// NewDirWatcher creates a DirWatcher registering its gauges against reg. It
// falls back to ticker-only polling (no fsnotify) if the platform's inotify
// (or equivalent) watch cannot be created, logging the reason once.
func NewDirWatcher(ctx context.Context, reg *stats.Registry, interval time.Duration) *DirWatcher {
	dw := &DirWatcher{
		reg:       reg,
		counters:  make(map[string]stats.Counter),
		log:       logger.New(ctx),
		stopWatch: make(chan struct{}),
	}
	if w, err := fsnotify.NewWatcher(); err != nil {
		dw.log.Warning("disk queue directory watch unavailable, falling back to polling only", err)
	} else {
		dw.watcher = w
	}
	dw.tck = ticker.New(interval, dw.pollAll)
	return dw
}

// WatchDir registers dir for free-space gauging and, if fsnotify is
// available, for immediate invalidation on filesystem events.
func (dw *DirWatcher) WatchDir(dir string) error {
	dw.mu.Lock()
	key := stats.NewKey("disk_queue_dir_available_bytes." + sanitizeDirTag(dir))
	if _, ok := dw.counters[dir]; !ok {
		_, cnt, err := dw.reg.RegisterCounter(stats.LevelNormal, key, stats.KindSingleValue, stats.CounterValue)
		if err != nil {
			dw.mu.Unlock()
			return err
		}
		dw.counters[dir] = cnt
	}
	dw.mu.Unlock()

	dw.pollDir(dir)

	if dw.watcher != nil {
		return dw.watcher.Add(dir)
	}
	return nil
}

func sanitizeDirTag(dir string) string {
	out := make([]byte, 0, len(dir))
	for i := 0; i < len(dir); i++ {
		c := dir[i]
		if c == '/' || c == '\\' || c == ' ' {
			c = '_'
		}
		out = append(out, c)
	}
	return string(out)
}

func (dw *DirWatcher) pollDir(dir string) {
	dw.mu.Lock()
	cnt, ok := dw.counters[dir]
	dw.mu.Unlock()
	if !ok {
		return
	}
	if avail, ok := availableBytes(dir); ok {
		cnt.Set(avail / bToKiB)
	}
}

func (dw *DirWatcher) pollAll(ctx context.Context, _ *time.Ticker) error {
	dw.mu.Lock()
	dirs := make([]string, 0, len(dw.counters))
	for d := range dw.counters {
		dirs = append(dirs, d)
	}
	dw.mu.Unlock()
	for _, d := range dirs {
		dw.pollDir(d)
	}
	return nil
}

// Start begins the periodic poll and, if available, the fsnotify event
// loop that triggers immediate re-polls.
func (dw *DirWatcher) Start(ctx context.Context) error {
	if dw.watcher != nil {
		go dw.watchLoop()
	}
	return dw.tck.Start(ctx)
}

func (dw *DirWatcher) watchLoop() {
	for {
		select {
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.pollDir(filepath.Dir(ev.Name))
		case <-dw.watcher.Errors:
		case <-dw.stopWatch:
			return
		}
	}
}

// Stop stops the ticker and the fsnotify watch.
func (dw *DirWatcher) Stop(ctx context.Context) error {
	close(dw.stopWatch)
	if dw.watcher != nil {
		dw.watcher.Close()
	}
	return dw.tck.Stop(ctx)
}

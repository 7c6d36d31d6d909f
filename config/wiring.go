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

package config

import (
	"context"

	"github.com/syslog-ng/logcore/control"
	"github.com/syslog-ng/logcore/destination/worker"
	"github.com/syslog-ng/logcore/diskqueue"
	"github.com/syslog-ng/logcore/httpscrape"
	"github.com/syslog-ng/logcore/source/afsocket"
)

// sourceComponent wires one AF_SOCKET driver into the engine. Reload stops
// and restarts the listener; with KeepAlive set the driver persists its
// listen fd and open connections across that cycle (spec §4.5), so the
// restart is not observable to connected peers.
type sourceComponent struct {
	key string
	drv *afsocket.Driver
}

func (c *sourceComponent) Type() string           { return "source.afsocket." + c.key }
func (c *sourceComponent) Dependencies() []string { return nil }
func (c *sourceComponent) Start(ctx context.Context) error { return c.drv.Start(ctx) }
func (c *sourceComponent) Stop(ctx context.Context) error  { return c.drv.Stop(ctx) }
func (c *sourceComponent) Reload(ctx context.Context) error {
	if err := c.drv.Stop(ctx); err != nil {
		return err
	}
	return c.drv.Start(ctx)
}

// destinationComponent wires one threaded destination driver into the
// engine. It depends on the disk-queue directory watcher so free-space
// gauges exist before the first batch is flushed.
type destinationComponent struct {
	key  string
	drv  *worker.Driver
	deps []string
}

func (c *destinationComponent) Type() string           { return "destination.worker." + c.key }
func (c *destinationComponent) Dependencies() []string { return c.deps }
func (c *destinationComponent) Start(ctx context.Context) error { return c.drv.Start(ctx) }
func (c *destinationComponent) Stop(ctx context.Context) error  { return c.drv.Stop(ctx) }
func (c *destinationComponent) Reload(ctx context.Context) error {
	if err := c.drv.Stop(ctx); err != nil {
		return err
	}
	return c.drv.Start(ctx)
}

// controlComponent wires the UNIX control socket into the engine. It is
// reload-inert: the socket itself carries no config, only live STATS/QUERY
// access to whatever the other components have already registered.
type controlComponent struct {
	srv *control.Server
}

func (c *controlComponent) Type() string                    { return "control" }
func (c *controlComponent) Dependencies() []string           { return nil }
func (c *controlComponent) Start(ctx context.Context) error  { return c.srv.Start(ctx) }
func (c *controlComponent) Stop(ctx context.Context) error   { return c.srv.Stop(ctx) }
func (c *controlComponent) Reload(context.Context) error     { return nil }

// scrapeComponent wires the HTTP scrape endpoint into the engine. Like
// controlComponent it holds no reloadable state of its own.
type scrapeComponent struct {
	srv *httpscrape.Server
}

func (c *scrapeComponent) Type() string                   { return "httpscrape" }
func (c *scrapeComponent) Dependencies() []string          { return nil }
func (c *scrapeComponent) Start(ctx context.Context) error { return c.srv.Start(ctx) }
func (c *scrapeComponent) Stop(ctx context.Context) error  { return c.srv.Stop(ctx) }
func (c *scrapeComponent) Reload(context.Context) error    { return nil }

// diskWatchComponent wires the disk-queue directory free-space poller into
// the engine (spec §6 `disk-buffer(dir-stats-freq)`).
type diskWatchComponent struct {
	dw   *diskqueue.DirWatcher
	dirs []string
}

func (c *diskWatchComponent) Type() string                   { return "disk-buffer.dirwatch" }
func (c *diskWatchComponent) Dependencies() []string          { return nil }
func (c *diskWatchComponent) Stop(ctx context.Context) error  { return c.dw.Stop(ctx) }
func (c *diskWatchComponent) Reload(context.Context) error    { return nil }
func (c *diskWatchComponent) Start(ctx context.Context) error {
	for _, dir := range c.dirs {
		if err := c.dw.WatchDir(dir); err != nil {
			return err
		}
	}
	return c.dw.Start(ctx)
}

// NewSourceComponent wraps drv, a running AF_SOCKET driver built from
// SourceOptions.AFSocketConfig, as an engine Component keyed by key.
func NewSourceComponent(key string, drv *afsocket.Driver) Component {
	return &sourceComponent{key: key, drv: drv}
}

// NewDestinationComponent wraps drv, a threaded destination driver built
// from DestinationOptions.WorkerConfig, as an engine Component. deps names
// components (typically a diskWatchComponent key) this destination waits on
// before Start.
func NewDestinationComponent(key string, drv *worker.Driver, deps []string) Component {
	return &destinationComponent{key: key, drv: drv, deps: deps}
}

// NewControlComponent wraps a running control socket server as an engine
// Component.
func NewControlComponent(srv *control.Server) Component {
	return &controlComponent{srv: srv}
}

// NewScrapeComponent wraps a running HTTP scrape server as an engine
// Component.
func NewScrapeComponent(srv *httpscrape.Server) Component {
	return &scrapeComponent{srv: srv}
}

// NewDiskWatchComponent wraps a disk-queue directory watcher as an engine
// Component, watching every directory in dirs once started.
func NewDiskWatchComponent(dw *diskqueue.DirWatcher, dirs []string) Component {
	return &diskWatchComponent{dw: dw, dirs: dirs}
}

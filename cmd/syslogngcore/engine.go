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
	"fmt"
	"path/filepath"
	"time"

	"github.com/syslog-ng/logcore/config"
	"github.com/syslog-ng/logcore/control"
	"github.com/syslog-ng/logcore/destination/worker"
	"github.com/syslog-ng/logcore/diskqueue"
	"github.com/syslog-ng/logcore/httpscrape"
	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/persist"
	"github.com/syslog-ng/logcore/queue"
	"github.com/syslog-ng/logcore/runner/ticker"
	"github.com/syslog-ng/logcore/source/afsocket"
	"github.com/syslog-ng/logcore/stats"
	"github.com/syslog-ng/logcore/stats/aggregator"
	"github.com/syslog-ng/logcore/window"
)

// runtime bundles everything buildEngine assembles, so main can drive the
// stop/reload signal handling against one value.
type runtime struct {
	eng    *config.Engine
	reg    *stats.Registry
	store  persist.Store
	stop   context.CancelFunc
	reload func() error
}

// buildEngine wires one config.Options into a ready-to-Start config.Engine:
// a shared stats.Registry, a persist.Store, one window.Pool and
// afsocket.Driver per source, one worker.Driver per destination (feeding a
// memory or disk-backed queue.Queue per worker), a router.Sink fanning every
// source into every destination whose filter accepts the message, plus the
// control socket and HTTP scrape endpoint.
func buildEngine(ctx context.Context, opt *config.Options, log logger.Logger, cancel context.CancelFunc) (*runtime, error) {
	reg := stats.NewRegistry(stats.Level(opt.Stats.Level), opt.Stats.MaxDynamic)

	store, err := buildStore(opt.PersistPath)
	if err != nil {
		return nil, err
	}

	eng := config.NewEngine()

	destRoutes := make([]route, 0, len(opt.Destinations))
	var watchDirs []string

	for _, d := range opt.Destinations {
		drv, dirs, err := buildDestination(ctx, d, reg, store, log)
		if err != nil {
			return nil, errBadDestination(d.Key, err)
		}
		eng.Register("destination."+d.Key, config.NewDestinationComponent(d.Key, drv, nil))
		watchDirs = append(watchDirs, dirs...)

		filterNode, err := d.FilterNode()
		if err != nil {
			return nil, errBadDestination(d.Key, err)
		}
		destRoutes = append(destRoutes, route{key: d.Key, filter: filterNode, driver: drv})
	}

	sink := newRouter(log, destRoutes)

	for _, s := range opt.Sources {
		drv, err := buildSource(ctx, s, sink, reg, store, log)
		if err != nil {
			return nil, errBadSource(s.Key, err)
		}
		eng.Register("source."+s.Key, config.NewSourceComponent(s.Key, drv))
	}

	if len(watchDirs) > 0 {
		dw := diskqueue.NewDirWatcher(ctx, reg, opt.DiskBuffer.DirStatsFreq)
		eng.Register("disk-buffer", config.NewDiskWatchComponent(dw, watchDirs))
	}

	ctrlSrv, rt := buildControl(opt.Control, reg, log, cancel)
	if ctrlSrv != nil {
		eng.Register("control", config.NewControlComponent(ctrlSrv))
	}
	rt.reload = func() error { return eng.Reload(ctx) }

	if opt.HTTPScrape.Listen != "" {
		scrapeSrv, err := httpscrape.NewServer(opt.HTTPScrape, reg, log)
		if err != nil {
			return nil, err
		}
		eng.Register("scrape", config.NewScrapeComponent(scrapeSrv))
	}

	rt.eng, rt.reg, rt.store = eng, reg, store
	return rt, nil
}

func buildStore(path string) (persist.Store, error) {
	if path == "" {
		return persist.NewMemory(), nil
	}
	return persist.OpenSQLite(path)
}

func buildSource(ctx context.Context, s config.SourceOptions, sink afsocket.Sink, reg *stats.Registry, store persist.Store, log logger.Logger) (*afsocket.Driver, error) {
	win, err := window.NewPool(ctx, s.WindowConfig())
	if err != nil {
		return nil, err
	}

	if len(s.DynamicWindowMirrorAddrs) > 0 {
		mirror, err := window.NewRedisMirror(s.DynamicWindowMirrorAddrs, "source."+s.Key)
		if err != nil {
			return nil, err
		}
		win.SetMirror(mirror)
	}

	win.BindCounters(
		mustCounter(reg, "source."+s.Key+".dynamic_window.pool_size"),
		mustCounter(reg, "source."+s.Key+".dynamic_window.pool_remaining"),
		mustCounter(reg, "source."+s.Key+".dynamic_window.balanced_window"),
		mustCounter(reg, "source."+s.Key+".dynamic_window.connections"),
	)

	afCfg, err := s.AFSocketConfig(win)
	if err != nil {
		return nil, err
	}

	drv, err := afsocket.New(ctx, afCfg, sink)
	if err != nil {
		return nil, err
	}
	drv.BindCounters(
		mustCounter(reg, "source."+s.Key+".connections"),
		mustCounter(reg, "source."+s.Key+".rejected_connections"),
		mustCounter(reg, "source."+s.Key+".socket_dropped"),
		mustCounter(reg, "source."+s.Key+".socket_buf_max"),
		mustCounter(reg, "source."+s.Key+".socket_buf_used"),
	)
	drv.BindReloadStore(store, s.Key)
	return drv, nil
}

const diskQueueMaxUsefulSpace = 100 * 1024 * 1024

func buildDestination(ctx context.Context, d config.DestinationOptions, reg *stats.Registry, store persist.Store, log logger.Logger) (*worker.Driver, []string, error) {
	numWorkers := d.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}

	queues := make([]queue.Queue, numWorkers)
	var dirs []string
	for i := 0; i < numWorkers; i++ {
		prefix := fmt.Sprintf("destination.%s.worker%d.queue", d.Key, i)
		if d.QueueDir == "" {
			mq := queue.NewMemory(10000)
			mq.BindCounters(mustCounter(reg, prefix+".queued"), mustCounter(reg, prefix+".processed"), mustCounter(reg, prefix+".dropped"))
			queues[i] = mq
			continue
		}
		path := filepath.Join(d.QueueDir, fmt.Sprintf("%s-worker-%d.q", d.Key, i))
		dq, err := diskqueue.Open(ctx, path, diskQueueMaxUsefulSpace)
		if err != nil {
			return nil, nil, err
		}
		dq.BindCounters(
			mustCounter(reg, prefix+".capacity"),
			mustCounter(reg, prefix+".disk_usage"),
			mustCounter(reg, prefix+".disk_allocated"),
			mustCounter(reg, prefix+".queued"),
			mustCounter(reg, prefix+".processed"),
			mustCounter(reg, prefix+".dropped"),
		)
		queues[i] = dq
	}
	if d.QueueDir != "" {
		dirs = append(dirs, d.QueueDir)
	}

	drv, err := worker.New(ctx, d.WorkerConfig(), queues, func(id int) worker.Inserter {
		path := d.OutputPath
		if path == "" {
			path = filepath.Join(".", d.Key+".out")
		}
		return newFileInserter(path, log)
	})
	if err != nil {
		return nil, nil, err
	}
	drv.BindSeqNumStore(store, d.Key)

	dm := drv.Metrics()
	dm.EventsDelivered = mustCounter(reg, "destination."+d.Key+".events_delivered")
	dm.EventsDropped = mustCounter(reg, "destination."+d.Key+".events_dropped")
	dm.EventsQueued = mustCounter(reg, "destination."+d.Key+".events_queued")
	dm.Retries = mustCounter(reg, "destination."+d.Key+".retries")
	dm.Processed = mustCounter(reg, "destination."+d.Key+".processed")

	cpsCounter := mustCounter(reg, "destination."+d.Key+".events_delivered_per_min")
	cps := aggregator.NewChangePerSecond(dm.EventsDelivered.Get, 0)
	cpsTick := ticker.New(time.Minute, func(context.Context, *time.Ticker) error {
		cps.Tick(time.Now())
		return cpsCounter.Set(cps.Output())
	})
	if err := cpsTick.Start(ctx); err != nil {
		return nil, nil, err
	}

	return drv, dirs, nil
}

func buildControl(opt config.ControlOptions, reg *stats.Registry, log logger.Logger, cancel context.CancelFunc) (*control.Server, *runtime) {
	rt := &runtime{stop: cancel}
	if opt.Path == "" {
		return nil, rt
	}

	hooks := control.Hooks{
		Stats:      func() string { return dumpStats(reg) },
		ResetStats: reg.ResetNonExternal,
		Stop:       func() { cancel() },
		Reload:     func() { _ = rt.reload() },
		Query: func(sub, pattern string) (string, error) {
			return stats.Query(reg, sub, pattern)
		},
	}
	handler := control.NewHandler(hooks)
	return control.NewServer(opt.Path, handler, log), rt
}

func dumpStats(reg *stats.Registry) string {
	out := ""
	for _, name := range reg.List("*") {
		for _, r := range reg.Get(name) {
			out += fmt.Sprintf("%s.%s=%d\n", r.Key, r.Counter, r.Value)
		}
	}
	return out
}

func mustCounter(reg *stats.Registry, name string) stats.Counter {
	_, c, err := reg.RegisterCounter(stats.LevelNormal, stats.NewKey(name), stats.KindSingleValue, stats.CounterValue)
	if err != nil {
		return stats.NullCounter
	}
	return c
}

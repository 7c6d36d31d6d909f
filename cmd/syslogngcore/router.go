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
	"github.com/syslog-ng/logcore/destination/worker"
	"github.com/syslog-ng/logcore/filter"
	"github.com/syslog-ng/logcore/logger"
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/queue"
)

// route is one destination a router hands a message to when its filter
// (nil meaning "match everything") accepts it.
type route struct {
	key    string
	filter filter.Node
	driver *worker.Driver
}

// router is the log path between a source's AF_SOCKET driver and every
// destination worker driver it feeds: the afsocket.Sink the source pushes
// into, fanning a message out to each route whose filter matches (spec §4.2
// "a filter expression gates whether a log path's destination receives the
// message").
type router struct {
	routes []route
	log    logger.Logger
}

func newRouter(log logger.Logger, routes []route) *router {
	return &router{log: log, routes: routes}
}

// PushTail implements afsocket.Sink.
func (r *router) PushTail(e queue.Entry) error {
	messages := []message.Message{e.Message}
	for _, rt := range r.routes {
		if rt.filter != nil && !rt.filter.Eval(messages) {
			continue
		}
		if err := rt.driver.PushTail(e); err != nil {
			r.log.Warning("router: destination "+rt.key+" rejected message", err)
		}
	}
	return nil
}

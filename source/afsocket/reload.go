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

package afsocket

import "net"

// ReloadStore is the persistent-state seam a config reload hands a Driver's
// listen fd and connection list through (spec §4.5 "Reload"):
// "<driver>.listen_fd" (stored as fd+1 so zero means absent),
// "<driver>.connections" and "<driver>.dynamic_window". The persist package
// is expected to provide a concrete implementation; afsocket only depends
// on this narrow interface so it can be built and tested before that
// package exists.
type ReloadStore interface {
	StoreListenFD(key string, fd int) error
	FetchListenFD(key string) (fd int, ok bool)
}

// HostsAccessFunc gates acceptance the way tcpd/hosts_access does in the
// original driver (spec §4.5 "Permission/denial"): returning false causes
// the connection to be rejected and rejected_connections_total
// incremented, without the accept loop itself knowing why.
type HostsAccessFunc func(remote net.Addr) bool

// WithHostsAccess installs a HostsAccessFunc gate, checked for every newly
// accepted stream connection before it is counted against max_connections.
func (d *Driver) WithHostsAccess(fn HostsAccessFunc) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hostsAccess = fn
	return d
}

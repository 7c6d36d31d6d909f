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

// Package config wires the running engine's parts (sources, destinations,
// control socket, scrape endpoint) behind one dependency-ordered lifecycle:
// Start brings components up in dependency order, Reload pushes a new Viper
// snapshot through every component without dropping already-accepted
// connections, and Stop tears down in reverse order.
package config

import (
	"context"
)

// Component is one managed part of the running engine: an AF_SOCKET
// listener, a destination worker pool, the control socket, the scrape
// endpoint. Engine drives every registered Component through the same
// Start/Reload/Stop sequence.
type Component interface {
	// Type identifies the component for logging, e.g. "source.afsocket" or
	// "destination.worker".
	Type() string

	// Dependencies lists the keys of components that must be started before
	// this one, and stopped after it.
	Dependencies() []string

	// Start brings the component up using the current configuration.
	Start(ctx context.Context) error

	// Reload is called after the Viper instance has re-read its source. The
	// component must apply the new configuration without a disruptive
	// restart where the underlying driver allows it.
	Reload(ctx context.Context) error

	// Stop shuts the component down. It must not block past ctx's deadline.
	Stop(ctx context.Context) error
}

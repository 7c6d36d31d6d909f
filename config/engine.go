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
	"fmt"
	"sync"
	"time"

	liberr "github.com/syslog-ng/logcore/errors"
)

// Engine owns the registered components and runs them through an ordered
// Start, a dependency-respecting Reload and a reverse-order Stop. Failed
// dependency starts are retried a few times before giving up, since a
// destination worker racing a still-initializing queue directory is common
// at process boot.
type Engine struct {
	m   sync.Mutex
	cpt map[string]Component
	ord []string
}

// NewEngine returns an empty Engine ready for Register calls.
func NewEngine() *Engine {
	return &Engine{cpt: make(map[string]Component)}
}

// Register adds a component under key. Registration order is preserved as
// the default start order for components with no explicit Dependencies.
func (e *Engine) Register(key string, cpt Component) {
	e.m.Lock()
	defer e.m.Unlock()

	if _, exists := e.cpt[key]; !exists {
		e.ord = append(e.ord, key)
	}
	e.cpt[key] = cpt
}

// Get returns the component registered under key, or nil.
func (e *Engine) Get(key string) Component {
	e.m.Lock()
	defer e.m.Unlock()
	return e.cpt[key]
}

func (e *Engine) keys() []string {
	e.m.Lock()
	defer e.m.Unlock()
	out := make([]string, len(e.ord))
	copy(out, e.ord)
	return out
}

func (e *Engine) get(key string) Component {
	e.m.Lock()
	defer e.m.Unlock()
	return e.cpt[key]
}

func (e *Engine) startOne(ctx context.Context, key string, started map[string]bool) liberr.Error {
	if started[key] {
		return nil
	}

	cpt := e.get(key)
	if cpt == nil {
		return ErrorComponentNotFound.Error(fmt.Errorf("component: %s", key))
	}

	for _, dep := range cpt.Dependencies() {
		var err liberr.Error
		for retry := 0; retry < 3; retry++ {
			if err = e.startOne(ctx, dep, started); err == nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if err != nil {
			return err
		}
	}

	if err := cpt.Start(ctx); err != nil {
		return ErrorComponentStart.Error(fmt.Errorf("component %q: %w", key, err))
	}

	started[key] = true
	return nil
}

// Start brings every registered component up, a component's Dependencies
// before the component itself. It stops at the first failure; components
// already started are left running so Stop can still tear them down.
func (e *Engine) Start(ctx context.Context) liberr.Error {
	started := make(map[string]bool)
	for _, key := range e.keys() {
		if err := e.startOne(ctx, key, started); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) reloadOne(ctx context.Context, key string, reloaded map[string]bool) liberr.Error {
	if reloaded[key] {
		return nil
	}

	cpt := e.get(key)
	if cpt == nil {
		return ErrorComponentNotFound.Error(fmt.Errorf("component: %s", key))
	}

	for _, dep := range cpt.Dependencies() {
		if err := e.reloadOne(ctx, dep, reloaded); err != nil {
			return err
		}
	}

	if err := cpt.Reload(ctx); err != nil {
		return ErrorComponentReload.Error(fmt.Errorf("component %q: %w", key, err))
	}

	reloaded[key] = true
	return nil
}

// Reload pushes a fresh configuration through every component in the same
// dependency order as Start.
func (e *Engine) Reload(ctx context.Context) liberr.Error {
	reloaded := make(map[string]bool)
	for _, key := range e.keys() {
		if err := e.reloadOne(ctx, key, reloaded); err != nil {
			return err
		}
	}
	return nil
}

// Stop shuts every component down in reverse registration order, ignoring
// individual errors so one stuck component cannot block the others from
// being asked to stop.
func (e *Engine) Stop(ctx context.Context) {
	keys := e.keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if cpt := e.get(keys[i]); cpt != nil {
			_ = cpt.Stop(ctx)
		}
	}
}

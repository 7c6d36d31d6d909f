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

package filter

import (
	"sync"

	"github.com/syslog-ng/logcore/message"
)

// Rules is a named-filter-rule registry, resolved lazily by Call nodes so
// that filters may reference rules defined later in the same configuration
// (spec §4.2 "Filter call").
type Rules struct {
	mu    sync.Mutex
	rules map[string]Node
}

// NewRules builds an empty named-filter-rule registry.
func NewRules() *Rules {
	return &Rules{rules: make(map[string]Node)}
}

// Define registers name as an alias for root. Define does not itself
// detect cycles; cycle detection happens when a Call node referencing the
// definition is initialized (spec §4.2 "Error conditions").
func (r *Rules) Define(name string, root Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = root
}

func (r *Rules) lookup(name string) (Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rules[name]
	return n, ok
}

// Call references another filter rule by name (spec §4.2 "Filter call").
// At init time it recursively initializes the target's expression,
// detecting cycles via a visited flag set during descent.
type Call struct {
	Base
	rules  *Rules
	name   string
	target Node
}

// NewCall resolves name against rules and builds a Call node. It fails
// with "referenced filter not found" if the target is missing, or "cycle
// in filter rule" if resolving the target re-enters name (spec §4.2).
func NewCall(rules *Rules, name string, negate bool) (*Call, error) {
	target, ok := rules.lookup(name)
	if !ok {
		return nil, errFilterNotFound(name)
	}
	if err := detectCycle(rules, name, make(map[string]bool)); err != nil {
		return nil, err
	}
	return &Call{Base: NewBase(negate, target.ModifiesMessage()), rules: rules, name: name, target: target}, nil
}

// detectCycle walks the Call chain starting at name, failing if name is
// reached a second time. Non-Call nodes are leaves for this walk: a cycle
// can only be introduced by a chain of named references.
func detectCycle(rules *Rules, name string, visited map[string]bool) error {
	if visited[name] {
		return errFilterCycle(name)
	}
	visited[name] = true

	target, ok := rules.lookup(name)
	if !ok {
		return errFilterNotFound(name)
	}
	if call, ok := target.(*Call); ok {
		return detectCycle(rules, call.name, visited)
	}
	return nil
}

func (c *Call) Eval(messages []message.Message) bool {
	return evalNode(&c.Base, c, messages)
}

func (c *Call) Children() []Node { return []Node{c.target} }

func (c *Call) evaluate(messages []message.Message) bool {
	return c.target.Eval(messages)
}

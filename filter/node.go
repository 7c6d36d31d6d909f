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

// Package filter implements the filter expression engine: comparison,
// regex-match, netmask, facility/severity and named-filter-call nodes,
// composed into trees by the log path and evaluated against a message
// window (spec §4.2).
package filter

import (
	"github.com/syslog-ng/logcore/message"
	"github.com/syslog-ng/logcore/stats"
)

// Node is one filter expression node. Eval receives the full message window
// for the current evaluation (messages[len(messages)-1] is the primary
// message; older entries provide correlation context) and returns the final,
// negation-applied result.
type Node interface {
	Eval(messages []message.Message) bool
	Negate() bool
	ModifiesMessage() bool
	// Children exposes a node's operands for the generic traversal walker.
	// Leaf nodes return nil.
	Children() []Node
}

// evaluator is implemented by every concrete node; Base.finish wraps its raw
// result with negation and the matched/not-matched counters.
type evaluator interface {
	evaluate(messages []message.Message) bool
}

// Base carries the bookkeeping common to every node: negate, the
// modifies-message flag, and the matched/not-matched counters registered
// under stats (spec §4.2 "Each node carries ... two stats counters").
type Base struct {
	negate          bool
	modifiesMessage bool
	matched         stats.Counter
	notMatched      stats.Counter
}

// NewBase builds a Base. negate inverts the evaluation result; modifies
// marks that Eval may mutate messages[len(messages)-1] (the caller must
// have made it writable beforehand).
func NewBase(negate, modifies bool) Base {
	return Base{negate: negate, modifiesMessage: modifies}
}

// BindCounters attaches the matched/not-matched counters for this node,
// typically obtained from a stats.Registry keyed by the filter's name.
func (b *Base) BindCounters(matched, notMatched stats.Counter) {
	b.matched = matched
	b.notMatched = notMatched
}

func (b *Base) Negate() bool { return b.negate }

func (b *Base) ModifiesMessage() bool { return b.modifiesMessage }

// finish applies the negate XOR and increments the appropriate counter,
// per the public contract in spec §4.2: "The result is XORed with
// node.negate before return. Each evaluation increments matched or
// not-matched on the node."
func (b *Base) finish(raw bool) bool {
	result := raw != b.negate
	if result {
		incIfBound(b.matched)
	} else {
		incIfBound(b.notMatched)
	}
	return result
}

func incIfBound(c stats.Counter) {
	if c != nil {
		c.Inc()
	}
}

// Eval runs e.evaluate and wraps the result via base.finish. Concrete node
// types embed Base and call this from their own Eval method.
func evalNode(base *Base, e evaluator, messages []message.Message) bool {
	return base.finish(e.evaluate(messages))
}

// Walk visits root and every descendant in pre-order, calling fn for each.
// fn returning false stops the traversal of that branch's children (but not
// its siblings), mirroring the generic optimizer walker named in spec §4.2.
func Walk(root Node, fn func(Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, c := range root.Children() {
		Walk(c, fn)
	}
}

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
	"github.com/syslog-ng/logcore/message"
)

// And is a compound node combining two operands with short-circuit
// evaluation, the generic combinator every leaf variant in spec §4.2 is
// composed with to build a filter expression tree.
type And struct {
	Base
	left, right Node
}

// NewAnd builds an And node. left is always evaluated; right is evaluated
// only if left's raw result (pre-negate) is true.
func NewAnd(left, right Node, negate bool) *And {
	return &And{Base: NewBase(negate, left.ModifiesMessage() || right.ModifiesMessage()), left: left, right: right}
}

func (a *And) Eval(messages []message.Message) bool {
	return evalNode(&a.Base, a, messages)
}

func (a *And) Children() []Node { return []Node{a.left, a.right} }

func (a *And) evaluate(messages []message.Message) bool {
	return a.left.Eval(messages) && a.right.Eval(messages)
}

// Or is a compound node combining two operands with short-circuit
// evaluation.
type Or struct {
	Base
	left, right Node
}

// NewOr builds an Or node. left is always evaluated; right is evaluated
// only if left's raw result (pre-negate) is false.
func NewOr(left, right Node, negate bool) *Or {
	return &Or{Base: NewBase(negate, left.ModifiesMessage() || right.ModifiesMessage()), left: left, right: right}
}

func (o *Or) Eval(messages []message.Message) bool {
	return evalNode(&o.Base, o, messages)
}

func (o *Or) Children() []Node { return []Node{o.left, o.right} }

func (o *Or) evaluate(messages []message.Message) bool {
	return o.left.Eval(messages) || o.right.Eval(messages)
}

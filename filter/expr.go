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
	"fmt"

	"github.com/syslog-ng/logcore/message"
)

// Expr is a template-evaluated expression: something that reduces a message
// window to a typed value. The template language itself is an external
// collaborator (spec §6 Non-goals "template language interpreter"); this
// package only depends on the small interface its comparison and
// regex-match nodes need. Expr returns message.Value rather than a bare
// string so Comparison's type-aware mode can branch on Value.Type instead
// of guessing it back from raw text.
type Expr interface {
	Eval(messages []message.Message) message.Value
}

// exprFunc adapts a plain function to Expr.
type exprFunc func(messages []message.Message) message.Value

func (f exprFunc) Eval(messages []message.Message) message.Value { return f(messages) }

// Static returns an Expr that ignores the message window and always
// produces a string-typed value s, for filter literals (e.g. the
// right-hand side of `"${PID}" == "1234"`).
func Static(s string) Expr {
	v := message.Value{Type: message.TypeString, Raw: []byte(s)}
	return exprFunc(func([]message.Message) message.Value { return v })
}

// ValueOf returns an Expr that looks up a named value on the primary
// message (messages[len(messages)-1]), producing a null value if absent.
func ValueOf(name string) Expr {
	return exprFunc(func(messages []message.Message) message.Value {
		if len(messages) == 0 {
			return message.Value{Type: message.TypeNull}
		}
		v, ok := messages[len(messages)-1].GetValue(name)
		if !ok {
			return message.Value{Type: message.TypeNull}
		}
		return v
	})
}

// ProgramMessage is the synthetic "<program>[<pid>]: <message>" string used
// by the regex-match node when neither a value name nor a template is
// configured (spec §4.2 "Regex match").
func ProgramMessage() Expr {
	return exprFunc(func(messages []message.Message) message.Value {
		if len(messages) == 0 {
			return message.Value{Type: message.TypeString}
		}
		m := messages[len(messages)-1]
		program, _ := m.GetValue("PROGRAM")
		pid, _ := m.GetValue("PID")
		msg, _ := m.GetValue("MESSAGE")
		s := fmt.Sprintf("%s[%s]: %s", program.Raw, pid.Raw, msg.Raw)
		return message.Value{Type: message.TypeString, Raw: []byte(s)}
	})
}

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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/syslog-ng/logcore/message"
)

// CompareMode selects how Comparison interprets its two operands. The low
// bits (CmpEQ/CmpLT/CmpGT) form the op_mask; exactly one of the mode bits
// (CmpStringBased/CmpNumBased/CmpTypeAware/CmpTypeAndValueBased) selects the
// comparison semantics (spec §4.2 "Comparison", grounded on
// filter-cmp.h's FCMP_* bitmask).
type CompareMode uint16

const (
	CmpEQ CompareMode = 1 << iota
	CmpLT
	CmpGT
	CmpTypeAware
	CmpStringBased
	CmpNumBased
	CmpTypeAndValueBased
)

const cmpOpMask = CmpEQ | CmpLT | CmpGT
const cmpModeMask = CmpTypeAware | CmpStringBased | CmpNumBased | CmpTypeAndValueBased

// CompatLevel selects the configuration-time compare_mode rewrite rule
// (spec §4.2 "A compatibility rule applies"). These are rewrites decided at
// construction time, never re-checked at eval time.
type CompatLevel int

const (
	CompatCurrent CompatLevel = iota
	CompatOlderThan40
	CompatOlderThan38
)

// rewriteForCompat applies the configuration-time compat-level rewrite: a
// type-aware mode older than 4.0 reduces to numeric; older than 3.8 reduces
// further to string-based.
func rewriteForCompat(mode CompareMode, compat CompatLevel) CompareMode {
	if mode&cmpModeMask != CmpTypeAware {
		return mode
	}
	op := mode & cmpOpMask
	switch compat {
	case CompatOlderThan38:
		return op | CmpStringBased
	case CompatOlderThan40:
		return op | CmpNumBased
	default:
		return mode
	}
}

// Comparison evaluates two Expr operands under a CompareMode (spec §4.2).
type Comparison struct {
	Base
	left, right Expr
	mode        CompareMode
}

// NewComparison builds a Comparison node, applying the compat-level
// rewrite to mode before storing it.
func NewComparison(left, right Expr, mode CompareMode, compat CompatLevel, negate bool) *Comparison {
	c := &Comparison{Base: NewBase(negate, false), left: left, right: right, mode: rewriteForCompat(mode, compat)}
	return c
}

func (c *Comparison) Eval(messages []message.Message) bool {
	return evalNode(&c.Base, c, messages)
}

func (c *Comparison) Children() []Node { return nil }

func (c *Comparison) evaluate(messages []message.Message) bool {
	l := c.left.Eval(messages)
	r := c.right.Eval(messages)

	switch c.mode & cmpModeMask {
	case CmpStringBased:
		return applyOp(c.mode, compareBytes(string(l.Raw), string(r.Raw)))
	case CmpNumBased:
		return applyOp(c.mode, compareNumeric(string(l.Raw), string(r.Raw)))
	case CmpTypeAndValueBased:
		return applyOp(c.mode, compareTypeAndValue(string(l.Raw), string(r.Raw)))
	case CmpTypeAware:
		return c.evaluateTypeAware(l, r)
	default:
		return applyOp(c.mode, compareBytes(string(l.Raw), string(r.Raw)))
	}
}

// evaluateTypeAware implements spec §4.2's type-aware mode: operands with
// the same string-like or bytes-like type (message.Value.IsStringLike)
// compare as raw bytes; anything else falls through to numeric coercion,
// where null becomes 0, booleans become 0/1 and datetimes become
// milliseconds since the Unix epoch (numericValue).
func (c *Comparison) evaluateTypeAware(l, r message.Value) bool {
	lNull, rNull := l.Type == message.TypeNull, r.Type == message.TypeNull
	op := c.mode & cmpOpMask

	if lNull || rNull {
		switch op {
		case CmpEQ:
			return lNull && rNull
		case CmpLT | CmpGT:
			return lNull != rNull
		default:
			// falls through to numeric coercion, matching the spec's
			// "other ops fall through to numeric coercion" rule
		}
	} else if l.IsStringLike() && r.IsStringLike() {
		return applyOp(c.mode, compareBytes(string(l.Raw), string(r.Raw)))
	}

	ln, lOK := numericValue(l)
	rn, rOK := numericValue(r)
	if !lOK || !rOK || math.IsNaN(ln) || math.IsNaN(rn) {
		return op == (CmpLT | CmpGT)
	}
	return applyOp(c.mode, compareFloat(ln, rn))
}

// numericValue is evaluateTypeAware's numeric-coercion fallback for
// operands that are not both string-like: null coerces to 0, booleans to
// 0/1, and datetimes (RFC3339Nano text, the convention the rest of this
// tree formats timestamps with) to milliseconds since the Unix epoch.
// Everything else parses the same way the numeric-based mode does.
func numericValue(v message.Value) (float64, bool) {
	switch v.Type {
	case message.TypeNull:
		return 0, true
	case message.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(string(v.Raw))) {
		case "", "0", "false":
			return 0, true
		default:
			return 1, true
		}
	case message.TypeDatetime:
		t, err := time.Parse(time.RFC3339Nano, string(v.Raw))
		if err != nil {
			return math.NaN(), false
		}
		return float64(t.UnixMilli()), true
	default:
		return parseNumber(string(v.Raw))
	}
}

func applyOp(mode CompareMode, cmp int) bool {
	op := mode & cmpOpMask
	switch {
	case cmp == 0:
		return op&CmpEQ != 0
	case cmp < 0:
		return op&CmpLT != 0
	default:
		return op&CmpGT != 0
	}
}

func compareBytes(l, r string) int {
	n := len(l)
	if len(r) < n {
		n = len(r)
	}
	if c := strings.Compare(l[:n], r[:n]); c != 0 {
		return c
	}
	switch {
	case len(l) == len(r):
		return 0
	case len(l) < len(r):
		return -1
	default:
		return 1
	}
}

func compareTypeAndValue(l, r string) int {
	if l == r {
		return 0
	}
	return compareBytes(l, r)
}

func compareNumeric(l, r string) int {
	ln, _ := parseNumber(l)
	rn, _ := parseNumber(r)
	return compareFloat(ln, rn)
}

func compareFloat(l, r float64) int {
	switch {
	case l == r:
		return 0
	case l < r:
		return -1
	default:
		return 1
	}
}

// parseNumber is the generic integer-or-double parser cited by spec §4.2's
// numeric-based comparison mode. An unparseable operand becomes NaN, the
// same convention the type-aware mode relies on to drive its NaN
// short-circuit.
func parseNumber(s string) (float64, bool) {
	if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f, true
	}
	return math.NaN(), false
}

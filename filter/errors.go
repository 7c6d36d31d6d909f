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

	liberr "github.com/syslog-ng/logcore/errors"
)

// Error codes registered by this package into the shared errors.Error
// surface (spec §4.2 "Error conditions").
const (
	CodeFilterNotFound uint16 = 6100 + iota
	CodeFilterCycle
	CodeRegexCompileFailed
)

func errFilterNotFound(name string) error {
	return liberr.New(CodeFilterNotFound, fmt.Sprintf("referenced filter not found: %q", name))
}

func errFilterCycle(name string) error {
	return liberr.New(CodeFilterCycle, fmt.Sprintf("cycle in filter rule: %q", name))
}

func errRegexCompile(pattern string, cause error) error {
	return liberr.New(CodeRegexCompileFailed, fmt.Sprintf("regex compile failed for %q", pattern), cause)
}

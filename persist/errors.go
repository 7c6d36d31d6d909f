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

package persist

import (
	"fmt"

	liberr "github.com/syslog-ng/logcore/errors"
)

const (
	CodeOpenFailed uint16 = 6700 + iota
	CodeMigrateFailed
	CodeWriteFailed
)

func errOpenFailed(path string, cause error) error {
	return liberr.New(CodeOpenFailed, fmt.Sprintf("cannot open persistent store %q", path), cause)
}

func errMigrateFailed(cause error) error {
	return liberr.New(CodeMigrateFailed, "cannot migrate persistent store schema", cause)
}

func errWriteFailed(key string, cause error) error {
	return liberr.New(CodeWriteFailed, fmt.Sprintf("cannot persist value for key %q", key), cause)
}

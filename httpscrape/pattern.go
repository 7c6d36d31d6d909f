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

package httpscrape

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/syslog-ng/logcore/stats"
)

// ParsePattern splits a "METHOD /path*" pattern into its method and path
// glob. The method half has no wildcard support, only the path half does.
func ParsePattern(pattern string) (method, pathGlob string, err error) {
	fields := strings.Fields(pattern)
	if len(fields) != 2 {
		return "", "", errBadPattern(pattern, fmt.Errorf("expected \"METHOD /path\", got %q", pattern))
	}
	return strings.ToUpper(fields[0]), fields[1], nil
}

// matchRequest reports whether r matches pattern's method and glob path,
// reusing the query layer's single-segment glob matcher (stats.GlobMatchString)
// so "*"/"?" behave identically to QUERY patterns.
func matchRequest(pattern string, r *http.Request) bool {
	method, pathGlob, err := ParsePattern(pattern)
	if err != nil {
		return false
	}
	if r.Method != method {
		return false
	}
	return stats.GlobMatchString(pathGlob, r.URL.Path)
}

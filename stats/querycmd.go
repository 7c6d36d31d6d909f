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

package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// Query dispatches a QUERY <sub> <pattern> command (spec §6) against a
// registry, shared by the control socket and the HTTP scrape endpoint so
// both surfaces answer QUERY identically.
func Query(r *Registry, sub, pattern string) (string, error) {
	switch sub {
	case "GET":
		results := r.Get(pattern)
		var b strings.Builder
		for _, res := range results {
			fmt.Fprintf(&b, "%s.%s=%d\n", res.Key, res.Counter, res.Value)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	case "GET_SUM":
		return strconv.FormatInt(r.GetSum(pattern), 10), nil
	case "LIST":
		return strings.Join(r.List(pattern), "\n"), nil
	default:
		return "", fmt.Errorf("unknown QUERY sub-command %q", sub)
	}
}

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

// Package httpscrape implements the HTTP scrape endpoint of spec §6: a
// single route matched against a configured "METHOD /path*" glob pattern,
// answering with a stats snapshot in prometheus, csv or kv format, or by
// running a QUERY command, subject to a scrape frequency limit and an
// optional single-instance admission guard.
package httpscrape

import (
	"fmt"
	"time"
)

// Format selects the body rendering of a scrape reply.
type Format string

const (
	FormatPrometheus Format = "prometheus"
	FormatCSV        Format = "csv"
	FormatKV         Format = "kv"
)

// Config describes one scrape listener.
type Config struct {
	// Name identifies the listener in logs.
	Name string

	// Listen is the local bind address, e.g. "127.0.0.1:8081".
	Listen string

	// Pattern is a "METHOD /path*" glob matched against incoming requests,
	// e.g. "GET /metrics*" (spec §6).
	Pattern string

	// Format selects how a bare scrape (no QUERY parameters) is rendered.
	Format Format

	// ScrapeFreqLimit rejects a request with 429 if it arrives sooner than
	// this duration after the last accepted request.
	ScrapeFreqLimit time.Duration

	// SingleInstance refuses concurrent in-flight requests with an early
	// 429 on whichever request is already being served.
	SingleInstance bool
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("httpscrape: Listen is required")
	}
	if c.Pattern == "" {
		return fmt.Errorf("httpscrape: Pattern is required")
	}
	if _, _, err := ParsePattern(c.Pattern); err != nil {
		return err
	}
	switch c.Format {
	case "", FormatPrometheus, FormatCSV, FormatKV:
	default:
		return fmt.Errorf("httpscrape: unknown Format %q", c.Format)
	}
	return nil
}

func (c Config) format() Format {
	if c.Format == "" {
		return FormatPrometheus
	}
	return c.Format
}
